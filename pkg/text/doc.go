/*
Package text implements the rule substitution engine.

	+---------+     +-----------+     +-------------+
	|  Rule   | --> |  Ruleset  | --> | Substituter |
	| pattern |     | (ordered) |     |  (verdict)  |
	+---------+     +-----------+     +-------------+

A Rule pairs a regular expression with a replacement template. A Ruleset is an ordered
list of rules folded over a buffer: each rule sees the output of the rules before it.
The Substituter folds one or more rulesets and reports whether anything changed.

Patterns are compiled when the ruleset is built. A broken pattern is a *PatternError
returned from Builder.Build, never a failure while a file is being rewritten.

Two regexp engines are available per rule. "re2" (the default) is the standard
library matcher. "regexp2" supports lookaround and is bounded by a match timeout.
Replacement templates reference capture groups as \1, \g<1>, $1 or ${1}, and named
groups as \g<name> or ${name}. $$ is a literal dollar, and so is any $ that does not
start a reference. A reference to a group the pattern does not define is a
*PatternError when the rule is compiled.

	rs, err := text.NewBuilder("colors").
		Add(`text-purple-\d+`, "notion-text").
		Add(`bg-purple-\d+`, "bg-gray-800").
		Build()
	if err != nil {
		return err
	}
	res, err := text.NewSubstituter().Apply(ctx, content, rs)
*/
package text
