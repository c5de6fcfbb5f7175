/*
Package operation applies rulesets to files on disk.

	+-------------+
	|   Runner    |
	|   (batch)   |
	+------+------+
	       |
	+------+------+
	|   Updater   |
	|  (one file) |
	+------+------+

🎯 Purpose:
- Read a file, run the substitution engine, write back only when content changed
- Turn every per-file failure into a status.FileOutcome instead of an abort
- Run a batch sequentially or on a bounded worker pool

🔄 Flow:
1. Runner asks the Selector which rulesets apply to each path
2. Updater reads the file through status.FileManager
3. text.Substituter folds the rulesets over the content
4. Changed content is swapped in atomically (temp file + rename)
5. Runner folds the outcomes into a status.RunReport in input order

⚡ Key Responsibilities:
- Partial-failure isolation: file A failing never stops files B and C
- Dry runs and unified diffs for review
- Optional .bak copies and per-file deadlines; Cleaner removes those copies again

🔍 Example:

	updater := operation.NewUpdater(operation.Options{DryRun: true, Diff: true})
	runner := operation.NewRunner(updater, 4)
	report, err := runner.Run(ctx, files, &operation.GlobSelector{
		Root:     root,
		Exclude:  []string{"Auth.tsx"},
		Rulesets: rulesets,
	})
*/
package operation
