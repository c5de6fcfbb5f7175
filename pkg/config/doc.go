/*
Package config loads rulesets and migrations and compiles them for the engine.

	                +-------------+
	                |   Catalog   |
	                | (compiled)  |
	                +------+------+
	                       |
	                +------+------+
	                |   Config    |
	                +------+------+
	                       |
	     +-----------+-----+-----+-----------+
	     |           |           |           |
	+----+----+ +----+----+ +----+----+ +----+----+
	|  YAML   | |  JSON   | |   HCL   | |  TOML   |
	+---------+ +---------+ +---------+ +---------+

🎯 Purpose:
- Reads rule configuration from YAML, JSON (comments allowed), HCL or TOML
- Validates names, references and engine settings
- Compiles every pattern up front into a Catalog
- Ships the built-in Notion migrations

🔄 Flow:
1. LoadConfig picks a Parser by extension (.restyle tries YAML then HCL); with no
   path, LoadOrBuiltin tries ./.restyle, then restyle/config.* in the XDG config
   directories, then the built-ins
2. Validate reports every structural problem at once
3. Compile builds each ruleset; the first bad pattern stops everything
4. Catalog.Select resolves migration names in the order the caller asked for

📝 Model:

	rulesets:
	  - name: remove-purple
	    rules:
	      - pattern: 'text-purple-\d+'
	        replacement: notion-text
	      - name: text-white
	        pattern: '\btext-white\b(?!\s*["''])'
	        replacement: notion-text
	        engine: regexp2
	        timeout: 2s
	migrations:
	  - name: remove-purple
	    rulesets: [remove-purple]
	    include: ['src/components/*.tsx', src/index.css]
	    exclude: [Auth.tsx]

Rules inside a ruleset run in the order written. Migrations run their rulesets in the
order listed, each over the output of the previous one.

🔍 Example:

	cfg, err := config.LoadOrBuiltin(ctx, flagPath)
	if err != nil {
		return err
	}
	cat, err := config.Compile(ctx, cfg)
	if err != nil {
		var perr *text.PatternError
		if errors.As(err, &perr) {
			// bad rule, nothing was touched
		}
		return err
	}
*/
package config
