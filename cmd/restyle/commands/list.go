// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/cmd/restyle/opts"
)

// NewListCmd creates a new list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	var rules bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show configured migrations and rulesets",
		RunE: func(cmd *cobra.Command, args []string) error {
			source := o.Config.Location()
			if source == "" {
				source = "built-in"
			}
			o.Logger.Header("configuration from " + source)

			migrations := pterm.TableData{{"Migration", "Rulesets", "Include", "Exclude", "Description"}}
			for _, m := range o.Catalog.Migrations() {
				migrations = append(migrations, []string{
					m.Name,
					strings.Join(m.RulesetNames(), " → "),
					strings.Join(m.Include, ", "),
					strings.Join(m.Exclude, ", "),
					m.Description,
				})
			}
			out, err := pterm.DefaultTable.WithHasHeader().WithData(migrations).Srender()
			if err != nil {
				return errors.Errorf("rendering migrations: %w", err)
			}
			o.Logger.Print(out)
			o.Logger.LogNewline()

			rulesets := pterm.TableData{{"Ruleset", "Rules", "Description"}}
			for _, rs := range o.Catalog.Rulesets() {
				rulesets = append(rulesets, []string{rs.Name(), fmt.Sprint(rs.Len()), rs.Description()})
			}
			out, err = pterm.DefaultTable.WithHasHeader().WithData(rulesets).Srender()
			if err != nil {
				return errors.Errorf("rendering rulesets: %w", err)
			}
			o.Logger.Print(out)

			if !rules {
				return nil
			}

			for _, rs := range o.Catalog.Rulesets() {
				o.Logger.LogNewline()
				data := pterm.TableData{{rs.Name(), "Engine", "Rule"}}
				for i, r := range rs.Rules() {
					data = append(data, []string{fmt.Sprint(i + 1), string(r.Engine()), r.String()})
				}
				out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
				if err != nil {
					return errors.Errorf("rendering ruleset %s: %w", rs.Name(), err)
				}
				o.Logger.Print(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rules, "rules", false, "also print every rule of every ruleset")

	return cmd
}
