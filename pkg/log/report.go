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

package log

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/pkg/status"
)

// 📊 RenderReport renders the run summary: every changed or failed file in a table
// followed by the totals. Unchanged and skipped files only show up in the totals.
func RenderReport(report *status.RunReport, dryRun bool) (string, error) {
	changedLabel := "changed"
	if dryRun {
		changedLabel = "would change"
	}

	data := pterm.TableData{{"File", "Status", "Replacements", "Error"}}
	for _, o := range report.Outcomes() {
		switch {
		case o.Changed():
			data = append(data, []string{o.Path, changedLabel, strconv.Itoa(o.Replacements), ""})
		case o.Failed():
			msg := ""
			if o.Err != nil {
				msg = fmt.Sprintf("%s: %v", o.Err.Kind, o.Err.Err)
			}
			data = append(data, []string{o.Path, "failed", "", msg})
		}
	}

	out := ""
	if len(data) > 1 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return "", errors.Errorf("rendering report table: %w", err)
		}
		out = table + "\n"
	}

	counts := report.Counts()
	out += fmt.Sprintf("%d file(s) %s, %d unchanged, %d skipped, %d failed\n",
		report.ChangedCount(), changedLabel,
		counts[status.StatusUnchanged], counts[status.StatusSkipped], counts[status.StatusFailed])

	return out, nil
}
