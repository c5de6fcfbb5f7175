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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/walteh/restyle/cmd/restyle/opts"
	"github.com/walteh/restyle/pkg/status"
)

func main() {
	o := &opts.RootOpts{}
	rootCmd := newRootCmd(o)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if o.Logger != nil {
			o.Logger.Errorf("restyle failed: %v", err)
		} else {
			fmt.Fprintln(os.Stderr, status.NewDefaultFileFormatter().FormatError(err))
		}
		os.Exit(1)
	}
}
