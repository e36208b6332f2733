/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newServicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "services",
		Aliases: []string{"ls"},
		Short:   "List declared services",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.cfg.ServiceNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No services declared.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBASE URL")
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%s\n", name, a.cfg.Services[name].BaseURL)
			}
			return w.Flush()
		},
	}
}
