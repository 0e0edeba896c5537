/*
Copyright © 2022 - 2025 SUSE LLC

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

package cmd

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	eleError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/utils"
)

// renderDisks writes a table of the given disks to out
func renderDisks(out io.Writer, disks []*utils.Disk) error {
	if len(disks) == 0 {
		_, err := fmt.Fprintln(out, "No disks found")
		return err
	}
	data := pterm.TableData{{"NAME", "PATH", "SIZE", "MODEL", "REMOVABLE"}}
	for _, d := range disks {
		data = append(data, []string{
			d.Name, d.Path, units.BytesSize(float64(d.SizeBytes)), d.Model, fmt.Sprintf("%t", d.Removable),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, table)
	return err
}

func NewDevicesCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "devices",
		Short: "List the disks available as flash targets",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			disks, err := utils.GetAllDisks()
			if err != nil {
				return eleError.NewFromError(err, eleError.DeviceNotFound)
			}
			return renderDisks(cmd.OutOrStdout(), disks)
		},
	}
	root.AddCommand(c)
	return c
}

// register the subcommand into rootCmd
var _ = NewDevicesCmd(rootCmd)
