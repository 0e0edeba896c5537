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
	"bufio"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rancher/elemental-flash/cmd/config"
	"github.com/rancher/elemental-flash/pkg/action"
	"github.com/rancher/elemental-flash/pkg/constants"
	eleError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/types"
)

func NewExpandCmd(root *cobra.Command, addCheckRoot bool) *cobra.Command {
	c := &cobra.Command{
		Use:   "expand DEVICE",
		Short: "Grow the data partition and filesystem of an already flashed DEVICE",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if addCheckRoot {
				return CheckRoot()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mounter := types.NewMounter(constants.MountBinary)

			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"), cmd.Flags(), mounter)
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
			}

			if err = setDeviceArg(cmd.Flags(), args); err != nil {
				return eleError.NewFromError(err, eleError.InvalidOptions)
			}

			cmd.SilenceUsage = true
			spec, err := config.ReadExpandSpec(cfg, cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("invalid expand command setup %v", err)
				return eleError.NewFromError(err, eleError.ReadingExpandConfig)
			}

			if !spec.SkipConfirm {
				in := bufio.NewReader(cmd.InOrStdin())
				steps := constants.GetDefaultFlashSteps()
				err = confirmSteps(in, cmd.OutOrStdout(), spec.Device, steps[len(steps)-2:], "")
				if errors.Is(err, eleError.ErrUserAbort) {
					cfg.Logger.Warnf("Operation cancelled")
					cmd.SilenceErrors = true
				}
				if err != nil {
					return err
				}
			}

			ctx, stop := withInterruptContext(cfg)
			defer stop()

			cfg.Logger.Infof("Expand called")
			expand := action.NewExpandAction(cfg, spec)
			return interrupted(ctx, expand.Run(ctx))
		},
	}
	root.AddCommand(c)
	c.Flags().StringP("device", "d", "", "Target device name or path (e.g. sda or /dev/sda)")
	addSkipConfirmFlag(c)
	return c
}

// register the subcommand into rootCmd
var _ = NewExpandCmd(rootCmd, true)
