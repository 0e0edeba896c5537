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
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rancher/elemental-flash/cmd/config"
	"github.com/rancher/elemental-flash/pkg/action"
	"github.com/rancher/elemental-flash/pkg/constants"
	eleError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/types"
	"github.com/rancher/elemental-flash/pkg/utils"
)

// withInterruptContext returns a context cancelled on interrupt and makes the
// runner of cfg kill the running command once it is cancelled
func withInterruptContext(cfg *types.RunConfig) (context.Context, context.CancelFunc) {
	ctx, stop := signalContext()
	if r, ok := cfg.Runner.(*types.RealRunner); ok {
		r.Context = ctx
	}
	return ctx, stop
}

func NewFlashCmd(root *cobra.Command, addCheckRoot bool) *cobra.Command {
	c := &cobra.Command{
		Use:   "flash [DEVICE]",
		Short: "Write the image into DEVICE and grow its data partition to the whole device",
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

			if err = validateBlockSizeFlag(cmd.Flags()); err != nil {
				return eleError.NewFromError(err, eleError.InvalidOptions)
			}
			if err = setDeviceArg(cmd.Flags(), args); err != nil {
				return eleError.NewFromError(err, eleError.InvalidOptions)
			}

			cmd.SilenceUsage = true
			spec, err := config.ReadFlashSpec(cfg, cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("invalid flash command setup %v", err)
				return eleError.NewFromError(err, eleError.ReadingFlashConfig)
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if spec.Device == "" && !spec.SkipConfirm {
				if disks, err := utils.GetAllDisks(); err == nil {
					_ = renderDisks(cmd.OutOrStdout(), disks)
				}
				spec.Device, err = promptDevice(in, cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			if err = spec.Sanitize(); err != nil {
				cfg.Logger.Errorf("invalid flash command setup %v", err)
				return eleError.NewFromError(err, eleError.InvalidOptions)
			}

			if !spec.SkipConfirm {
				err = confirmSteps(
					in, cmd.OutOrStdout(), spec.Device, constants.GetDefaultFlashSteps(),
					fmt.Sprintf("all data on %s will be lost!", spec.Device),
				)
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

			cfg.Logger.Infof("Flash called")
			flash := action.NewFlashAction(cfg, spec)
			return interrupted(ctx, flash.Run(ctx))
		},
	}
	root.AddCommand(c)
	addFlashFlags(c)
	return c
}

// register the subcommand into rootCmd
var _ = NewFlashCmd(rootCmd, true)
