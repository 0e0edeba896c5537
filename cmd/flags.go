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
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rancher/elemental-flash/pkg/constants"
	"github.com/rancher/elemental-flash/pkg/types"
)

// addSkipConfirmFlag adds the flag to run without interactive confirmation
func addSkipConfirmFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("skip-confirm", false, "Do not ask for confirmation before touching the device")
}

// addFlashFlags adds the flags of the flash command
func addFlashFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("image", "i", "", "Raw disk image to write (default: ~/"+constants.DefaultImageRel+" of the invoking user)")
	cmd.Flags().StringP("device", "d", "", "Target device name or path (e.g. sda or /dev/sda)")
	cmd.Flags().String("block-size", constants.BlockSize, "Block size used to write the image")
	addSkipConfirmFlag(cmd)
}

// validateBlockSizeFlag fails early on unparseable block sizes
func validateBlockSizeFlag(flags *pflag.FlagSet) error {
	if !flags.Changed("block-size") {
		return nil
	}
	bs, _ := flags.GetString("block-size")
	_, err := types.ParseBlockSize(bs)
	return err
}

// setDeviceArg sets the positional device argument, if any, as the device flag value
func setDeviceArg(flags *pflag.FlagSet, args []string) error {
	if len(args) == 1 {
		return flags.Set("device", args[0])
	}
	return nil
}
