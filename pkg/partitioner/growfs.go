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

package partitioner

import (
	"fmt"
	"strings"

	"github.com/rancher/elemental-flash/pkg/constants"
	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/types"
)

// e2fsck(8) exit status bits
var fsckStatus = []struct {
	bit  int
	desc string
}{
	{1, "filesystem errors corrected"},
	{2, "filesystem errors corrected, system should be rebooted"},
	{4, "filesystem errors left uncorrected"},
	{8, "operational error"},
	{16, "usage or syntax error"},
	{32, "cancelled by user request"},
	{128, "shared library error"},
}

// DescribeFsckStatus returns a human readable description of an e2fsck exit status
func DescribeFsckStatus(code int) string {
	if code == 0 {
		return "no errors"
	}
	var descs []string
	for _, s := range fsckStatus {
		if code&s.bit != 0 {
			descs = append(descs, s.desc)
		}
	}
	if len(descs) == 0 {
		return fmt.Sprintf("unknown status %d", code)
	}
	return strings.Join(descs, "; ")
}

// CheckFilesystem forces a check of the ext filesystem in device, fixing any
// problem found. Only statuses reporting uncorrected problems or a failure of
// e2fsck itself are errors.
func CheckFilesystem(runner types.Runner, logger types.Logger, device string) error {
	err := runner.RunInteractive(constants.E2fsckBin, "-f", "-y", device)
	if err == nil {
		return nil
	}
	code, ok := elementalError.ExitCodeOf(err)
	if !ok || code < 0 || code >= constants.E2fsckUncorrected {
		if ok && code > 0 {
			err = fmt.Errorf("%w: %s", err, DescribeFsckStatus(code))
		}
		logger.Errorf("Filesystem check of %s failed: %v", device, err)
		return elementalError.NewFromError(err, elementalError.CheckFilesystem)
	}
	logger.Warnf("Filesystem check of %s: %s", device, DescribeFsckStatus(code))
	return nil
}

// ResizeFilesystem grows the ext filesystem in device to the size of the device
func ResizeFilesystem(runner types.Runner, logger types.Logger, device string) error {
	err := runner.RunInteractive(constants.Resize2fsBin, device)
	if err != nil {
		logger.Errorf("Failed resizing filesystem of %s: %v", device, err)
		return elementalError.NewFromError(err, elementalError.ResizeFilesystem)
	}
	return nil
}

// GrowFilesystem checks the filesystem of device and, only if the check
// passed, grows it to fill the device. Both tools report their own progress
// on the terminal.
func GrowFilesystem(runner types.Runner, logger types.Logger, device string) error {
	logger.Infof("Checking filesystem on %s", device)
	if err := CheckFilesystem(runner, logger, device); err != nil {
		return err
	}
	logger.Infof("Resizing filesystem on %s", device)
	return ResizeFilesystem(runner, logger, device)
}
