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
	"regexp"
	"time"

	"github.com/twpayne/go-vfs/v4"

	"github.com/rancher/elemental-flash/pkg/constants"
	"github.com/rancher/elemental-flash/pkg/types"
	"github.com/rancher/elemental-flash/pkg/utils"
)

const partitionTries = 10

var endsWithDigit = regexp.MustCompile(`.*\d+$`)

type Disk struct {
	device string
	runner types.Runner
	fs     types.FS
	logger types.Logger
}

func NewDisk(device string, opts ...DiskOptions) *Disk {
	dev := &Disk{device: device}

	for _, opt := range opts {
		if err := opt(dev); err != nil {
			return nil
		}
	}

	if dev.runner == nil {
		dev.runner = &types.RealRunner{}
	}

	if dev.fs == nil {
		dev.fs = vfs.OSFS
	}

	if dev.logger == nil {
		dev.logger = types.NewLogger()
	}

	return dev
}

func (dev Disk) String() string {
	return dev.device
}

// Probe reads the current partition table and size of the disk
func (dev Disk) Probe() (*DeviceLayout, error) {
	return NewPartedCall(dev.device, dev.runner).Probe()
}

// ExpandGPT relocates the GPT backup structures to the end of the disk, see ExpandGPT
func (dev Disk) ExpandGPT() GPTExpansion {
	return ExpandGPT(dev.runner, dev.logger, dev.device)
}

// Verify runs a sanity check over the partition table, problems are only logged
func (dev Disk) Verify() {
	if !dev.runner.CommandExists(constants.SgdiskBin) {
		return
	}
	out, err := NewGdiskCall(dev.device, dev.runner).Verify()
	if err != nil {
		dev.logger.Warnf("Partition table verification of %s reported problems: %v", dev.device, err)
	}
	dev.logger.Debugf("sgdisk verify output: %s", out)
}

// ResizePartition grows partition num up to the end of the disk, see ResizePartition
func (dev Disk) ResizePartition(num int) ([]ResizeAttempt, error) {
	return ResizePartition(dev.runner, dev.logger, dev.device, num)
}

// ReloadPartitionTable makes the kernel re-read the partition table of the disk
func (dev Disk) ReloadPartitionTable() error {
	var err error
	for tries := 0; tries < partitionTries; tries++ {
		_, _ = dev.runner.Run(constants.UdevadmBin, "settle")
		_, err = dev.runner.Run(constants.PartprobeBin, dev.device)
		if err == nil {
			return nil
		}
		dev.logger.Debugf("Failed reloading the partition table of %s (try number %d): %v", dev.device, tries+1, err)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("could not reload the partition table of %s: %w", dev.device, err)
}

// PartitionDevice returns the device node name of partition num, it does not
// check it exists
func (dev Disk) PartitionDevice(num int) string {
	if endsWithDigit.MatchString(dev.device) {
		return fmt.Sprintf("%sp%d", dev.device, num)
	}
	return fmt.Sprintf("%s%d", dev.device, num)
}

// FindPartitionDevice returns the device node of partition num once udev created it
func (dev Disk) FindPartitionDevice(partNum int) (string, error) {
	device := dev.PartitionDevice(partNum)

	for tries := 0; tries <= partitionTries; tries++ {
		dev.logger.Debugf("Trying to find the partition device %d of device %s (try number %d)", partNum, dev, tries+1)
		_, _ = dev.runner.Run(constants.UdevadmBin, "settle")
		if exists, _ := utils.Exists(dev.fs, device); exists {
			return device, nil
		}
		time.Sleep(1 * time.Second)
	}
	return "", fmt.Errorf("could not find partition device '%s' for partition %d", device, partNum)
}
