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

package elemental

import (
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"

	"github.com/rancher/elemental-flash/pkg/constants"
	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/partitioner"
	"github.com/rancher/elemental-flash/pkg/types"
	"github.com/rancher/elemental-flash/pkg/utils"
)

// Elemental is the struct meant to self-contain the device level operations of a flash run
type Elemental struct {
	config *types.Config
}

func NewElemental(config *types.Config) *Elemental {
	return &Elemental{
		config: config,
	}
}

// NewDisk returns a partitioner.Disk for device sharing the runtime configuration
func (e Elemental) NewDisk(device string) *partitioner.Disk {
	return partitioner.NewDisk(
		device,
		partitioner.WithRunner(e.config.Runner),
		partitioner.WithFS(e.config.Fs),
		partitioner.WithLogger(e.config.Logger),
	)
}

// CheckDevice verifies device is a disk known to the kernel and returns it
func (e Elemental) CheckDevice(device string) (*utils.Disk, error) {
	disk, err := utils.GetDisk(device)
	if err != nil {
		e.config.Logger.Errorf("Device %s not found: %v", device, err)
		return nil, elementalError.NewPreconditionError(elementalError.DeviceNotFound, "device %s is not an available disk", device)
	}
	e.config.Logger.Infof("Target device %s: %s %s", disk.Path, units.BytesSize(float64(disk.SizeBytes)), disk.Model)
	return disk, nil
}

// CheckImage verifies the image exists and fits in a disk of diskSize bytes
func (e Elemental) CheckImage(image string, diskSize uint64) error {
	size, err := utils.FileSize(e.config.Fs, image)
	if err != nil {
		e.config.Logger.Errorf("Image file %s not found: %v", image, err)
		return elementalError.NewPreconditionError(elementalError.ImageNotFound, "image file %s does not exist", image)
	}
	e.config.Logger.Infof("Image %s: %s", image, units.BytesSize(float64(size)))
	if uint64(size) > diskSize {
		return elementalError.NewPreconditionError(
			elementalError.ImageTooLarge, "image of %s does not fit in a device of %s",
			units.BytesSize(float64(size)), units.BytesSize(float64(diskSize)),
		)
	}
	return nil
}

// UnmountDevice unmounts any mounted filesystem of device or its partitions.
// This is a best effort call, failures are logged and do not stop the run.
func (e Elemental) UnmountDevice(device string) {
	e.config.Logger.Infof("Unmounting %s", device)
	mnts, err := utils.GetMountPoints(e.config.Runner, device)
	if err != nil {
		e.config.Logger.Warnf("Could not list mountpoints of %s: %v", device, err)
		return
	}

	var errs error
	for _, mnt := range mnts {
		e.config.Logger.Infof("Unmounting %s", mnt)
		if err := e.config.Mounter.Unmount(mnt); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unmounting %s: %w", mnt, err))
		}
	}
	if errs != nil {
		e.config.Logger.Warnf("Some filesystems of %s could not be unmounted: %v", device, errs)
	}
}

// WipeDevice removes any filesystem, raid or partition table signature from device
func (e Elemental) WipeDevice(device string) error {
	e.config.Logger.Infof("Wiping partition table and signatures of %s", device)
	out, err := e.config.Runner.Run(constants.WipefsBin, "-a", device)
	if err != nil {
		e.config.Logger.Errorf("Failed wiping %s: %s", device, string(out))
		return elementalError.NewFromError(err, elementalError.WipeDevice)
	}
	return nil
}

// WriteImage dumps the raw image into device. dd reports its own progress on the terminal.
func (e Elemental) WriteImage(image, device string, bs types.BlockSize) error {
	e.config.Logger.Infof("Writing %s to %s, this may take a while", image, device)
	err := e.config.Runner.RunInteractive(
		constants.DdBin, fmt.Sprintf("if=%s", image), fmt.Sprintf("of=%s", device),
		fmt.Sprintf("bs=%d", uint64(bs)), "status=progress",
	)
	if err != nil {
		e.config.Logger.Errorf("Failed writing image to %s", device)
		return elementalError.NewFromError(err, elementalError.WriteImage)
	}
	return nil
}

// SyncDevice flushes all pending writes
func (e Elemental) SyncDevice() error {
	e.config.Logger.Infof("Syncing")
	_, err := e.config.Runner.Run(constants.SyncBin)
	if err != nil {
		return elementalError.NewFromError(err, elementalError.SyncDevice)
	}
	return nil
}

// ShowDevice logs the block device tree of device
func (e Elemental) ShowDevice(device string) error {
	out, err := e.config.Runner.Run(constants.LsblkBin, device)
	if err != nil {
		e.config.Logger.Errorf("Failed listing %s", device)
		return elementalError.NewFromError(err, elementalError.InspectDevice)
	}
	e.config.Logger.Infof("Current layout of %s:\n%s", device, string(out))
	return nil
}

// InspectDevice reloads the partition table of disk and logs its layout. An
// unreadable partition table is only reported, the returned layout is nil in
// that case. Only a failure listing the device is returned as an error.
func (e Elemental) InspectDevice(disk *partitioner.Disk) (*partitioner.DeviceLayout, error) {
	if err := disk.ReloadPartitionTable(); err != nil {
		e.config.Logger.Warnf("%v", err)
	}
	if err := e.ShowDevice(disk.String()); err != nil {
		return nil, err
	}
	layout, err := disk.Probe()
	if err != nil {
		e.config.Logger.Warnf("Could not read the partition table of %s: %v", disk, err)
		var parseErr *elementalError.ParseError
		if errors.As(err, &parseErr) {
			e.config.Logger.Debugf("Partition table of %s:\n%s", disk, parseErr.Output)
		}
		return nil, nil
	}
	e.config.Logger.Infof(
		"%s has %d sectors (%s)", disk, layout.TotalSectors,
		units.BytesSize(float64(layout.TotalSectors*constants.SectorSize)),
	)
	e.config.Logger.Debugf("Partition table of %s:\n%s", disk, layout.Raw)
	return layout, nil
}

// ResizeDataPartition expands the partition table and grows the data partition
// to the end of disk
func (e Elemental) ResizeDataPartition(disk *partitioner.Disk) ([]partitioner.ResizeAttempt, error) {
	e.config.Logger.Infof("Expanding partition table of %s", disk)
	gpt := disk.ExpandGPT()
	e.config.Logger.Debugf("GPT expansion attempted: %t, succeeded: %t", gpt.Attempted, gpt.Succeeded)

	e.config.Logger.Infof("Resizing partition %d of %s", constants.DataPartition, disk)
	attempts, err := disk.ResizePartition(constants.DataPartition)
	for _, a := range attempts {
		e.config.Logger.Debugf("Resize attempt: %s", a)
	}
	if err != nil {
		e.config.Logger.Errorf("Failed resizing partition %d of %s: %v", constants.DataPartition, disk, err)
		return attempts, elementalError.NewFromError(err, elementalError.ResizePartition)
	}
	return attempts, nil
}

// GrowDataFilesystem checks and grows the filesystem of the data partition of disk
func (e Elemental) GrowDataFilesystem(disk *partitioner.Disk) error {
	if err := disk.ReloadPartitionTable(); err != nil {
		e.config.Logger.Warnf("%v", err)
	}
	pDev, err := disk.FindPartitionDevice(constants.DataPartition)
	if err != nil {
		return elementalError.NewFromError(err, elementalError.FindPartition)
	}
	return partitioner.GrowFilesystem(e.config.Runner, e.config.Logger, pDev)
}
