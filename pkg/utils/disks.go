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

package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"
)

// Disk is a whole block device as known by the kernel
type Disk struct {
	Name      string
	Path      string
	SizeBytes uint64
	Model     string
	Removable bool
}

func ghwDiskToInternalDisk(d *block.Disk) *Disk {
	return &Disk{
		Name:      d.Name,
		Path:      filepath.Join("/dev", d.Name),
		SizeBytes: d.SizeBytes,
		Model:     d.Model,
		Removable: d.IsRemovable,
	}
}

// GetAllDisks returns all disks present in the system
func GetAllDisks() ([]*Disk, error) {
	blockDevices, err := block.New(ghw.WithDisableWarnings())
	if err != nil {
		return nil, err
	}
	var disks []*Disk
	for _, d := range blockDevices.Disks {
		disks = append(disks, ghwDiskToInternalDisk(d))
	}
	return disks, nil
}

// GetDisk returns the disk matching the given device name or path
func GetDisk(device string) (*Disk, error) {
	name := strings.TrimPrefix(device, "/dev/")
	disks, err := GetAllDisks()
	if err != nil {
		return nil, err
	}
	for _, d := range disks {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("disk %s not found", device)
}
