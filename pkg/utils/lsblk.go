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
	"encoding/json"
	"errors"

	"github.com/rancher/elemental-flash/pkg/constants"
	"github.com/rancher/elemental-flash/pkg/types"
)

// BlockDevice is a device entry as reported by lsblk
type BlockDevice struct {
	Label      string `json:"label,omitempty"`
	Size       uint64 `json:"size,omitempty"`
	FS         string `json:"fstype,omitempty"`
	MountPoint string `json:"mountpoint,omitempty"`
	Path       string `json:"path,omitempty"`
	Disk       string `json:"pkname,omitempty"`
	Type       string `json:"type,omitempty"`
}

func unmarshalLsblk(lsblkOut []byte) ([]BlockDevice, error) {
	var objmap map[string]*json.RawMessage
	err := json.Unmarshal(lsblkOut, &objmap)
	if err != nil {
		return nil, err
	}

	if _, ok := objmap["blockdevices"]; !ok || objmap["blockdevices"] == nil {
		return nil, errors.New("Invalid json object, no 'blockdevices' key found")
	}

	var devs []BlockDevice
	err = json.Unmarshal(*objmap["blockdevices"], &devs)
	if err != nil {
		return nil, err
	}

	return devs, nil
}

// GetDeviceTree lists the given device and all its children (partitions,
// mapped devices) as a flat list
func GetDeviceTree(runner types.Runner, device string) ([]BlockDevice, error) {
	out, err := runner.Run(constants.LsblkBin, "-p", "-b", "-l", "-J", "--output", "LABEL,SIZE,FSTYPE,MOUNTPOINT,PATH,PKNAME,TYPE", device)
	if err != nil {
		return nil, err
	}

	return unmarshalLsblk(out)
}

// GetMountPoints returns the mountpoints of the device and any of its children
func GetMountPoints(runner types.Runner, device string) ([]string, error) {
	devs, err := GetDeviceTree(runner, device)
	if err != nil {
		return nil, err
	}
	var mnts []string
	for _, d := range devs {
		if d.MountPoint != "" {
			mnts = append(mnts, d.MountPoint)
		}
	}
	return mnts, nil
}
