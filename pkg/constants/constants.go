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

package constants

const (
	ConfigDir       = "/etc/elemental-flash"
	EnvPrefix       = "ELEMENTAL_FLASH"
	MountBinary     = "/usr/bin/mount"
	DevDir          = "/dev"
	DefaultImageRel = "image/n305rm01.img"
	BlockSize       = "4MiB"

	// Data partition layout of the reference image
	DataPartition = 2
	SectorSize    = 512
	// Sectors kept free at the end of the device for the GPT backup header
	// (1 sector) and backup partition entries array (32 sectors), rounded up
	ReservedTailSectors = 34
	// Size requested on the first resize attempt, resolved by parted itself
	FullSizePercent = "100%"

	// Binaries of the external collaborators
	PartedBin    = "parted"
	SgdiskBin    = "sgdisk"
	E2fsckBin    = "e2fsck"
	Resize2fsBin = "resize2fs"
	WipefsBin    = "wipefs"
	DdBin        = "dd"
	SyncBin      = "sync"
	LsblkBin     = "lsblk"
	UdevadmBin   = "udevadm"
	PartprobeBin = "partprobe"

	// e2fsck(8) exit status is a bitmask, any bit from this value upwards
	// reports a problem that was not corrected
	E2fsckUncorrected = 4
)

// GetDefaultFlashSteps returns the human readable list of the steps of a flash run
func GetDefaultFlashSteps() []string {
	return []string{
		"Unmount device",
		"Wipe partition table and signatures",
		"Write image",
		"Expand partition table and data partition",
		"Check and resize filesystem",
	}
}
