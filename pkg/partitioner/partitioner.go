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

// We only manage sizes in sectors unit for the Partition structure
type Partition struct {
	Number int
	StartS uint64
	EndS   uint64
	SizeS  uint64
}

// DeviceLayout is a snapshot of a device partition table as reported by parted
type DeviceLayout struct {
	Device       string
	TotalSectors uint64
	Partitions   []Partition
	// Raw is the unparsed parted output, kept for logging
	Raw string
}

// GetPartition returns the partition with the given number, nil if not present
func (l DeviceLayout) GetPartition(num int) *Partition {
	for i := range l.Partitions {
		if l.Partitions[i].Number == num {
			return &l.Partitions[i]
		}
	}
	return nil
}
