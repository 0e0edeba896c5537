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
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rancher/elemental-flash/pkg/constants"
	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/types"
)

var (
	diskSizeRegexp  = regexp.MustCompile(`(?m)^Disk\s+(/\S+):\s+(\d+)s\s*$`)
	partitionRegexp = regexp.MustCompile(`^(\d+)\s+(\d+)s\s+(\d+)s\s+(\d+)s`)
)

type PartedCall struct {
	dev    string
	runner types.Runner
}

func NewPartedCall(dev string, runner types.Runner) *PartedCall {
	return &PartedCall{dev: dev, runner: runner}
}

// Print returns the partition table of the device in sectors unit
func (pc PartedCall) Print() (string, error) {
	out, err := pc.runner.Run(constants.PartedBin, "--script", "--", pc.dev, "unit", "s", "print")
	return string(out), err
}

// Probe reads the current partition table from the device. Nothing is cached,
// every call queries parted again.
func (pc PartedCall) Probe() (*DeviceLayout, error) {
	out, err := pc.Print()
	if err != nil {
		return nil, err
	}
	total, err := ParseTotalSectors(out)
	if err != nil {
		return nil, err
	}
	return &DeviceLayout{
		Device:       pc.dev,
		TotalSectors: total,
		Partitions:   ParsePartitions(out),
		Raw:          out,
	}, nil
}

// ResizeToPercent asks parted to set the end of the partition to the given
// percentage of the device
func (pc PartedCall) ResizeToPercent(num int, percent string) (string, error) {
	out, err := pc.runner.Run(constants.PartedBin, "--script", "--", pc.dev, "resizepart", strconv.Itoa(num), percent)
	return string(out), err
}

// ResizeToSector sets the end of the partition to the given sector
func (pc PartedCall) ResizeToSector(num int, endS uint64) (string, error) {
	out, err := pc.runner.Run(
		constants.PartedBin, "--script", "--", pc.dev, "unit", "s",
		"resizepart", strconv.Itoa(num), fmt.Sprintf("%ds", endS),
	)
	return string(out), err
}

// ParseTotalSectors parses the device size from a PartedCall.Print output,
// it expects a 'Disk <path>: <digits>s' line
func ParseTotalSectors(printOut string) (uint64, error) {
	match := diskSizeRegexp.FindStringSubmatch(printOut)
	if match == nil {
		return 0, &elementalError.ParseError{What: "device size in sectors", Output: printOut}
	}
	total, err := strconv.ParseUint(match[2], 10, 64)
	if err != nil {
		return 0, &elementalError.ParseError{What: "device size in sectors", Output: printOut}
	}
	return total, nil
}

// ParsePartitions parses the partition rows of a PartedCall.Print output
func ParsePartitions(printOut string) []Partition {
	var partitions []Partition

	scanner := bufio.NewScanner(strings.NewReader(strings.TrimSpace(printOut)))
	for scanner.Scan() {
		match := partitionRegexp.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		num, _ := strconv.Atoi(match[1])
		start, _ := strconv.ParseUint(match[2], 10, 64)
		end, _ := strconv.ParseUint(match[3], 10, 64)
		size, _ := strconv.ParseUint(match[4], 10, 64)
		partitions = append(partitions, Partition{Number: num, StartS: start, EndS: end, SizeS: size})
	}

	return partitions
}
