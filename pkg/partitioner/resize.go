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

	"github.com/rancher/elemental-flash/pkg/constants"
	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/types"
)

type ResizeStrategy string

const (
	// PercentStrategy lets parted resolve the partition end from a percentage
	PercentStrategy ResizeStrategy = "percent"
	// SectorStrategy sets an explicit end sector computed from the device size
	SectorStrategy ResizeStrategy = "explicit-sector"
)

// ResizeAttempt records a single partition resize call
type ResizeAttempt struct {
	Strategy  ResizeStrategy
	Target    string
	Succeeded bool
	ExitCode  int
}

func (a ResizeAttempt) String() string {
	status := "failed"
	if a.Succeeded {
		status = "succeeded"
	}
	return fmt.Sprintf("%s resize to %s %s (exit code %d)", a.Strategy, a.Target, status, a.ExitCode)
}

// EndSector returns the last sector a partition can span on a device of the
// given size without overlapping the GPT backup structures
func EndSector(totalSectors uint64) (uint64, error) {
	if totalSectors <= constants.ReservedTailSectors {
		return 0, fmt.Errorf(
			"device of %d sectors is too small, at least %d sectors are required",
			totalSectors, constants.ReservedTailSectors+1,
		)
	}
	return totalSectors - constants.ReservedTailSectors, nil
}

type partitionResizer struct {
	parted   *PartedCall
	logger   types.Logger
	num      int
	attempts []ResizeAttempt
}

// ResizePartition grows the given partition up to the end of the device.
//
// The first attempt asks parted for 100% of the device. That is resolved
// against the extent declared in the partition table, which is stale if the
// GPT backup structures were not relocated, so on failure the end sector is
// computed from the actual device size minus the reserved tail and a second
// and last attempt is issued. If the device size can't be read no second
// attempt is made.
//
// All the attempts issued are returned, regardless of the outcome.
func ResizePartition(runner types.Runner, logger types.Logger, dev string, num int) ([]ResizeAttempt, error) {
	r := &partitionResizer{
		parted: NewPartedCall(dev, runner),
		logger: logger,
		num:    num,
	}
	err := r.tryPercent()
	if err == nil {
		return r.attempts, nil
	}
	logger.Warnf("Could not resize partition %d of %s to %s: %v", num, dev, constants.FullSizePercent, err)
	logger.Infof("Falling back to an explicit end sector")

	err = r.trySector()
	if err != nil {
		return r.attempts, err
	}
	return r.attempts, nil
}

func (r *partitionResizer) tryPercent() error {
	out, err := r.parted.ResizeToPercent(r.num, constants.FullSizePercent)
	r.record(PercentStrategy, constants.FullSizePercent, out, err)
	return err
}

func (r *partitionResizer) trySector() error {
	layout, err := r.parted.Probe()
	if err != nil {
		r.logger.Errorf("Could not determine the size of %s: %v", r.parted.dev, err)
		return err
	}

	endS, err := EndSector(layout.TotalSectors)
	if err != nil {
		return err
	}
	if part := layout.GetPartition(r.num); part != nil && endS <= part.StartS {
		return fmt.Errorf(
			"computed end sector %d is not beyond the start sector %d of partition %d",
			endS, part.StartS, r.num,
		)
	}
	r.logger.Infof(
		"Device %s has %d sectors, resizing partition %d up to sector %d keeping %d sectors for the GPT backup",
		r.parted.dev, layout.TotalSectors, r.num, endS, constants.ReservedTailSectors,
	)

	out, err := r.parted.ResizeToSector(r.num, endS)
	r.record(SectorStrategy, fmt.Sprintf("%ds", endS), out, err)
	if err != nil {
		return fmt.Errorf("resizing partition %d of %s up to sector %d: %w", r.num, r.parted.dev, endS, err)
	}
	return nil
}

func (r *partitionResizer) record(strategy ResizeStrategy, target string, out string, err error) {
	attempt := ResizeAttempt{Strategy: strategy, Target: target, Succeeded: err == nil}
	if err != nil {
		attempt.ExitCode = -1
		if code, ok := elementalError.ExitCodeOf(err); ok {
			attempt.ExitCode = code
		}
	}
	r.logger.Debugf("parted output: %s", out)
	r.logger.Debugf("Partition resize attempt: %s", attempt)
	r.attempts = append(r.attempts, attempt)
}
