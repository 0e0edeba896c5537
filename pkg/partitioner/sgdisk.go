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
	"github.com/rancher/elemental-flash/pkg/constants"
	"github.com/rancher/elemental-flash/pkg/types"
)

type GdiskCall struct {
	dev    string
	runner types.Runner
	expand bool
}

func NewGdiskCall(dev string, runner types.Runner) *GdiskCall {
	return &GdiskCall{dev: dev, runner: runner}
}

func (gd GdiskCall) buildOptions() []string {
	opts := []string{}

	if gd.expand {
		opts = append(opts, "-e")
	}

	if len(opts) == 0 {
		return nil
	}

	opts = append(opts, gd.dev)
	return opts
}

func (gd GdiskCall) Verify() (string, error) {
	out, err := gd.runner.Run(constants.SgdiskBin, "--verify", gd.dev)
	return string(out), err
}

func (gd *GdiskCall) WriteChanges() (string, error) {
	opts := gd.buildOptions()
	if len(opts) == 0 {
		return "", nil
	}
	out, err := gd.runner.Run(constants.SgdiskBin, opts...)
	return string(out), err
}

// ExpandPTable relocates the GPT backup structures to the end of the device
func (gd *GdiskCall) ExpandPTable() {
	gd.expand = true
}

// GPTExpansion reports what happened while expanding the partition table
type GPTExpansion struct {
	Attempted bool
	Succeeded bool
}

// ExpandGPT moves the GPT backup header and partition array to the end of the
// device so the whole device is usable. It never fails: a missing sgdisk or
// a failed call are only logged, partition resizing may still work without it.
func ExpandGPT(runner types.Runner, logger types.Logger, dev string) GPTExpansion {
	if !runner.CommandExists(constants.SgdiskBin) {
		logger.Warnf("%s not found, skipping partition table expansion of %s", constants.SgdiskBin, dev)
		return GPTExpansion{}
	}

	gd := NewGdiskCall(dev, runner)
	gd.ExpandPTable()
	out, err := gd.WriteChanges()
	if err != nil {
		logger.Warnf("Failed expanding partition table of %s, continuing: %v", dev, err)
		logger.Debugf("sgdisk output: %s", out)
		return GPTExpansion{Attempted: true}
	}
	logger.Debugf("sgdisk output: %s", out)
	return GPTExpansion{Attempted: true, Succeeded: true}
}
