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

package types

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"
)

// Config is the struct that includes basic and generic configuration of elemental-flash binary runtime.
// It mostly includes the interfaces used around many methods in elemental-flash code
type Config struct {
	Logger  Logger
	Fs      FS
	Mounter Mounter
	Runner  Runner
}

// RunConfig is the struct that represents the full configuration of a run
type RunConfig struct {
	Config `mapstructure:",squash"`
}

// Sanitize checks the consistency of the struct
func (r *RunConfig) Sanitize() error {
	if r.Logger == nil || r.Fs == nil || r.Runner == nil || r.Mounter == nil {
		return fmt.Errorf("incomplete runtime configuration")
	}
	return nil
}

// BlockSize is a byte count that can be set from human readable strings
// such as '4MiB' or '512k'
type BlockSize uint64

// ParseBlockSize parses a human readable size. Decimal and binary suffixes
// are both interpreted as powers of 1024.
func ParseBlockSize(size string) (BlockSize, error) {
	b, err := units.RAMInBytes(strings.TrimSpace(size))
	if err != nil {
		return 0, err
	}
	if b <= 0 {
		return 0, fmt.Errorf("invalid block size '%s'", size)
	}
	return BlockSize(b), nil
}

func (b BlockSize) String() string {
	return units.BytesSize(float64(b))
}

// FlashSpec holds the options of a full flash run: the image to write and the
// device to write it to
type FlashSpec struct {
	Image       string    `mapstructure:"image"`
	Device      string    `mapstructure:"device"`
	BlockSize   BlockSize `mapstructure:"block-size"`
	SkipConfirm bool      `mapstructure:"skip-confirm"`
}

// Sanitize checks the consistency of the struct and normalizes the device path
func (f *FlashSpec) Sanitize() error {
	var errs error
	if f.Image == "" {
		errs = multierror.Append(errs, fmt.Errorf("undefined image file"))
	}
	if f.Device == "" {
		errs = multierror.Append(errs, fmt.Errorf("undefined target device"))
	}
	if f.BlockSize == 0 {
		errs = multierror.Append(errs, fmt.Errorf("block size can't be zero"))
	}
	f.Device = DevicePath(f.Device)
	return errs
}

// ExpandSpec holds the options to grow the data partition and filesystem of a
// device that already contains the image
type ExpandSpec struct {
	Device      string `mapstructure:"device"`
	SkipConfirm bool   `mapstructure:"skip-confirm"`
}

// Sanitize checks the consistency of the struct and normalizes the device path
func (e *ExpandSpec) Sanitize() error {
	if e.Device == "" {
		return fmt.Errorf("undefined target device")
	}
	e.Device = DevicePath(e.Device)
	return nil
}

// DevicePath returns the absolute device node for a device name, 'sda' and
// '/dev/sda' both return '/dev/sda'
func DevicePath(device string) string {
	if device == "" || filepath.IsAbs(device) {
		return device
	}
	return filepath.Join("/dev", device)
}
