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

package action

import (
	"context"

	"github.com/rancher/elemental-flash/pkg/elemental"
	"github.com/rancher/elemental-flash/pkg/partitioner"
	"github.com/rancher/elemental-flash/pkg/types"
)

type FlashActionOption func(f *FlashAction) error

// WithFlashElemental sets the device operations helper, mostly meant for tests
func WithFlashElemental(e *elemental.Elemental) func(f *FlashAction) error {
	return func(f *FlashAction) error {
		f.e = e
		return nil
	}
}

// FlashAction writes an image to a device and grows its data partition to
// fill the whole device
type FlashAction struct {
	cfg      *types.RunConfig
	spec     *types.FlashSpec
	e        *elemental.Elemental
	attempts []partitioner.ResizeAttempt
}

func NewFlashAction(cfg *types.RunConfig, spec *types.FlashSpec, opts ...FlashActionOption) *FlashAction {
	f := &FlashAction{cfg: cfg, spec: spec}

	for _, o := range opts {
		err := o(f)
		if err != nil {
			cfg.Logger.Errorf("error applying config option: %s", err.Error())
			return nil
		}
	}

	if f.e == nil {
		f.e = elemental.NewElemental(&cfg.Config)
	}

	return f
}

// ResizeAttempts returns the partition resize attempts of the last run
func (f FlashAction) ResizeAttempts() []partitioner.ResizeAttempt {
	return f.attempts
}

// Run flashes the image. Nothing destructive happens until the image and the
// device pass all checks. Once the device is wiped there is no way back, an
// error or an interrupt leaves the device as it is.
func (f *FlashAction) Run(ctx context.Context) (err error) {
	f.cfg.Logger.Infof("Flashing %s into %s", f.spec.Image, f.spec.Device)

	disk, err := f.e.CheckDevice(f.spec.Device)
	if err != nil {
		return err
	}
	err = f.e.CheckImage(f.spec.Image, disk.SizeBytes)
	if err != nil {
		return err
	}

	if err = checkInterrupt(ctx); err != nil {
		return err
	}
	f.e.UnmountDevice(f.spec.Device)

	if err = checkInterrupt(ctx); err != nil {
		return err
	}
	err = f.e.WipeDevice(f.spec.Device)
	if err != nil {
		return err
	}

	if err = checkInterrupt(ctx); err != nil {
		return err
	}
	err = f.e.WriteImage(f.spec.Image, f.spec.Device, f.spec.BlockSize)
	if err != nil {
		return err
	}

	if err = checkInterrupt(ctx); err != nil {
		return err
	}
	err = f.e.SyncDevice()
	if err != nil {
		return err
	}

	f.attempts, err = growDevice(ctx, &f.cfg.Config, f.e, f.e.NewDisk(f.spec.Device))
	if err != nil {
		return err
	}

	f.cfg.Logger.Infof("Flash of %s completed", f.spec.Device)
	return nil
}
