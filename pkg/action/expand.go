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

type ExpandActionOption func(e *ExpandAction) error

// WithExpandElemental sets the device operations helper, mostly meant for tests
func WithExpandElemental(el *elemental.Elemental) func(e *ExpandAction) error {
	return func(e *ExpandAction) error {
		e.e = el
		return nil
	}
}

// ExpandAction grows the data partition and filesystem of a device that
// already holds the image, for instance after an interrupted flash
type ExpandAction struct {
	cfg      *types.RunConfig
	spec     *types.ExpandSpec
	e        *elemental.Elemental
	attempts []partitioner.ResizeAttempt
}

func NewExpandAction(cfg *types.RunConfig, spec *types.ExpandSpec, opts ...ExpandActionOption) *ExpandAction {
	e := &ExpandAction{cfg: cfg, spec: spec}

	for _, o := range opts {
		err := o(e)
		if err != nil {
			cfg.Logger.Errorf("error applying config option: %s", err.Error())
			return nil
		}
	}

	if e.e == nil {
		e.e = elemental.NewElemental(&cfg.Config)
	}

	return e
}

// ResizeAttempts returns the partition resize attempts of the last run
func (e ExpandAction) ResizeAttempts() []partitioner.ResizeAttempt {
	return e.attempts
}

func (e *ExpandAction) Run(ctx context.Context) (err error) {
	e.cfg.Logger.Infof("Expanding data partition of %s", e.spec.Device)

	if _, err = e.e.CheckDevice(e.spec.Device); err != nil {
		return err
	}

	e.e.UnmountDevice(e.spec.Device)

	e.attempts, err = growDevice(ctx, &e.cfg.Config, e.e, e.e.NewDisk(e.spec.Device))
	if err != nil {
		return err
	}

	e.cfg.Logger.Infof("Expansion of %s completed", e.spec.Device)
	return nil
}
