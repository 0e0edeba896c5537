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
	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/partitioner"
	"github.com/rancher/elemental-flash/pkg/types"
)

// checkInterrupt returns an Interrupted error if ctx is done. Running steps
// are not rolled back.
func checkInterrupt(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return elementalError.NewFromError(err, elementalError.Interrupted)
	}
	return nil
}

// growDevice runs the partition and filesystem growth of the data partition of
// a device already holding the image. Returns the partition resize attempts.
func growDevice(ctx context.Context, cfg *types.Config, e *elemental.Elemental, disk *partitioner.Disk) ([]partitioner.ResizeAttempt, error) {
	if err := checkInterrupt(ctx); err != nil {
		return nil, err
	}
	if _, err := e.InspectDevice(disk); err != nil {
		return nil, err
	}

	if err := checkInterrupt(ctx); err != nil {
		return nil, err
	}
	attempts, err := e.ResizeDataPartition(disk)
	if err != nil {
		return attempts, err
	}

	if err = checkInterrupt(ctx); err != nil {
		return attempts, err
	}
	err = e.GrowDataFilesystem(disk)
	if err != nil {
		return attempts, err
	}

	cfg.Logger.Infof("Final check of %s", disk)
	disk.Verify()
	err = e.ShowDevice(disk.String())
	return attempts, err
}
