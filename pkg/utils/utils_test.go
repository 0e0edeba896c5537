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

package utils_test

import (
	"errors"
	"testing"

	"github.com/jaypipes/ghw/pkg/block"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/v4"
	"github.com/twpayne/go-vfs/v4/vfst"

	"github.com/rancher/elemental-flash/pkg/mocks"
	"github.com/rancher/elemental-flash/pkg/utils"
)

const lsblkJSON = `{
  "blockdevices": [
    {"label": null, "size": 8589934592, "fstype": null, "mountpoint": null, "path": "/dev/sda", "pkname": null, "type": "disk"},
    {"label": "EFI", "size": 536870912, "fstype": "vfat", "mountpoint": "/boot/efi", "path": "/dev/sda1", "pkname": "/dev/sda", "type": "part"},
    {"label": "rootfs", "size": 8000000000, "fstype": "ext4", "mountpoint": null, "path": "/dev/sda2", "pkname": "/dev/sda", "type": "part"}
  ]
}`

func TestUtilsSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Elemental utils suite")
}

var _ = Describe("Utils", Label("utils"), func() {
	var runner *mocks.FakeRunner
	var fs vfs.FS
	var cleanup func()

	BeforeEach(func() {
		var err error
		runner = mocks.NewFakeRunner()
		fs, cleanup, err = vfst.NewTestFS(map[string]interface{}{
			"/images/rm01.img": "raw disk image",
			"/images/empty":    &vfst.Dir{Perm: 0755},
		})
		Expect(err).Should(BeNil())
	})
	AfterEach(func() {
		cleanup()
	})

	Describe("Exists", Label("fs"), func() {
		It("checks files exist", func() {
			exists, err := utils.Exists(fs, "/images/rm01.img")
			Expect(err).To(BeNil())
			Expect(exists).To(BeTrue())
			exists, err = utils.Exists(fs, "/images/missing.img")
			Expect(err).To(BeNil())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("FileSize", Label("fs"), func() {
		It("returns the size of a file", func() {
			size, err := utils.FileSize(fs, "/images/rm01.img")
			Expect(err).To(BeNil())
			Expect(size).To(Equal(int64(len("raw disk image"))))
		})
		It("fails on directories", func() {
			_, err := utils.FileSize(fs, "/images/empty")
			Expect(err).To(HaveOccurred())
		})
		It("fails on missing files", func() {
			_, err := utils.FileSize(fs, "/images/missing.img")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("lsblk", Label("lsblk"), func() {
		It("lists the device tree", func() {
			runner.ReturnValue = []byte(lsblkJSON)
			devs, err := utils.GetDeviceTree(runner, "/dev/sda")
			Expect(err).To(BeNil())
			Expect(devs).To(HaveLen(3))
			Expect(devs[1]).To(Equal(utils.BlockDevice{
				Label: "EFI", Size: 536870912, FS: "vfat", MountPoint: "/boot/efi",
				Path: "/dev/sda1", Disk: "/dev/sda", Type: "part",
			}))
		})
		It("returns only mounted paths", func() {
			runner.ReturnValue = []byte(lsblkJSON)
			mnts, err := utils.GetMountPoints(runner, "/dev/sda")
			Expect(err).To(BeNil())
			Expect(mnts).To(Equal([]string{"/boot/efi"}))
		})
		It("fails on unexpected json", func() {
			runner.ReturnValue = []byte(`{"devices": []}`)
			_, err := utils.GetMountPoints(runner, "/dev/sda")
			Expect(err).To(HaveOccurred())
			runner.ReturnValue = []byte(`not json`)
			_, err = utils.GetMountPoints(runner, "/dev/sda")
			Expect(err).To(HaveOccurred())
		})
		It("fails if lsblk fails", func() {
			runner.ReturnError = errors.New("lsblk failure")
			_, err := utils.GetDeviceTree(runner, "/dev/sda")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Disks", Label("ghw"), func() {
		var ghwTest mocks.GhwMock
		BeforeEach(func() {
			ghwTest = mocks.GhwMock{}
			ghwTest.AddDisk(block.Disk{
				Name:      "sda",
				SizeBytes: 8 * 1024 * 1024 * 1024,
				Partitions: []*block.Partition{
					{Name: "sda1", FilesystemLabel: "EFI", Type: "vfat"},
					{Name: "sda2", FilesystemLabel: "rootfs", Type: "ext4"},
				},
			})
			ghwTest.AddDisk(block.Disk{Name: "nvme0n1", SizeBytes: 512 * 1024 * 1024 * 1024})
			ghwTest.CreateDevices()
		})
		AfterEach(func() {
			ghwTest.Clean()
		})
		It("lists all disks", func() {
			disks, err := utils.GetAllDisks()
			Expect(err).To(BeNil())
			Expect(disks).To(HaveLen(2))
		})
		It("gets a disk by name or path", func() {
			disk, err := utils.GetDisk("nvme0n1")
			Expect(err).To(BeNil())
			Expect(disk.Path).To(Equal("/dev/nvme0n1"))
			Expect(disk.SizeBytes).To(Equal(uint64(512 * 1024 * 1024 * 1024)))
			disk, err = utils.GetDisk("/dev/sda")
			Expect(err).To(BeNil())
			Expect(disk.Name).To(Equal("sda"))
		})
		It("fails on partitions and unknown disks", func() {
			_, err := utils.GetDisk("/dev/sda2")
			Expect(err).To(HaveOccurred())
			_, err = utils.GetDisk("/dev/sdz")
			Expect(err).To(HaveOccurred())
		})
	})
})
