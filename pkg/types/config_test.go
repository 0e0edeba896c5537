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

package types_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher/elemental-flash/pkg/types"
)

var _ = Describe("Types", Label("types", "config"), func() {
	Describe("BlockSize", func() {
		It("parses human readable sizes", func() {
			for size, expected := range map[string]uint64{
				"4MiB": 4 * 1024 * 1024,
				"4M":   4 * 1024 * 1024,
				"512k": 512 * 1024,
				"1g":   1024 * 1024 * 1024,
				"4096": 4096,
			} {
				bs, err := types.ParseBlockSize(size)
				Expect(err).To(BeNil(), size)
				Expect(uint64(bs)).To(Equal(expected), size)
			}
		})
		It("fails on invalid sizes", func() {
			for _, size := range []string{"", "huge", "0", "-1M"} {
				_, err := types.ParseBlockSize(size)
				Expect(err).To(HaveOccurred(), size)
			}
		})
		It("prints human readable sizes", func() {
			Expect(types.BlockSize(4 * 1024 * 1024).String()).To(Equal("4MiB"))
		})
	})
	Describe("FlashSpec", func() {
		It("normalizes the device path", func() {
			spec := &types.FlashSpec{Image: "/images/rm01.img", Device: "sda", BlockSize: 4096}
			Expect(spec.Sanitize()).To(Succeed())
			Expect(spec.Device).To(Equal("/dev/sda"))
		})
		It("keeps absolute device paths", func() {
			spec := &types.FlashSpec{Image: "/images/rm01.img", Device: "/dev/disk/by-id/ata-ssd", BlockSize: 4096}
			Expect(spec.Sanitize()).To(Succeed())
			Expect(spec.Device).To(Equal("/dev/disk/by-id/ata-ssd"))
		})
		It("reports all missing values", func() {
			spec := &types.FlashSpec{}
			err := spec.Sanitize()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("undefined image file"))
			Expect(err.Error()).To(ContainSubstring("undefined target device"))
			Expect(err.Error()).To(ContainSubstring("block size can't be zero"))
		})
	})
	Describe("ExpandSpec", func() {
		It("normalizes the device path", func() {
			spec := &types.ExpandSpec{Device: "nvme0n1"}
			Expect(spec.Sanitize()).To(Succeed())
			Expect(spec.Device).To(Equal("/dev/nvme0n1"))
		})
		It("requires a device", func() {
			spec := &types.ExpandSpec{}
			Expect(spec.Sanitize()).NotTo(Succeed())
		})
	})
	Describe("RunConfig", func() {
		It("fails on an incomplete runtime configuration", func() {
			cfg := &types.RunConfig{}
			Expect(cfg.Sanitize()).NotTo(Succeed())
		})
	})
	Describe("Logger", Label("logger"), func() {
		It("writes to the given buffer", func() {
			buf := &bytes.Buffer{}
			logger := types.NewBufferLogger(buf)
			logger.Infof("flashing %s", "/dev/sda")
			Expect(buf.String()).To(ContainSubstring("flashing /dev/sda"))
		})
		It("sets the debug level", func() {
			logger := types.NewNullLogger()
			Expect(types.IsDebugLevel(logger)).To(BeFalse())
			logger.SetLevel(types.DebugLevel())
			Expect(types.IsDebugLevel(logger)).To(BeTrue())
		})
	})
})
