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

package config_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/v4/vfst"

	"github.com/rancher/elemental-flash/pkg/config"
	"github.com/rancher/elemental-flash/pkg/mocks"
	"github.com/rancher/elemental-flash/pkg/types"
)

func TestConfigSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config test suite")
}

var _ = Describe("Types", Label("types", "config"), func() {
	Describe("Config", func() {
		Describe("ConfigOptions", func() {
			It("Sets the proper interfaces in the config struct", func() {
				fs, cleanup, err := vfst.NewTestFS(map[string]interface{}{})
				Expect(err).Should(BeNil())
				defer cleanup()
				mounter := mocks.NewFakeMounter()
				runner := mocks.NewFakeRunner()
				logger := types.NewNullLogger()
				c := config.NewRunConfig(
					config.WithFs(fs),
					config.WithMounter(mounter),
					config.WithRunner(runner),
					config.WithLogger(logger),
				)
				Expect(c.Fs).To(Equal(fs))
				Expect(c.Mounter).To(Equal(mounter))
				Expect(c.Runner).To(Equal(runner))
				Expect(c.Logger).To(Equal(logger))
				Expect(c.Sanitize()).To(Succeed())
			})
			It("Points the runner to the config logger", func() {
				runner := mocks.NewFakeRunner()
				logger := types.NewNullLogger()
				c := config.NewConfig(config.WithRunner(runner), config.WithLogger(logger))
				Expect(c.Runner.GetLogger()).To(Equal(logger))
			})
		})
		Describe("ConfigOptions no mounter specified", Label("mount", "mounter"), func() {
			It("should use the default mounter and runner", func() {
				c := config.NewConfig()
				Expect(c.Mounter).NotTo(BeNil())
				Expect(c.Fs).NotTo(BeNil())
				_, ok := c.Runner.(*types.RealRunner)
				Expect(ok).To(BeTrue())
			})
		})
	})
	Describe("Specs", func() {
		It("sets the default block size", func() {
			c := config.NewConfig()
			spec := config.NewFlashSpec(*c)
			Expect(spec.BlockSize).To(Equal(types.BlockSize(4 * 1024 * 1024)))
			Expect(spec.Image).To(BeEmpty())
			Expect(spec.SkipConfirm).To(BeFalse())
		})
		It("returns an empty expand spec", func() {
			c := config.NewConfig()
			Expect(config.NewExpandSpec(*c).Device).To(BeEmpty())
		})
	})
})
