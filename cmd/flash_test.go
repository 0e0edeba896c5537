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

package cmd

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/jaypipes/ghw/pkg/block"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	eleError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/mocks"
)

var _ = Describe("Flash and expand commands", Label("flash", "expand", "cmd"), func() {
	BeforeEach(func() {
		rootCmd = NewRootCmd()
		_ = NewFlashCmd(rootCmd, false)
		_ = NewExpandCmd(rootCmd, false)
	})
	AfterEach(func() {
		viper.Reset()
	})
	It("stops with no error code if confirmation is declined", func() {
		rootCmd.SetIn(strings.NewReader("no\n"))
		_, output, err := executeCommandC(rootCmd, "flash", "sda", "--config-dir", "/none", "--image", "/some/image.img")
		Expect(errors.Is(err, eleError.ErrUserAbort)).To(BeTrue())
		Expect(exitCode(err)).To(Equal(0))
		Expect(output).To(ContainSubstring("/dev/sda"))
		Expect(output).To(ContainSubstring("Wipe partition table"))
	})
	It("only takes a literal yes as confirmation", func() {
		for answer, expected := range map[string]bool{
			"yes\n":   true,
			" yes \n": true,
			"y\n":     false,
			"Y\n":     false,
			"YES\n":   false,
			"yess\n":  false,
		} {
			ok, err := confirm(bufio.NewReader(strings.NewReader(answer)), io.Discard, "Continue?")
			Expect(err).To(BeNil())
			Expect(ok).To(Equal(expected), answer)
		}
	})
	It("does not flash when answered with y", func() {
		rootCmd.SetIn(strings.NewReader("y\n"))
		_, _, err := executeCommandC(rootCmd, "flash", "sda", "--config-dir", "/none", "--image", "/some/image.img")
		Expect(errors.Is(err, eleError.ErrUserAbort)).To(BeTrue())
	})
	It("stops if input ends before confirming", func() {
		rootCmd.SetIn(strings.NewReader(""))
		_, _, err := executeCommandC(rootCmd, "flash", "--device", "sda", "--config-dir", "/none")
		Expect(errors.Is(err, eleError.ErrUserAbort)).To(BeTrue())
	})
	It("fails on an invalid block size", func() {
		_, _, err := executeCommandC(rootCmd, "flash", "sda", "--config-dir", "/none", "--block-size", "huge")
		Expect(err).To(HaveOccurred())
		Expect(exitCode(err)).To(Equal(eleError.InvalidOptions))
	})
	It("fails if no device is given and confirmation is skipped", func() {
		_, _, err := executeCommandC(rootCmd, "flash", "--skip-confirm", "--config-dir", "/none")
		Expect(err).To(HaveOccurred())
		Expect(exitCode(err)).To(Equal(eleError.InvalidOptions))
	})
	It("fails if no device is entered on the prompt", func() {
		rootCmd.SetIn(strings.NewReader("\n"))
		_, _, err := executeCommandC(rootCmd, "flash", "--config-dir", "/none")
		Expect(err).To(HaveOccurred())
		Expect(exitCode(err)).To(Equal(eleError.InvalidOptions))
	})
	It("asks before expanding a device", func() {
		rootCmd.SetIn(strings.NewReader("n\n"))
		_, output, err := executeCommandC(rootCmd, "expand", "/dev/nvme0n1", "--config-dir", "/none")
		Expect(errors.Is(err, eleError.ErrUserAbort)).To(BeTrue())
		Expect(output).To(ContainSubstring("/dev/nvme0n1"))
		Expect(output).NotTo(ContainSubstring("will be lost"))
	})
	It("fails to expand without a device", func() {
		_, _, err := executeCommandC(rootCmd, "expand", "--skip-confirm", "--config-dir", "/none")
		Expect(err).To(HaveOccurred())
		Expect(exitCode(err)).To(Equal(eleError.ReadingExpandConfig))
	})
})

var _ = Describe("Devices command", Label("devices", "cmd"), func() {
	var ghwTest mocks.GhwMock
	BeforeEach(func() {
		rootCmd = NewRootCmd()
		_ = NewDevicesCmd(rootCmd)
		ghwTest = mocks.GhwMock{}
		ghwTest.AddDisk(block.Disk{
			Name:      "sda",
			SizeBytes: 8 * 1024 * 1024 * 1024,
		})
		ghwTest.CreateDevices()
	})
	AfterEach(func() {
		ghwTest.Clean()
	})
	It("lists the available disks", func() {
		_, output, err := executeCommandC(rootCmd, "devices")
		Expect(err).To(BeNil())
		Expect(output).To(ContainSubstring("/dev/sda"))
		Expect(output).To(ContainSubstring("8GiB"))
	})
})

var _ = Describe("Exit codes", Label("cmd"), func() {
	It("maps errors to exit codes", func() {
		Expect(exitCode(nil)).To(Equal(0))
		Expect(exitCode(eleError.ErrUserAbort)).To(Equal(0))
		Expect(exitCode(errors.New("generic"))).To(Equal(eleError.Unknown))
		Expect(exitCode(eleError.New("resize", eleError.ResizePartition))).To(Equal(eleError.ResizePartition))
		Expect(exitCode(eleError.New("interrupted", eleError.Interrupted))).To(Equal(130))
	})
})
