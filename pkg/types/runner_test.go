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
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/mocks"
	"github.com/rancher/elemental-flash/pkg/types"
)

var _ = Describe("Runner", Label("types", "runner"), func() {
	It("Runs commands on the real Runner", func() {
		r := types.RealRunner{}
		_, err := r.Run("pwd")
		Expect(err).To(BeNil())
	})
	It("Runs commands on the fake runner", func() {
		r := mocks.NewFakeRunner()
		_, err := r.Run("pwd")
		Expect(err).To(BeNil())
	})
	It("Sets and gets the logger on the fake runner", func() {
		r := mocks.NewFakeRunner()
		Expect(r.GetLogger()).To(BeNil())
		logger := types.NewNullLogger()
		r.SetLogger(logger)
		Expect(r.GetLogger()).To(Equal(logger))
	})
	It("Sets and gets the logger on the real runner", func() {
		r := types.RealRunner{}
		Expect(r.GetLogger()).To(BeNil())
		logger := types.NewNullLogger()
		r.SetLogger(logger)
		Expect(r.GetLogger()).To(Equal(logger))
	})
	It("captures stdout only", func() {
		r := types.RealRunner{}
		out, err := r.Run("sh", "-c", "echo -n out; echo -n err >&2")
		Expect(err).To(BeNil())
		Expect(string(out)).To(Equal("out"))
	})
	It("reports the exit code and stderr of a failed command", func() {
		r := types.RealRunner{}
		_, err := r.Run("sh", "-c", "echo -n broken >&2; exit 3")
		var cmdErr *elementalError.CommandError
		Expect(errors.As(err, &cmdErr)).To(BeTrue())
		Expect(cmdErr.ExitCode).To(Equal(3))
		Expect(cmdErr.Stderr).To(Equal("broken"))
		Expect(cmdErr.Command).To(Equal("sh"))
		Expect(err.Error()).To(ContainSubstring("exit code 3: broken"))
		code, ok := elementalError.ExitCodeOf(err)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(3))
	})
	It("reports the exit code of a failed interactive command", func() {
		r := types.RealRunner{}
		err := r.RunInteractive("sh", "-c", "exit 4")
		code, ok := elementalError.ExitCodeOf(err)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(4))
	})
	It("runs interactive commands", func() {
		r := types.RealRunner{}
		Expect(r.RunInteractive("true")).To(Succeed())
	})
	It("reports a negative exit code for commands that can't start", func() {
		r := types.RealRunner{}
		_, err := r.Run("IAmMissing")
		code, ok := elementalError.ExitCodeOf(err)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(-1))
	})
	It("does not start commands once the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := types.RealRunner{Context: ctx}
		_, err := r.Run("true")
		Expect(err).NotTo(BeNil())
	})
	It("logs the command when on debug", func() {
		memLog := &bytes.Buffer{}
		logger := types.NewBufferLogger(memLog)
		logger.SetLevel(types.DebugLevel())
		r := types.RealRunner{Logger: logger}
		_, err := r.Run("echo", "-n", "Some message")
		Expect(err).To(BeNil())
		Expect(memLog.String()).To(ContainSubstring("echo -n Some message"))
	})
	It("logs when command is not found in debug mode", func() {
		memLog := &bytes.Buffer{}
		logger := types.NewBufferLogger(memLog)
		logger.SetLevel(types.DebugLevel())
		r := types.RealRunner{Logger: logger}
		_, err := r.Run("IAmMissing")
		Expect(err).NotTo(BeNil())
		Expect(memLog.String()).To(ContainSubstring("not found"))
	})
	It("returns false if command does not exists", func() {
		r := types.RealRunner{}
		exists := r.CommandExists("THISCOMMANDSHOULDNOTBETHERECOMEON")
		Expect(exists).To(BeFalse())
	})
	It("returns true if command exists", func() {
		r := types.RealRunner{}
		exists := r.CommandExists("true")
		Expect(exists).To(BeTrue())
	})
	It("records interactive commands apart on the fake runner", func() {
		r := mocks.NewFakeRunner()
		_, _ = r.Run("lsblk", "/dev/sda")
		Expect(r.RunInteractive("dd", "if=img", "of=/dev/sda")).To(Succeed())
		Expect(r.CmdsMatch([][]string{{"lsblk"}, {"dd"}})).To(Succeed())
		Expect(r.InteractiveCmdsMatch([][]string{{"dd", "if=img"}})).To(Succeed())
		r.ClearCmds()
		Expect(r.GetCmds()).To(BeEmpty())
	})
})
