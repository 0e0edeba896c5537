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

package mocks

import (
	"fmt"
	"os/exec"
	"strings"

	elementalError "github.com/rancher/elemental-flash/pkg/error"
	"github.com/rancher/elemental-flash/pkg/types"
)

var _ types.Runner = (*FakeRunner)(nil)

type FakeRunner struct {
	cmds        [][]string
	interactive [][]string
	ReturnValue []byte
	SideEffect  func(command string, args ...string) ([]byte, error)
	ReturnError error
	Logger      types.Logger
	CmdNotFound string
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{cmds: [][]string{}, interactive: [][]string{}, ReturnValue: []byte{}, SideEffect: nil, ReturnError: nil}
}

func (r *FakeRunner) CommandExists(command string) bool {
	return command != r.CmdNotFound
}

func (r *FakeRunner) Run(command string, args ...string) ([]byte, error) {
	r.debug(fmt.Sprintf("Running cmd: '%s %s'", command, strings.Join(args, " ")))
	r.InitCmd(command, args...)
	out, err := r.RunCmd(nil)
	if err != nil {
		r.error(fmt.Sprintf("Error running command: %s", err.Error()))
	}
	return out, err
}

// RunInteractive records the command both in the general commands list and in
// the interactive one. Any output the side effect returns is dropped, as a real
// interactive command output goes to the terminal.
func (r *FakeRunner) RunInteractive(command string, args ...string) error {
	r.debug(fmt.Sprintf("Running interactive cmd: '%s %s'", command, strings.Join(args, " ")))
	r.InitCmd(command, args...)
	r.interactive = append(r.interactive, append([]string{command}, args...))
	_, err := r.RunCmd(nil)
	if err != nil {
		r.error(fmt.Sprintf("Error running command: %s", err.Error()))
	}
	return err
}

func (r *FakeRunner) RunCmd(_ *exec.Cmd) ([]byte, error) {
	if r.SideEffect != nil {
		if len(r.cmds) > 0 {
			lastCmd := len(r.cmds) - 1
			return r.SideEffect(r.cmds[lastCmd][0], r.cmds[lastCmd][1:]...)
		}
	}
	return r.ReturnValue, r.ReturnError
}

func (r *FakeRunner) InitCmd(command string, args ...string) *exec.Cmd {
	r.cmds = append(r.cmds, append([]string{command}, args...))
	return nil
}

func (r *FakeRunner) ClearCmds() {
	r.cmds = [][]string{}
	r.interactive = [][]string{}
}

// CmdsMatch matches the commands list in order. Note HasPrefix is being used to evaluate the
// match, so expecting initial part of the command is enough to get a match.
func (r FakeRunner) CmdsMatch(cmdList [][]string) error {
	return matchCmds(cmdList, r.cmds)
}

// InteractiveCmdsMatch is the same as CmdsMatch but only for commands run
// through RunInteractive
func (r FakeRunner) InteractiveCmdsMatch(cmdList [][]string) error {
	return matchCmds(cmdList, r.interactive)
}

// IncludesCmds checks the given commands were executed in any order.
// Note it uses HasPrefix to match commands, see CmdsMatch.
func (r FakeRunner) IncludesCmds(cmdList [][]string) error {
	for _, cmd := range cmdList {
		expect := strings.Join(cmd[:], " ")
		found := false
		for _, rcmd := range r.cmds {
			got := strings.Join(rcmd[:], " ")
			if strings.HasPrefix(got, expect) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("command '%s.*' not found", expect)
		}
	}
	return nil
}

// MatchMilestones matches all the given commands were executed in the provided
// order. Note it uses HasPrefix to match commands, see CmdsMatch.
func (r FakeRunner) MatchMilestones(cmdList [][]string) error {
	var match string
	for _, cmd := range r.cmds {
		if len(cmdList) == 0 {
			break
		}
		got := strings.Join(cmd[:], " ")
		match = strings.Join(cmdList[0][:], " ")
		if !strings.HasPrefix(got, match) {
			continue
		}

		cmdList = cmdList[1:]
	}

	if len(cmdList) > 0 {
		return fmt.Errorf("command '%s' not executed", match)
	}

	return nil
}

// CountCmd returns how many recorded commands start with the given prefix
func (r FakeRunner) CountCmd(prefix []string) int {
	expect := strings.Join(prefix, " ")
	count := 0
	for _, cmd := range r.cmds {
		if strings.HasPrefix(strings.Join(cmd, " "), expect) {
			count++
		}
	}
	return count
}

// GetCmds returns the list of commands recorded by this FakeRunner instance
// this is helpful to debug tests
func (r FakeRunner) GetCmds() [][]string {
	return r.cmds
}

func (r FakeRunner) GetLogger() types.Logger {
	return r.Logger
}

func (r *FakeRunner) SetLogger(logger types.Logger) {
	r.Logger = logger
}

func (r FakeRunner) error(msg string) {
	if r.Logger != nil {
		r.Logger.Error(msg)
	}
}

func (r FakeRunner) debug(msg string) {
	if r.Logger != nil {
		r.Logger.Debug(msg)
	}
}

// NewExitError returns the error a runner reports for a command exiting with
// the given code
func NewExitError(code int, command string, args ...string) error {
	return &elementalError.CommandError{
		Command:  command,
		Args:     args,
		ExitCode: code,
		Err:      fmt.Errorf("exit status %d", code),
	}
}

func matchCmds(expected, got [][]string) error {
	if len(expected) != len(got) {
		return fmt.Errorf("number of calls mismatch, expected %d calls but got %d", len(expected), len(got))
	}
	for i, cmd := range expected {
		e := strings.Join(cmd[:], " ")
		g := strings.Join(got[i][:], " ")
		if !strings.HasPrefix(g, e) {
			return fmt.Errorf("Expected command: '%s.*' got: '%s'", e, g)
		}
	}
	return nil
}
