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
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	elementalError "github.com/rancher/elemental-flash/pkg/error"
)

// Runner executes external commands. Callers pick between Run, which captures
// the command output for parsing, and RunInteractive, which hands the
// terminal over to the command so its own progress is visible. A single
// invocation can't have both.
type Runner interface {
	InitCmd(string, ...string) *exec.Cmd
	Run(string, ...string) ([]byte, error)
	RunCmd(cmd *exec.Cmd) ([]byte, error)
	RunInteractive(string, ...string) error
	CommandExists(command string) bool
	GetLogger() Logger
	SetLogger(logger Logger)
}

type RealRunner struct {
	Logger Logger
	// Context, if set, bounds the lifetime of every started command
	Context context.Context
}

func (r RealRunner) InitCmd(command string, args ...string) *exec.Cmd {
	if r.Context != nil {
		return exec.CommandContext(r.Context, command, args...)
	}
	return exec.Command(command, args...)
}

// RunCmd runs the given command capturing stdout and stderr separately. Only
// stdout is returned, stderr is carried by the returned error on failure.
func (r RealRunner) RunCmd(cmd *exec.Cmd) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return stdout.Bytes(), newCommandError(cmd, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

func (r RealRunner) Run(command string, args ...string) ([]byte, error) {
	r.debugf("Running cmd: '%s %s'", command, strings.Join(args, " "))
	out, err := r.RunCmd(r.InitCmd(command, args...))
	if err != nil {
		r.debugf("'%s' failed: %s", command, err.Error())
	}
	return out, err
}

// RunInteractive runs the command attached to the current stdin, stdout and
// stderr. Nothing is captured.
func (r RealRunner) RunInteractive(command string, args ...string) error {
	r.debugf("Running interactive cmd: '%s %s'", command, strings.Join(args, " "))
	cmd := r.InitCmd(command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		err = newCommandError(cmd, "", err)
		r.debugf("'%s' failed: %s", command, err.Error())
	}
	return err
}

// CommandExists checks if the given command is found in PATH
func (r RealRunner) CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

func (r RealRunner) GetLogger() Logger {
	return r.Logger
}

func (r *RealRunner) SetLogger(logger Logger) {
	r.Logger = logger
}

func (r RealRunner) debugf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Debugf(format, args...)
	}
}

func newCommandError(cmd *exec.Cmd, stderr string, err error) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	var args []string
	if len(cmd.Args) > 1 {
		args = cmd.Args[1:]
	}
	command := cmd.Path
	if len(cmd.Args) > 0 {
		command = cmd.Args[0]
	}
	return &elementalError.CommandError{
		Command:  command,
		Args:     args,
		ExitCode: code,
		Stderr:   stderr,
		Err:      err,
	}
}
