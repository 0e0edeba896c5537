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

package error

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUserAbort is returned when the operator declines a confirmation prompt
var ErrUserAbort = errors.New("operation cancelled by user")

// ElementalError is our custom error to pass around exit codes in the error
type ElementalError struct {
	err  error
	code int
}

func (e *ElementalError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *ElementalError) ExitCode() int {
	return e.code
}

func (e *ElementalError) Unwrap() error {
	return e.err
}

// NewFromError generates an ElementalError from an existing error,
// maintaining its error message and keeping it reachable by errors.As
func NewFromError(err error, code int) error {
	if err == nil {
		return nil
	}
	return &ElementalError{err: err, code: code}
}

// New generates an ElementalError from a string
func New(err string, code int) error {
	return &ElementalError{err: errors.New(err), code: code}
}

// CommandError is returned by runners when an external command fails to start
// or exits with a non zero status
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	cmdLine := strings.TrimSpace(fmt.Sprintf("%s %s", e.Command, strings.Join(e.Args, " ")))
	msg := fmt.Sprintf("command '%s' failed", cmdLine)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	}
	if e.Err != nil && e.ExitCode < 0 {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCodeOf returns the exit code of the command that produced err, if any.
// Commands that could not be started report a negative exit code.
func ExitCodeOf(err error) (int, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode, true
	}
	return 0, false
}

// ParseError reports structured data missing from a tool output
type ParseError struct {
	What   string
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed parsing %s", e.What)
}

// PreconditionError reports a condition that prevents starting any destructive action
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// NewPreconditionError returns a PreconditionError wrapped with the given exit code
func NewPreconditionError(code int, format string, args ...interface{}) error {
	return NewFromError(&PreconditionError{Reason: fmt.Sprintf(format, args...)}, code)
}
