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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	eleError "github.com/rancher/elemental-flash/pkg/error"
)

// CheckRoot is a helper to return on PreRunE, so we can add it to commands that require root
func CheckRoot() error {
	if os.Geteuid() != 0 {
		return eleError.New("this command requires root privileges", eleError.RequiresRoot)
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// interrupted turns the error of a run into an Interrupted error if ctx got cancelled
func interrupted(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return eleError.NewFromError(fmt.Errorf("interrupted: %w", err), eleError.Interrupted)
	}
	return err
}

// readLine reads a single trimmed line, EOF with no input returns an empty string
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks the given question and only returns true on an explicit 'yes'
func confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s (yes/no): ", question)
	answer, err := readLine(in)
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

// promptDevice asks for the name of the device to operate on
func promptDevice(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter the name of the device to flash (e.g. sda): ")
	device, err := readLine(in)
	if err != nil {
		return "", err
	}
	if device == "" {
		return "", eleError.New("no device given", eleError.InvalidOptions)
	}
	return device, nil
}

// confirmSteps prints the steps about to run on device and asks for confirmation.
// A negative answer returns ErrUserAbort.
func confirmSteps(in *bufio.Reader, out io.Writer, device string, steps []string, warning string) error {
	fmt.Fprintf(out, "\nAbout to perform the following operations on %s:\n", device)
	for i, s := range steps {
		fmt.Fprintf(out, "%d. %s\n", i+1, s)
	}
	if warning != "" {
		fmt.Fprintf(out, "WARNING: %s\n", warning)
	}
	ok, err := confirm(in, out, "Continue?")
	if err != nil {
		return err
	}
	if !ok {
		return eleError.ErrUserAbort
	}
	return nil
}
