// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ProcessResult holds the outcome of a process that ran to completion.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a command synchronously.
type Runner interface {
	// Run starts name with args, waits for it to exit, and returns its exit
	// status and captured output. A non-zero exit status is reported in the
	// result, not as an error; the error is reserved for processes that
	// could not be started at all.
	Run(name string, args []string) (ProcessResult, error)
}

// osRunner is the production Runner backed by os/exec.
type osRunner struct{}

// NewOSRunner returns a Runner that spawns real child processes.
func NewOSRunner() Runner {
	return &osRunner{}
}

func (o *osRunner) Run(name string, args []string) (ProcessResult, error) {
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ProcessResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("starting %s: %w", name, err)
}
