package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
)

// Command describes a child process to launch.
// Env entries are appended to the current environment, later entries win.
type Command struct {
	Name string
	Args []string
	Env  []string
	Dir  string
}

// Result holds the outcome of a finished process.
type Result struct {
	ExitCode int
	Output   string
}

// Runner launches child processes and drains their output into the logger.
type Runner struct {
	logger hclog.Logger
}

// New creates a Runner that logs through logger.
func New(logger hclog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts the command and blocks until it exits. A non-zero exit is reported in
// Result.ExitCode; only failures to start or wait on the process are errors.
func (r *Runner) Run(c Command) (Result, error) {
	var result Result
	var stdBuffer bytes.Buffer
	mw := io.MultiWriter(r.logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}), &stdBuffer)

	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = mw
	cmd.Stderr = mw

	r.logger.Debug("running command", "name", c.Name, "args", c.Args, "dir", c.Dir)
	err := cmd.Run()
	result.Output = stdBuffer.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Debug("command finished with non-zero status", "name", c.Name, "code", result.ExitCode)
			return result, nil
		}
		r.logger.Error(fmt.Sprintf("%q execution error", c.Name), "error", err)
		return result, fmt.Errorf("%q execution error: %w", c.Name, err)
	}
	return result, nil
}
