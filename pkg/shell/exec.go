// Package shell runs external programs and surfaces their stderr as the error message.
package shell

import (
	"os/exec"
)

// We prefer to return stderr over the process exit code
type ExitErrorVerbose struct {
	E exec.ExitError
}

func (e ExitErrorVerbose) Error() string {
	if len(e.E.Stderr) != 0 {
		return string(e.E.Stderr)
	}
	return e.E.Error()
}

// RunBytes executes the program and returns its raw stdout.
// Use this when stdout is binary data (eg raw video frames).
func RunBytes(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, ExitErrorVerbose{*exitErr}
		}
		return nil, err
	}
	return out, nil
}

// Run executes the program and returns its stdout as a string.
func Run(name string, args ...string) (string, error) {
	out, err := RunBytes(name, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
