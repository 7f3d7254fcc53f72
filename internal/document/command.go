package document

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// CommandParser runs an external parser program: file bytes on stdin, parser
// JSON on stdout. Whatever the program prints to stderr becomes the error
// message, so a program that dies silently is reported as a crash.
func CommandParser(name string, args ...string) ParseFunc {
	return func(data []byte) ([]byte, error) {
		cmd := exec.Command(name, args...)
		cmd.Stdin = bytes.NewReader(data)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, err
			}
			slog.Debug("parser exited", "command", name, "error", err)
			return nil, errors.New(strings.TrimSpace(stderr.String()))
		}
		return stdout.Bytes(), nil
	}
}
