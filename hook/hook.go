// Package hook runs a user supplied command once a run has finished.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
)

// Run parses command shell-style and executes it, inheriting stdout and
// stderr.
func Run(ctx context.Context, command string) error {
	parts, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("split command: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("no command provided")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run cmd: %w", err)
	}
	return nil
}
