package classify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
)

// DefaultCommand is the name-that-hash executable.
const DefaultCommand = "nth"

// Identifier produces a classification map for the hashes in a file.
// The returned bytes are the tool's JSON output, unmodified.
type Identifier interface {
	Identify(ctx context.Context, hashFile string) ([]byte, error)
}

// IdentifierFunc adapts a function to the Identifier interface.
type IdentifierFunc func(ctx context.Context, hashFile string) ([]byte, error)

// Identify calls f.
func (f IdentifierFunc) Identify(ctx context.Context, hashFile string) ([]byte, error) {
	return f(ctx, hashFile)
}

// NameThatHash runs the name-that-hash CLI in greppable JSON mode.
type NameThatHash struct {
	command string
	logger  *slog.Logger
}

// NameThatHashOption configures a NameThatHash.
type NameThatHashOption func(*NameThatHash)

// WithCommand sets the executable name or path.
func WithCommand(command string) NameThatHashOption {
	return func(n *NameThatHash) {
		if command != "" {
			n.command = command
		}
	}
}

// WithIdentifierLogger sets the logger used for tool diagnostics.
func WithIdentifierLogger(logger *slog.Logger) NameThatHashOption {
	return func(n *NameThatHash) {
		n.logger = logger
	}
}

// NewNameThatHash creates an Identifier backed by name-that-hash.
func NewNameThatHash(opts ...NameThatHashOption) *NameThatHash {
	n := &NameThatHash{
		command: DefaultCommand,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Command returns the executable that will be run.
func (n *NameThatHash) Command() string {
	return n.command
}

// Identify runs "<command> -f <hashFile> -g" and returns its stdout.
//
// The tool is executed directly, never through a shell. A non-zero exit
// status is logged and the captured stdout is still returned, leaving the
// decision about its validity to the parser.
func (n *NameThatHash) Identify(ctx context.Context, hashFile string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, n.command, "-f", hashFile, "-g") //nolint:gosec // command comes from local configuration
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	n.logger.Debug("running hash identifier", "command", n.command, "file", hashFile)

	err := cmd.Run()
	switch {
	case err == nil:
		return stdout.Bytes(), nil
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrIdentifierNotFound, n.command)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		n.logger.Warn("hash identifier exited with error",
			"command", n.command,
			"exit_code", exitErr.ExitCode(),
			"stderr", strings.TrimSpace(stderr.String()),
		)
		return stdout.Bytes(), nil
	}
	return nil, fmt.Errorf("failed to run %s: %w", n.command, err)
}
