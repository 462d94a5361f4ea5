// Package workspace allocates the per-domain output directory.
//
// A workspace is created exclusively: if a directory for the domain already
// exists the scan fails instead of overwriting or merging, so repeated scans
// of the same domain never mix their data.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Suffix is appended to the domain to name the workspace directory.
const Suffix = "-dehashed"

// Names of the files and directories inside a workspace.
const (
	DataFile     = "all-data.csv"
	UsernameFile = "username.txt"
	PasswordFile = "password.txt"
	CredsFile    = "creds.txt"
	HashesFile   = "hashes.txt"
	EmailsFile   = "emails.txt"
	SummaryFile  = "summary.md"
	ModesDir     = "hashcat-modes"
)

// Permissions for workspace content. Breach data stays private to the owner.
const (
	DirPerm  fs.FileMode = 0750
	FilePerm fs.FileMode = 0600
)

var (
	// ErrWorkspaceExists is returned when the domain's workspace directory
	// is already present.
	ErrWorkspaceExists = errors.New("workspace already exists")

	// ErrModesDirExists is returned when the hashcat-modes directory is
	// already present, which means an earlier run left partial output.
	ErrModesDirExists = errors.New("hashcat-modes directory already exists")
)

// Workspace is an allocated output directory.
type Workspace struct {
	// Root is the workspace directory path.
	Root string
}

// PathFor returns the workspace path for a domain under baseDir.
func PathFor(baseDir, domain string) string {
	return filepath.Join(baseDir, domain+Suffix)
}

// Check returns ErrWorkspaceExists if the domain's workspace is present.
// It creates nothing.
func Check(baseDir, domain string) error {
	path := PathFor(baseDir, domain)
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrWorkspaceExists, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("failed to check workspace %s: %w", path, err)
	}
}

// Create allocates the workspace for a domain under baseDir.
// Missing parents of the workspace are created; the workspace directory
// itself must not exist yet.
func Create(baseDir, domain string) (*Workspace, error) {
	if err := os.MkdirAll(baseDir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	root := PathFor(baseDir, domain)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if err := mkdirExclusive(root, ErrWorkspaceExists); err != nil {
		return nil, err
	}
	return &Workspace{Root: root}, nil
}

// Open returns a Workspace for an existing directory.
func Open(root string) (*Workspace, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Workspace{Root: root}, nil
}

// Path returns the path of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Root, name)
}

// ModesPath returns the path of a file inside the hashcat-modes directory.
func (w *Workspace) ModesPath(name string) string {
	return filepath.Join(w.Root, ModesDir, name)
}

// CreateModesDir creates the hashcat-modes directory exclusively and
// returns its path.
func (w *Workspace) CreateModesDir() (string, error) {
	dir := filepath.Join(w.Root, ModesDir)
	if err := mkdirExclusive(dir, ErrModesDirExists); err != nil {
		return "", err
	}
	return dir, nil
}

// mkdirExclusive creates dir, mapping "already exists" to existsErr.
func mkdirExclusive(dir string, existsErr error) error {
	if err := os.Mkdir(dir, DirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", existsErr, dir)
		}
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}
