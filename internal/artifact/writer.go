package artifact

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/workspace"
)

// Result describes what WriteAll produced.
type Result struct {
	// Columns is the CSV header.
	Columns []string

	// Counts holds the number of lines in each extract.
	Counts model.ArtifactCounts

	// Digest is the SHA3-256 hex digest of all-data.csv.
	Digest string
}

// WriteAll writes all-data.csv and the five extracts into ws.
// A failure part way leaves earlier files in place.
func WriteAll(ws *workspace.Workspace, records []model.Record) (*Result, error) {
	dataPath := ws.Path(workspace.DataFile)
	columns, err := writeDataFile(dataPath, records)
	if err != nil {
		return nil, err
	}

	extracts := []struct {
		name  string
		lines []string
	}{
		{workspace.UsernameFile, Usernames(records)},
		{workspace.PasswordFile, Passwords(records)},
		{workspace.CredsFile, Credentials(records)},
		{workspace.HashesFile, Hashes(records)},
		{workspace.EmailsFile, Emails(records)},
	}
	for _, e := range extracts {
		if err := WriteLines(ws.Path(e.name), e.lines); err != nil {
			return nil, err
		}
	}

	digest, err := Digest(dataPath)
	if err != nil {
		return nil, err
	}

	return &Result{
		Columns: columns,
		Counts: model.ArtifactCounts{
			Records:     len(records),
			Usernames:   len(extracts[0].lines),
			Passwords:   len(extracts[1].lines),
			Credentials: len(extracts[2].lines),
			Hashes:      len(extracts[3].lines),
			Emails:      len(extracts[4].lines),
		},
		Digest: digest,
	}, nil
}

// WriteLines writes one line per entry, each terminated by "\n".
// The file is created or truncated.
func WriteLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, workspace.FilePerm) //nolint:gosec // path is inside the workspace
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Digest returns the SHA3-256 hex digest of a file.
func Digest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is inside the workspace
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeDataFile writes the CSV dump to path.
func writeDataFile(path string, records []model.Record) ([]string, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, workspace.FilePerm) //nolint:gosec // path is inside the workspace
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	columns, err := WriteCSV(f, records)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return columns, f.Close()
}
