package report

import (
	"io"

	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/workspace"
)

// Writer renders one scan.
type Writer interface {
	// Write outputs the scan to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(scan *model.Scan) (int, error)
}

// HistoryWriter renders a list of past scans.
type HistoryWriter interface {
	WriteHistory(scans []*model.Scan) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every timestamp in human-readable output.
const timeLayout = "2006-01-02 15:04:05 MST"

// artifactRow is one derived file and its line count.
type artifactRow struct {
	file  string
	count int
}

// artifactRows lists the workspace files in the order they are written.
func artifactRows(c model.ArtifactCounts) []artifactRow {
	return []artifactRow{
		{workspace.DataFile, c.Records},
		{workspace.UsernameFile, c.Usernames},
		{workspace.PasswordFile, c.Passwords},
		{workspace.CredsFile, c.Credentials},
		{workspace.HashesFile, c.Hashes},
		{workspace.EmailsFile, c.Emails},
	}
}

// statusText returns a short status for a scan.
func statusText(scan *model.Scan) string {
	if !scan.Succeeded() {
		msg := scan.ErrorMessage
		if msg == "" && scan.Error != nil {
			msg = scan.Error.Error()
		}
		return "ERROR - " + msg
	}
	return "Complete"
}
