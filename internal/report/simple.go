package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/dehashscan/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// previous is the last scan of the same domain, used to tell whether
	// the dataset changed.
	previous *model.Scan

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithPrevious sets the previous scan of the same domain.
func WithPrevious(scan *model.Scan) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.previous = scan
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scan in human-readable format.
func (w *SimpleWriter) Write(scan *model.Scan) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, scan)
	w.writeArtifacts(&sb, scan)
	w.writeModes(&sb, scan)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs one line per past scan, newest first as given.
func (w *SimpleWriter) WriteHistory(scans []*model.Scan) (int, error) {
	var sb strings.Builder

	if len(scans) == 0 {
		sb.WriteString("No scans recorded.\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "%-23s  %-30s  %8s  %8s  %8s  %s\n",
		"STARTED", "DOMAIN", "RECORDS", "HASHES", "CREDS", "WORKSPACE")
	for _, s := range scans {
		fmt.Fprintf(&sb, "%-23s  %-30s  %8d  %8d  %8d  %s\n",
			s.StartedAt.Format(timeLayout),
			s.Domain,
			s.Counts.Records,
			s.Counts.Hashes,
			s.Counts.Credentials,
			s.Workspace,
		)
		if w.verbose && !s.Succeeded() {
			fmt.Fprintf(&sb, "  error: %s\n", s.ErrorMessage)
		}
	}
	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the scan information block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, scan *model.Scan) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        DEHASHSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Domain:         %s\n", scan.Domain)
	fmt.Fprintf(sb, "Workspace:      %s\n", scan.Workspace)
	fmt.Fprintf(sb, "Scan Date:      %s\n", scan.StartedAt.Format(timeLayout))
	if d := scan.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:       %s\n", d.Round(time.Millisecond))
	}
	fmt.Fprintf(sb, "Status:         %s\n", statusText(scan))

	if scan.Total > scan.Counts.Records {
		fmt.Fprintf(sb, "API Matches:    %d (first %d saved)\n", scan.Total, scan.Counts.Records)
	}
	if w.verbose {
		fmt.Fprintf(sb, "Scan ID:        %s\n", scan.ID)
		fmt.Fprintf(sb, "API Balance:    %d\n", scan.Balance)
		if scan.DataDigest != "" {
			fmt.Fprintf(sb, "SHA3-256:       %s\n", scan.DataDigest)
		}
	}
	if line := w.datasetChange(scan); line != "" {
		fmt.Fprintf(sb, "Dataset:        %s\n", line)
	}
	sb.WriteString("\n")
}

// datasetChange compares the scan digest with the previous scan.
func (w *SimpleWriter) datasetChange(scan *model.Scan) string {
	if w.previous == nil || w.previous.DataDigest == "" || scan.DataDigest == "" {
		return ""
	}
	when := w.previous.StartedAt.Format(timeLayout)
	if w.previous.DataDigest == scan.DataDigest {
		return "unchanged since " + when
	}
	return "changed since " + when
}

// writeArtifacts writes the per-file line counts.
func (w *SimpleWriter) writeArtifacts(sb *strings.Builder, scan *model.Scan) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ARTIFACTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, row := range artifactRows(scan.Counts) {
		fmt.Fprintf(sb, "  %-14s %d\n", row.file, row.count)
	}
	sb.WriteString("\n")

	if scan.Counts.Credentials > 0 {
		fmt.Fprintf(sb, "  [!] %d plaintext credential pair(s) found\n\n", scan.Counts.Credentials)
	}
}

// writeModes writes the hashcat mode tally.
func (w *SimpleWriter) writeModes(sb *strings.Builder, scan *model.Scan) {
	if scan.Counts.Hashes == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HASHCAT MODES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, mc := range scan.Modes.Sorted() {
		fmt.Fprintf(sb, "  mode %-8s %d\n", mc.Mode, mc.Count)
	}
	if scan.Modes.Unidentified > 0 {
		fmt.Fprintf(sb, "  %-13s %d\n", "NOTFOUND", scan.Modes.Unidentified)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
