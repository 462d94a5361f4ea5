package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/dehashscan/internal/classify"
	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/workspace"
)

// MarkdownWriter outputs the workspace summary in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the scan summary in Markdown format.
func (w *MarkdownWriter) Write(scan *model.Scan) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, scan)
	w.writeArtifacts(md, scan)
	w.writeModes(md, scan)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and scan information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, scan *model.Scan) {
	md.H1("DeHashed Scan: " + scan.Domain)
	md.PlainText("")

	rows := [][]string{
		{"Domain", "`" + scan.Domain + "`"},
		{"Scan ID", "`" + scan.ID + "`"},
		{"Scan Date", scan.StartedAt.Format(timeLayout)},
		{"Workspace", "`" + scan.Workspace + "`"},
		{"Records Saved", strconv.Itoa(scan.Counts.Records)},
		{"API Matches", strconv.Itoa(scan.Total)},
	}
	if scan.DataDigest != "" {
		rows = append(rows, []string{"SHA3-256 (" + workspace.DataFile + ")", "`" + scan.DataDigest + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if scan.Total > scan.Counts.Records {
		md.Warningf("The API reported %d matches; only the first %d were returned.",
			scan.Total, scan.Counts.Records)
		md.PlainText("")
	}
}

// writeArtifacts writes the artifact table and the credential alert.
func (w *MarkdownWriter) writeArtifacts(md *markdown.Markdown, scan *model.Scan) {
	md.H2("Artifacts")
	md.PlainText("")

	rows := make([][]string, 0, 6)
	for _, row := range artifactRows(scan.Counts) {
		rows = append(rows, []string{"`" + row.file + "`", strconv.Itoa(row.count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Lines"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case scan.Counts.Credentials > 0:
		md.Cautionf("%d plaintext credential pair(s) were found. Handle `%s` with care.",
			scan.Counts.Credentials, workspace.CredsFile)
	case scan.Counts.Passwords > 0:
		md.Warningf("%d plaintext password(s) were found.", scan.Counts.Passwords)
	case scan.Counts.Hashes > 0:
		md.Note("Only hashed passwords were found.")
	default:
		md.Tip("No passwords or hashes were found.")
	}
	md.PlainText("")
}

// writeModes writes the hashcat mode table and chart.
func (w *MarkdownWriter) writeModes(md *markdown.Markdown, scan *model.Scan) {
	md.H2("Hashcat Modes")
	md.PlainText("")

	sorted := scan.Modes.Sorted()
	if len(sorted) == 0 && scan.Modes.Unidentified == 0 {
		md.PlainText("No hashes were classified.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(sorted)+1)
	for _, mc := range sorted {
		rows = append(rows, []string{
			mc.Mode,
			"`" + workspace.ModesDir + "/" + classify.ModeFilePrefix + mc.Mode + "`",
			strconv.Itoa(mc.Count),
		})
	}
	if scan.Modes.Unidentified > 0 {
		rows = append(rows, []string{
			"unidentified",
			"`" + workspace.ModesDir + "/" + classify.ModeFilePrefix + classify.NotFound + "`",
			strconv.Itoa(scan.Modes.Unidentified),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Mode", "File", "Hashes"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, scan)
}

// writePieChart writes a mermaid pie chart of the mode distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, scan *model.Scan) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Hashes by Hashcat Mode"),
		piechart.WithShowData(true),
	)

	for _, mc := range scan.Modes.Sorted() {
		chart.LabelAndIntValue("mode "+mc.Mode, uint64(mc.Count)) //nolint:gosec // counts are never negative
	}
	if scan.Modes.Unidentified > 0 {
		chart.LabelAndIntValue(classify.NotFound, uint64(scan.Modes.Unidentified)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Summary generated by [dehashscan](https://github.com/nao1215/dehashscan)*")
}
