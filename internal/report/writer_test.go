package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/dehashscan/internal/model"
)

// createTestScan creates a finished scan with sample data for testing.
func createTestScan() *model.Scan {
	scan := model.NewScan("example.com")
	scan.StartedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	scan.FinishedAt = scan.StartedAt.Add(3 * time.Second)
	scan.Workspace = "/home/user/example.com-dehashed"
	scan.Total = 12000
	scan.Balance = 42
	scan.Counts = model.ArtifactCounts{
		Records:     10000,
		Usernames:   120,
		Passwords:   30,
		Credentials: 25,
		Hashes:      400,
		Emails:      900,
	}
	scan.Modes = model.ModeSummary{
		Modes:        map[string]int{"0": 300, "3200": 90},
		Unidentified: 10,
	}
	scan.DataDigest = strings.Repeat("ab", 32)
	return scan
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestScan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"DEHASHSCAN REPORT",
			"example.com",
			"/home/user/example.com-dehashed",
			"Status:         Complete",
			"API Matches:    12000 (first 10000 saved)",
			"creds.txt",
			"25 plaintext credential pair(s) found",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("orders modes by count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestScan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		first := strings.Index(output, "mode 0")
		second := strings.Index(output, "mode 3200")
		notFound := strings.Index(output, "NOTFOUND")
		if first < 0 || second < 0 || notFound < 0 {
			t.Fatalf("expected all modes in output:\n%s", output)
		}
		if first > second || second > notFound {
			t.Error("expected modes ordered by count with NOTFOUND last")
		}
	})

	t.Run("skips mode section without hashes", func(t *testing.T) {
		t.Parallel()

		scan := createTestScan()
		scan.Counts.Hashes = 0
		scan.Modes = model.ModeSummary{}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(scan); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "HASHCAT MODES") {
			t.Error("did not expect a mode section")
		}
	})

	t.Run("shows error status", func(t *testing.T) {
		t.Parallel()

		scan := createTestScan()
		scan.Error = errors.New("boom")
		scan.ErrorMessage = "boom"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(scan); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - boom") {
			t.Error("expected error status")
		}
	})

	t.Run("compares with previous scan", func(t *testing.T) {
		t.Parallel()

		prev := createTestScan()
		prev.StartedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithPrevious(prev)).Write(createTestScan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "unchanged since 2025-01-01") {
			t.Errorf("expected unchanged dataset line, got:\n%s", buf.String())
		}

		prev.DataDigest = strings.Repeat("cd", 32)
		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithPrevious(prev)).Write(createTestScan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Dataset:        changed since") {
			t.Errorf("expected changed dataset line, got:\n%s", buf.String())
		}
	})

	t.Run("verbose shows digest and balance", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestScan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "API Balance:    42") {
			t.Error("expected balance in verbose output")
		}
		if !strings.Contains(output, strings.Repeat("ab", 32)) {
			t.Error("expected digest in verbose output")
		}
	})
}

// TestSimpleWriterHistory tests the history listing.
func TestSimpleWriterHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists scans", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		scans := []*model.Scan{createTestScan(), createTestScan()}
		if _, err := NewSimpleWriter(&buf).WriteHistory(scans); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "STARTED") {
			t.Errorf("unexpected header %q", lines[0])
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No scans recorded.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the summary.md writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables chart and caution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(createTestScan())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero length")
		}

		output := buf.String()
		for _, want := range []string{
			"# DeHashed Scan: example.com",
			"## Artifacts",
			"## Hashcat Modes",
			"hashcat-modes/hashcat_mode_3200",
			"hashcat-modes/hashcat_mode_NOTFOUND",
			"```mermaid",
			"pie",
			"[!CAUTION]",
			"[!WARNING]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no hashes", func(t *testing.T) {
		t.Parallel()

		scan := createTestScan()
		scan.Total = 3
		scan.Counts = model.ArtifactCounts{Records: 3, Emails: 3}
		scan.Modes = model.ModeSummary{}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(scan); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No hashes were classified.") {
			t.Error("expected empty mode section")
		}
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(output, "mermaid") {
			t.Error("did not expect a chart")
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes scan object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		scan := createTestScan()
		scan.Records = []model.Record{model.NewRecord("password", "secret")}
		if _, err := NewJSONWriter(&buf).Write(scan); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "secret") {
			t.Error("records must not be serialized")
		}

		var got model.Scan
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Domain != "example.com" || got.Counts.Hashes != 400 {
			t.Errorf("unexpected decoded scan %+v", got)
		}
		if got.Modes.Modes["3200"] != 90 {
			t.Errorf("unexpected modes %v", got.Modes.Modes)
		}
	})

	t.Run("pretty prints", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestScan()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"domain\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("empty history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})
}
