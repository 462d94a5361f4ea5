package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/dehashscan/internal/database"
	"github.com/nao1215/dehashscan/internal/model"
)

// seedHistory records one scan per domain and returns the database directory.
func seedHistory(t *testing.T, domains ...string) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, domain := range domains {
		scan := model.NewScan(domain)
		scan.StartedAt = base.Add(time.Duration(i) * time.Hour)
		scan.FinishedAt = scan.StartedAt.Add(time.Second)
		scan.Workspace = "/home/user/" + domain + "-dehashed"
		scan.Counts = model.ArtifactCounts{Records: 10 + i, Hashes: i}
		scan.DataDigest = strings.Repeat("ab", 32)
		if err := db.SaveScan(context.Background(), scan); err != nil {
			t.Fatalf("failed to save scan: %v", err)
		}
	}
	return dir
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [domain]" {
			t.Errorf("expected use 'history [domain]', got %q", cmd.Use)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has db-dir flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Fatal("expected db-dir flag")
		}
	})
}

func TestLoadHistory(t *testing.T) {
	t.Parallel()

	t.Run("missing database is empty history", func(t *testing.T) {
		t.Parallel()

		scans, err := loadHistory(context.Background(), t.TempDir(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scans == nil || len(scans) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", scans)
		}
	})

	t.Run("filters by domain", func(t *testing.T) {
		t.Parallel()

		dir := seedHistory(t, "example.com", "example.org", "example.com")
		scans, err := loadHistory(context.Background(), dir, "example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got []int
		for _, s := range scans {
			got = append(got, s.Counts.Records)
		}
		// Newest first.
		if diff := cmp.Diff([]int{12, 10}, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints table", func(t *testing.T) {
		t.Parallel()

		dir := seedHistory(t, "example.com", "example.org")
		cmd := NewHistoryCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.String()
		for _, want := range []string{"DOMAIN", "example.com", "example.org"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})

	t.Run("prints json for one domain", func(t *testing.T) {
		t.Parallel()

		dir := seedHistory(t, "example.com", "example.org")
		cmd := NewHistoryCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", dir, "--json", "Example.ORG"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var scans []struct {
			Domain string `json:"domain"`
		}
		if err := json.Unmarshal(out.Bytes(), &scans); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
		}
		if len(scans) != 1 || scans[0].Domain != "example.org" {
			t.Errorf("expected only example.org, got %+v", scans)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.String() != "No scans recorded.\n" {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("empty history as json", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", t.TempDir(), "-j"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(out.String()) != "[]" {
			t.Errorf("expected [], got %q", out.String())
		}
	})

	t.Run("rejects more than one domain", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", t.TempDir(), "a.com", "b.com"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for two domains")
		}
	})
}
