package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/dehashscan/internal/classify"
	"github.com/nao1215/dehashscan/internal/config"
	"github.com/nao1215/dehashscan/internal/dehashed"
	"github.com/nao1215/dehashscan/internal/model"
	"github.com/nao1215/dehashscan/internal/workspace"
)

const sampleResponse = `{
	"balance": 99,
	"total": 3,
	"entries": [
		{"id": "1", "email": "A@example.com", "username": "alice", "password": "pw1", "hashed_password": "5f4dcc3b5aa765d61d8327deb882cf99"},
		{"id": "2", "email": "b@example.com", "username": "bob", "password": "", "hashed_password": "$2y$10$abcdefghijklmnopqrstuv"},
		{"id": "3", "email": "a@example.com", "username": "", "password": "pw3", "hashed_password": ""}
	]
}`

const sampleClassification = `{
	"$2y$10$abcdefghijklmnopqrstuv": [{"name": "bcrypt", "hashcat": 3200}],
	"5f4dcc3b5aa765d61d8327deb882cf99": [{"name": "MD5", "hashcat": 0}, {"name": "MD4", "hashcat": 900}]
}`

// newAPI starts a fake search API answering every request with body.
func newAPI(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns an API client for srv.
func newClient(srv *httptest.Server) *dehashed.Client {
	creds := config.Credentials{Email: "user@example.com", APIKey: "key"}
	return dehashed.NewClient(creds, dehashed.WithBaseURL(srv.URL), dehashed.WithHTTPClient(srv.Client()))
}

// stubIdentifier returns a fixed classification.
func stubIdentifier(output string) classify.Identifier {
	return classify.IdentifierFunc(func(context.Context, string) ([]byte, error) {
		return []byte(output), nil
	})
}

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDefaultPipeline tests a full scan against fake collaborators.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("writes every artifact", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		srv := newAPI(t, http.StatusOK, sampleResponse)
		p := DefaultPipeline(newClient(srv), stubIdentifier(sampleClassification),
			[]Option{WithLogger(discardLogger())},
			WithPipelineOutputDir(base),
		)

		scan := model.NewScan("example.com")
		if err := p.Execute(context.Background(), scan); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantSteps := []string{StepPreflight, StepFetch, StepWorkspace, StepArtifacts, StepClassify, StepSummary}
		if diff := cmp.Diff(wantSteps, scan.PerformedSteps); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}

		wantCounts := model.ArtifactCounts{Records: 3, Usernames: 2, Passwords: 2, Credentials: 1, Hashes: 2, Emails: 2}
		if diff := cmp.Diff(wantCounts, scan.Counts); diff != "" {
			t.Errorf("counts mismatch (-want +got):\n%s", diff)
		}
		wantModes := model.ModeSummary{Modes: map[string]int{"0": 1, "3200": 1}}
		if diff := cmp.Diff(wantModes, scan.Modes); diff != "" {
			t.Errorf("modes mismatch (-want +got):\n%s", diff)
		}
		if scan.Total != 3 || scan.Balance != 99 {
			t.Errorf("unexpected total/balance %d/%d", scan.Total, scan.Balance)
		}

		root := workspace.PathFor(base, "example.com")
		if scan.Workspace != root {
			t.Errorf("expected workspace %s, got %s", root, scan.Workspace)
		}
		for _, name := range []string{
			workspace.DataFile,
			workspace.UsernameFile,
			workspace.PasswordFile,
			workspace.CredsFile,
			workspace.HashesFile,
			workspace.EmailsFile,
			workspace.SummaryFile,
			filepath.Join(workspace.ModesDir, classify.OutputFile),
			filepath.Join(workspace.ModesDir, "hashcat_mode_0"),
			filepath.Join(workspace.ModesDir, "hashcat_mode_3200"),
		} {
			if _, err := os.Stat(filepath.Join(root, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}

		summary, err := os.ReadFile(filepath.Join(root, workspace.SummaryFile))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(summary), "DeHashed Scan: example.com") {
			t.Error("unexpected summary content")
		}
	})

	t.Run("second scan of the same domain fails before fetching", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		if _, err := workspace.Create(base, "example.com"); err != nil {
			t.Fatal(err)
		}

		fetched := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fetched = true
			_, _ = io.WriteString(w, sampleResponse)
		}))
		t.Cleanup(srv.Close)

		p := DefaultPipeline(newClient(srv), stubIdentifier("{}"),
			[]Option{WithLogger(discardLogger())},
			WithPipelineOutputDir(base),
		)
		err := p.Execute(context.Background(), model.NewScan("example.com"))
		if !errors.Is(err, workspace.ErrWorkspaceExists) {
			t.Fatalf("expected ErrWorkspaceExists, got %v", err)
		}
		if fetched {
			t.Error("expected no API request")
		}
	})

	t.Run("upstream errors leave no workspace", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			body    string
			wantErr error
		}{
			{name: "empty entries", body: `{"entries": []}`, wantErr: dehashed.ErrNoEntries},
			{name: "null entries", body: `{"entries": null}`, wantErr: dehashed.ErrNoEntries},
			{name: "missing entries", body: `{"message": "Invalid API credentials."}`, wantErr: dehashed.ErrUnexpectedResponse},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				base := t.TempDir()
				srv := newAPI(t, http.StatusOK, tt.body)
				p := DefaultPipeline(newClient(srv), stubIdentifier("{}"),
					[]Option{WithLogger(discardLogger())},
					WithPipelineOutputDir(base),
				)

				err := p.Execute(context.Background(), model.NewScan("example.com"))
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if _, err := os.Stat(workspace.PathFor(base, "example.com")); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("expected no workspace, stat returned %v", err)
				}
			})
		}
	})

	t.Run("summary can be disabled", func(t *testing.T) {
		t.Parallel()

		srv := newAPI(t, http.StatusOK, sampleResponse)
		p := DefaultPipeline(newClient(srv), stubIdentifier(sampleClassification),
			nil,
			WithPipelineOutputDir(t.TempDir()),
			WithPipelineSummary(false),
		)
		if got := p.StepNames(); len(got) != 5 || got[4] != StepClassify {
			t.Errorf("unexpected steps %v", got)
		}
	})
}

// TestStepsWithoutWorkspace tests steps that need an allocated workspace.
func TestStepsWithoutWorkspace(t *testing.T) {
	t.Parallel()

	steps := []Step{
		NewArtifactStep(),
		NewClassifyStep(classify.New(stubIdentifier("{}"))),
		NewSummaryStep(nil),
	}
	for _, step := range steps {
		t.Run(step.Name(), func(t *testing.T) {
			t.Parallel()

			if err := step.Do(context.Background(), model.NewScan("example.com")); err == nil {
				t.Error("expected error without workspace")
			}
		})
	}
}

// TestFetchStep tests that fetched data lands on the scan.
func TestFetchStep(t *testing.T) {
	t.Parallel()

	srv := newAPI(t, http.StatusOK, sampleResponse)
	step := NewFetchStep(newClient(srv), discardLogger())

	scan := model.NewScan("example.com")
	if err := step.Do(context.Background(), scan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(scan.Records))
	}
	if scan.Records[0].Username() != "alice" {
		t.Errorf("unexpected first record %v", scan.Records[0].Keys())
	}
}
