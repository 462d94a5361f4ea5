package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestPathFor tests workspace path construction.
func TestPathFor(t *testing.T) {
	t.Parallel()

	got := PathFor("/home/op", "example.com")
	if got != filepath.Join("/home/op", "example.com-dehashed") {
		t.Errorf("unexpected path %q", got)
	}
}

// TestCreate tests exclusive workspace allocation.
func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates missing parents", func(t *testing.T) {
		t.Parallel()

		base := filepath.Join(t.TempDir(), "a", "b")
		ws, err := Create(base, "example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(ws.Root)
		if err != nil {
			t.Fatalf("workspace not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected a directory")
		}
		if filepath.Base(ws.Root) != "example.com-dehashed" {
			t.Errorf("unexpected workspace name %q", filepath.Base(ws.Root))
		}
		if !filepath.IsAbs(ws.Root) {
			t.Errorf("expected absolute root, got %q", ws.Root)
		}
	})

	t.Run("second creation fails without touching contents", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		ws, err := Create(base, "example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		marker := ws.Path(DataFile)
		if err := os.WriteFile(marker, []byte("first run"), FilePerm); err != nil {
			t.Fatalf("failed to write marker: %v", err)
		}

		_, err = Create(base, "example.com")
		if !errors.Is(err, ErrWorkspaceExists) {
			t.Fatalf("expected ErrWorkspaceExists, got %v", err)
		}

		data, err := os.ReadFile(marker)
		if err != nil || string(data) != "first run" {
			t.Errorf("existing workspace was modified: %q, %v", data, err)
		}
	})

	t.Run("a file in the way is a conflict", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		if err := os.WriteFile(PathFor(base, "example.com"), nil, FilePerm); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := Create(base, "example.com"); !errors.Is(err, ErrWorkspaceExists) {
			t.Errorf("expected ErrWorkspaceExists, got %v", err)
		}
	})

	t.Run("different domains do not collide", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		if _, err := Create(base, "a.example"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := Create(base, "b.example"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestCheck tests the preflight existence check.
func TestCheck(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	if err := Check(base, "example.com"); err != nil {
		t.Fatalf("expected nil for fresh base, got %v", err)
	}
	if _, err := os.Stat(PathFor(base, "example.com")); !os.IsNotExist(err) {
		t.Error("Check must not create the workspace")
	}

	if _, err := Create(base, "example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Check(base, "example.com"); !errors.Is(err, ErrWorkspaceExists) {
		t.Errorf("expected ErrWorkspaceExists, got %v", err)
	}
}

// TestCreateModesDir tests exclusive creation of hashcat-modes.
func TestCreateModesDir(t *testing.T) {
	t.Parallel()

	ws, err := Create(t.TempDir(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir, err := ws.CreateModesDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(ws.Root, ModesDir) {
		t.Errorf("unexpected modes dir %q", dir)
	}
	if ws.ModesPath("x") != filepath.Join(dir, "x") {
		t.Errorf("unexpected modes path %q", ws.ModesPath("x"))
	}

	if _, err := ws.CreateModesDir(); !errors.Is(err, ErrModesDirExists) {
		t.Errorf("expected ErrModesDirExists, got %v", err)
	}
}

// TestOpen tests opening an existing workspace.
func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ws, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.Root != dir {
		t.Errorf("unexpected root %q", ws.Root)
	}

	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, FilePerm); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Open(file); err == nil {
		t.Error("expected error for regular file")
	}
	if _, err := Open(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
