package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/lookthrough/date"
)

// touch creates an empty file and all its parent directories.
func touch(t *testing.T, elems ...string) string {
	t.Helper()
	name := filepath.Join(elems...)
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestResolveOn(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	on := date.New(2025, time.March, 5)

	if _, ok := s.ResolveOn("VTI", on); ok {
		t.Error("ResolveOn() on a missing directory reported a snapshot")
	}

	touch(t, root, "VTI", "2025", "03", "05", "099800.csv")
	want := touch(t, root, "VTI", "2025", "03", "05", "153000.csv")

	got, ok := s.ResolveOn("VTI", on)
	if !ok {
		t.Fatal("ResolveOn() found no snapshot")
	}
	if got != want {
		t.Errorf("ResolveOn() = %q, want lexicographically-last %q", got, want)
	}
}

func TestResolveLatest(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	touch(t, root, "VTI", "2024", "12", "31", "only.csv")
	touch(t, root, "VTI", "2025", "01", "09", "download.csv")
	touch(t, root, "VTI", "2025", "02", "01", "084500.csv")
	want := touch(t, root, "VTI", "2025", "02", "01", "173000.csv")
	touch(t, root, "VTI", "2025", "02", "01", "120000.csv")

	got, ok := s.ResolveLatest("VTI")
	if !ok {
		t.Fatal("ResolveLatest() found no snapshot")
	}
	if got != want {
		t.Errorf("ResolveLatest() = %q, want %q", got, want)
	}
}

func TestResolveLatestMissingLevels(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	// No key directory at all.
	if _, ok := s.ResolveLatest("VTI"); ok {
		t.Error("ResolveLatest() on a missing key reported a snapshot")
	}

	// Empty day directory: all three levels exist but contain no file.
	if err := os.MkdirAll(filepath.Join(root, "BND", "2025", "01", "15"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.ResolveLatest("BND"); ok {
		t.Error("ResolveLatest() on an empty day directory reported a snapshot")
	}

	// Truncated hierarchy: month level exists, day level missing.
	if err := os.MkdirAll(filepath.Join(root, "VEA", "2025", "01"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.ResolveLatest("VEA"); ok {
		t.Error("ResolveLatest() on a truncated hierarchy reported a snapshot")
	}
}

func TestPathFor(t *testing.T) {
	s := NewStore("/db")
	got := s.PathFor("VTI", date.New(2025, time.March, 5))
	want := filepath.Join("/db", "VTI", "2025", "03", "05")
	if got != want {
		t.Errorf("PathFor() = %q, want %q", got, want)
	}
}
