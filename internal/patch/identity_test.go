package patch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePatchFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("diff\n"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestResolveIdentityNumericNoExistingFile(t *testing.T) {
	dir := t.TempDir()

	number, filename, err := ResolveIdentity("00042: Fix thing", "", dir)
	if err != nil {
		t.Fatalf("ResolveIdentity() failed: %v", err)
	}
	if number != 42 {
		t.Errorf("number = %d, want 42", number)
	}
	if filename != "fix-thing.patch" {
		t.Errorf("filename = %q, want \"fix-thing.patch\"", filename)
	}
}

func TestResolveIdentityNumericReusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	writePatchFile(t, dir, "00042-historic-name.patch")

	number, filename, err := ResolveIdentity("00042: Fix thing", "", dir)
	if err != nil {
		t.Fatalf("ResolveIdentity() failed: %v", err)
	}
	if number != 42 {
		t.Errorf("number = %d, want 42", number)
	}
	if filename != "00042-historic-name.patch" {
		t.Errorf("filename = %q, want the existing file", filename)
	}
}

func TestResolveIdentityNumericAmbiguousFiles(t *testing.T) {
	dir := t.TempDir()
	writePatchFile(t, dir, "00042-one.patch")
	writePatchFile(t, dir, "00042-two.patch")

	_, _, err := ResolveIdentity("00042: Fix thing", "", dir)
	if !errors.Is(err, ErrIdentity) {
		t.Fatalf("ResolveIdentity() error = %v, want ErrIdentity", err)
	}
}

func TestResolveIdentityNumberComparedNumerically(t *testing.T) {
	dir := t.TempDir()

	// No fixed width: "7:" and "00007:" are the same patch.
	number, _, err := ResolveIdentity("7: Short prefix", "", dir)
	if err != nil {
		t.Fatalf("ResolveIdentity() failed: %v", err)
	}
	if number != 7 {
		t.Errorf("number = %d, want 7", number)
	}
}

func TestResolveIdentityLegacyFilename(t *testing.T) {
	dir := t.TempDir()
	body := "(cherry picked from commit 0123456789012345678901234567890123456789)\nbug 12345 found\n"

	number, filename, err := ResolveIdentity("old-fix.patch", body, dir)
	if err != nil {
		t.Fatalf("ResolveIdentity() failed: %v", err)
	}
	if number != 12345 {
		t.Errorf("number = %d, want 12345", number)
	}
	if filename != "old-fix.patch" {
		t.Errorf("filename = %q, want \"old-fix.patch\"", filename)
	}
}

func TestResolveIdentityLegacySpecialTable(t *testing.T) {
	dir := t.TempDir()

	number, filename, err := ResolveIdentity("python-2.6-rpath.patch", "no digits here", dir)
	if err != nil {
		t.Fatalf("ResolveIdentity() failed: %v", err)
	}
	if number != 16 {
		t.Errorf("number = %d, want 16", number)
	}
	if filename != "python-2.6-rpath.patch" {
		t.Errorf("filename = %q, want the summary", filename)
	}
}

func TestResolveIdentityFailures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		summary string
		body    string
	}{
		{"no recognizable shape", "Fix a thing without a number", ""},
		{"legacy without number", "mystery.patch", "no long digits"},
		{"unsafe legacy filename", "evil name.patch", "12345"},
		{"number out of range", "123456: Too big", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ResolveIdentity(tt.summary, tt.body, dir)
			if !errors.Is(err, ErrIdentity) {
				t.Fatalf("ResolveIdentity(%q) error = %v, want ErrIdentity", tt.summary, err)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" Fix thing", "fix-thing"},
		{"Make  tests… pass!", "make-tests-pass"},
		{"already-slugged", "already-slugged"},
		{"Under_scores are collapsed", "under-scores-are-collapsed"},
		{"--trimmed--", "trimmed"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
