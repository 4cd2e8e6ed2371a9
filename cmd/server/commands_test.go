package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"startpage/internal/directory"
	"startpage/internal/models"
	"startpage/internal/storage"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPrintResolved(t *testing.T) {
	tests := []struct {
		in   models.Resolved
		want string
	}{
		{models.Resolved{Kind: models.KindNone}, "none\n"},
		{models.Resolved{Kind: models.KindURL, URL: "https://example.com"}, "url\thttps://example.com\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printResolved(&buf, tt.in)
		if buf.String() != tt.want {
			t.Errorf("printResolved(%+v) = %q, want %q", tt.in, buf.String(), tt.want)
		}
	}
}

func TestWriteShortcuts(t *testing.T) {
	var buf bytes.Buffer
	err := writeShortcuts(&buf, []models.ShortcutEntry{
		{Key: "g", Shortcut: models.Shortcut{Name: "Gmail", URL: "https://mail.google.com"}},
		{Key: "yt", Shortcut: models.Shortcut{Command: "y"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "g ") || !strings.Contains(lines[1], "https://mail.google.com") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "→ y") {
		t.Errorf("alias line = %q", lines[2])
	}
}

func TestValidateEntries(t *testing.T) {
	good := []models.ShortcutEntry{{Key: "g", Shortcut: models.Shortcut{URL: "https://g.example"}}}
	if err := validateEntries(good, "/", " "); err != nil {
		t.Errorf("validateEntries(good) = %v", err)
	}

	bad := []models.ShortcutEntry{{Key: "a/b", Shortcut: models.Shortcut{URL: "https://g.example"}}}
	if err := validateEntries(bad, "/", " "); err == nil {
		t.Error("key with delimiter accepted")
	}
}

func TestReplaceShortcuts(t *testing.T) {
	ctx := context.Background()
	dir, err := directory.New(ctx, directory.NewKVPersister(storage.NewMemory()), directory.DefaultShortcuts(), discard)
	if err != nil {
		t.Fatal(err)
	}

	want := []models.ShortcutEntry{
		{Key: "b", Shortcut: models.Shortcut{Name: "B", URL: "https://b.example"}},
		{Key: "a", Shortcut: models.Shortcut{Name: "A", URL: "https://a.example"}},
	}
	if err := replaceShortcuts(ctx, dir, want); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, dir.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}
