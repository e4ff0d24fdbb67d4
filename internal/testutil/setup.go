// Package testutil holds helpers shared by tests that work with file-backed
// arenas.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/internal/format"
)

// SetupFileArena creates a file-backed arena of blocks × 64 KiB in a
// temporary directory and closes it when the test ends.
// Returns the arena and its path.
//
// Example:
//
//	f, path := testutil.SetupFileArena(t, 1, 0)
//	a := alloc.New(f)
func SetupFileArena(t *testing.T, blocks, maxBlocks uint32) (*arena.File, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "arena.bin")
	f, err := arena.Create(path, blocks, maxBlocks)
	if err != nil {
		t.Fatalf("Failed to create arena: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	return f, path
}

// ReadHeader reads the block header at off from the arena file on disk.
// Calls t.Fatal if the file cannot be read or the header is invalid.
func ReadHeader(t *testing.T, path string, off uint32) format.Header {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read arena file: %v", err)
	}
	h, err := format.ParseHeader(data, off)
	if err != nil {
		t.Fatalf("Failed to parse header: %v", err)
	}
	return h
}
