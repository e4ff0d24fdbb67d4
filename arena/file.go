package arena

import (
	"fmt"
	"os"

	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/mmfile"
)

// File is a file-backed arena. The file is mapped read-write so allocator
// header writes land in the page cache directly; Flush and Sync make them
// durable. Growth truncates the file to its new size and remaps it.
//
// NOT thread-safe.
type File struct {
	f         *os.File
	m         *mmfile.Mapping
	size      int64
	maxBlocks uint32
}

// Create creates (or truncates) the file at path as an arena of
// blocks × 64 KiB. maxBlocks caps the total size in blocks; 0 leaves only the
// 32-bit offset limit.
func Create(path string, blocks, maxBlocks uint32) (*File, error) {
	size, ok := grownSize(0, blocks, 0)
	if !ok {
		return nil, fmt.Errorf("arena: create %d blocks: %w", blocks, ErrTooLarge)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("arena: size file: %w", err)
	}

	m, err := mmfile.Map(f, size)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &File{
		f:         f,
		m:         m,
		size:      int64(size),
		maxBlocks: maxBlocks,
	}, nil
}

// Name returns the path the arena was created at.
func (a *File) Name() string {
	if a == nil || a.f == nil {
		return ""
	}
	return a.f.Name()
}

// Size returns the current arena length.
func (a *File) Size() uint32 { return uint32(a.size) }

// Bytes returns the mapped arena. It is nil after Close.
func (a *File) Bytes() []byte {
	if a.m == nil {
		return nil
	}
	return a.m.Bytes()
}

// Grow extends the file by blocks × 64 KiB and remaps it. The new bytes are
// zero-initialized by the OS. It returns 0 on refusal or on any I/O failure,
// in which case the previous mapping is restored when possible.
func (a *File) Grow(blocks uint32) uint32 {
	if a.f == nil || a.m == nil {
		return 0
	}
	newSize, ok := grownSize(int(a.size), blocks, a.maxBlocks)
	if !ok {
		return 0
	}
	if int64(newSize) == a.size {
		return uint32(newSize)
	}

	if err := a.m.Unmap(); err != nil {
		return 0
	}
	if err := a.f.Truncate(int64(newSize)); err != nil {
		a.remap(int(a.size))
		return 0
	}
	m, err := mmfile.Map(a.f, newSize)
	if err != nil {
		a.remap(int(a.size))
		return 0
	}

	a.m = m
	a.size = int64(newSize)
	return uint32(newSize)
}

// remap tries to restore a mapping of size bytes after a failed grow.
func (a *File) remap(size int) {
	m, err := mmfile.Map(a.f, size)
	if err != nil {
		a.m = nil
		return
	}
	a.m = m
}

// Flush writes [off, off+n) of the arena back to the file.
func (a *File) Flush(off, n int) error {
	if a.m == nil {
		return ErrClosed
	}
	return a.m.Flush(off, n)
}

// Sync commits the file's contents to stable storage.
func (a *File) Sync() error {
	if a.f == nil {
		return ErrClosed
	}
	return a.f.Sync()
}

// Close unmaps and closes the file. The arena contents stay on disk.
func (a *File) Close() error {
	var err error
	if a.m != nil {
		err = a.m.Unmap()
		a.m = nil
	}
	if a.f != nil {
		if cerr := a.f.Close(); err == nil {
			err = cerr
		}
		a.f = nil
	}
	return err
}

// Blocks returns the arena size in 64 KiB blocks.
func (a *File) Blocks() uint32 {
	return uint32(a.size / format.BlockSize)
}
