//go:build linux || darwin

// Package mmfile provides platform-specific helpers for mapping arena files
// into memory read-write.
package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a shared, writable view of the first n bytes of a file.
// Writes to Bytes() reach the file; Flush forces them to stable storage.
type Mapping struct {
	f    *os.File
	data []byte
}

// Map maps size bytes of f read-write. The file must already be at least
// size bytes long.
func Map(f *os.File, size int) (*Mapping, error) {
	if size < 0 {
		return nil, fmt.Errorf("mmfile: negative size %d", size)
	}
	if size == 0 {
		return &Mapping{f: f, data: []byte{}}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmfile: mmap %d bytes: %w", size, err)
	}
	return &Mapping{f: f, data: data}, nil
}

// Bytes returns the mapped region. The slice is invalid after Unmap.
func (m *Mapping) Bytes() []byte { return m.data }

// Flush writes [off, off+n) back to the file with msync. The range is widened
// to page boundaries because msync requires a page-aligned address.
func (m *Mapping) Flush(off, n int) error {
	if n <= 0 || len(m.data) == 0 {
		return nil
	}
	page := unix.Getpagesize()
	start := (off / page) * page
	end := off + n
	if end > len(m.data) {
		end = len(m.data)
	}
	if start >= end {
		return nil
	}
	return unix.Msync(m.data[start:end], unix.MS_SYNC)
}

// Unmap releases the mapping. Unmapping twice is a no-op.
func (m *Mapping) Unmap() error {
	if len(m.data) == 0 {
		m.data = nil
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if errors.Is(err, unix.EINVAL) {
		return nil
	}
	return err
}
