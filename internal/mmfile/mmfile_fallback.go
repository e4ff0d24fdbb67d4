//go:build !linux && !darwin

// Package mmfile provides platform-specific helpers for mapping arena files
// into memory read-write.
package mmfile

import (
	"fmt"
	"io"
	"os"
)

// Mapping holds a private in-memory copy of the first n bytes of a file on
// platforms where the arena is not mmap'd. Flush and Unmap write it back.
type Mapping struct {
	f    *os.File
	data []byte
}

// Map reads size bytes of f into memory.
func Map(f *os.File, size int) (*Mapping, error) {
	if size < 0 {
		return nil, fmt.Errorf("mmfile: negative size %d", size)
	}
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("mmfile: read %d bytes: %w", size, err)
	}
	return &Mapping{f: f, data: data}, nil
}

// Bytes returns the in-memory region. The slice is invalid after Unmap.
func (m *Mapping) Bytes() []byte { return m.data }

// Flush writes [off, off+n) back to the file.
func (m *Mapping) Flush(off, n int) error {
	if n <= 0 || off >= len(m.data) {
		return nil
	}
	end := off + n
	if end > len(m.data) {
		end = len(m.data)
	}
	_, err := m.f.WriteAt(m.data[off:end], int64(off))
	return err
}

// Unmap writes the whole region back and drops it.
func (m *Mapping) Unmap() error {
	if m.data == nil {
		return nil
	}
	err := m.Flush(0, len(m.data))
	m.data = nil
	return err
}
