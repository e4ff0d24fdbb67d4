// Package scenario reads, runs, and generates scripted allocator workloads.
//
// A script is a YAML document:
//
//	name: split-and-merge
//	arena:
//	  blocks: 1
//	steps:
//	  - {op: alloc, name: a, size: 20, expect: 16}
//	  - {op: report, expect: 65488}
//	  - {op: free, name: a}
//	  - {op: check}
//
// alloc binds the returned offset to a name, free releases a named block,
// report compares ReportFree with expect, and check audits the arena with
// package verify.
//
// An alloc marked may_fail accepts a null offset. The name then stays unbound
// and the next free of it is skipped.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpAlloc  = "alloc"
	OpFree   = "free"
	OpReport = "report"
	OpCheck  = "check"
)

var (
	// ErrInvalid indicates a script that is malformed.
	ErrInvalid = errors.New("scenario: invalid script")

	// ErrExpectation indicates a step whose result differed from its expectation.
	ErrExpectation = errors.New("scenario: expectation failed")
)

// Script is a named sequence of steps against one arena.
type Script struct {
	Name  string `yaml:"name,omitempty"`
	Arena Arena  `yaml:"arena"`
	Steps []Step `yaml:"steps"`
}

// Arena sizes the in-memory arena a script runs against. Blocks may be 0 to
// start from an empty arena that grows on first allocation.
type Arena struct {
	Blocks    uint32 `yaml:"blocks"`
	MaxBlocks uint32 `yaml:"max_blocks,omitempty"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op   string `yaml:"op"`
	Name string `yaml:"name,omitempty"`
	Size uint32 `yaml:"size,omitempty"`

	// Expect is the offset for alloc and the free byte count for report.
	Expect *uint32 `yaml:"expect,omitempty"`

	// Fail marks an alloc that must return the null offset.
	Fail bool `yaml:"fail,omitempty"`

	// MayFail marks an alloc that may return the null offset.
	MayFail bool `yaml:"may_fail,omitempty"`
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes s as YAML.
func Marshal(s *Script) ([]byte, error) {
	return yaml.Marshal(s)
}

// Validate checks that every step is well formed and that names are used
// consistently: a name is bound by alloc before it is freed, and not rebound
// while still live.
func (s *Script) Validate() error {
	live := make(map[string]bool)
	for i, st := range s.Steps {
		switch st.Op {
		case OpAlloc:
			if st.Fail && st.Expect != nil {
				return invalid(i, st, "fail and expect are mutually exclusive")
			}
			if st.Fail && st.MayFail {
				return invalid(i, st, "fail and may_fail are mutually exclusive")
			}
			if st.Name == "" || st.Fail {
				continue
			}
			if live[st.Name] {
				return invalid(i, st, fmt.Sprintf("name %q is already live", st.Name))
			}
			live[st.Name] = true
		case OpFree:
			if st.Name == "" {
				return invalid(i, st, "free needs a name")
			}
			if !live[st.Name] {
				return invalid(i, st, fmt.Sprintf("name %q is not live", st.Name))
			}
			delete(live, st.Name)
		case OpReport, OpCheck:
		default:
			return invalid(i, st, fmt.Sprintf("unknown op %q", st.Op))
		}
	}
	return nil
}

func invalid(i int, st Step, msg string) error {
	return fmt.Errorf("%w: step %d (%s): %s", ErrInvalid, i, st.Op, msg)
}

// U32 returns a pointer to v, for building Expect values.
func U32(v uint32) *uint32 { return &v }
