package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/arena/verify"
	"github.com/joshuapare/arenakit/internal/logger"
)

// StepResult records what one step did.
type StepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Name   string `json:"name,omitempty"`
	Size   uint32 `json:"size,omitempty"`
	Offset uint32 `json:"offset,omitempty"`
	Free   uint32 `json:"free"` // ReportFree after the step

	// Skipped is set on a free whose name a may_fail alloc left unbound.
	Skipped bool `json:"skipped,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	Script string       `json:"script,omitempty"`
	Steps  []StepResult `json:"steps"`
	Stats  alloc.Stats  `json:"stats"`
	Free   uint32       `json:"free"`
	Arena  uint32       `json:"arena"`
	Live   int          `json:"live"`
}

// NewMemory returns the in-memory arena a script asks for.
func (s *Script) NewMemory() *arena.Buffer {
	return arena.NewBuffer(s.Arena.Blocks, s.Arena.MaxBlocks)
}

// Run executes s against a. The allocator's arena is the caller's choice;
// use NewMemory for the one the script describes. Run stops at the first
// failed expectation or invariant and returns the steps completed so far
// along with the error.
func Run(ctx context.Context, s *Script, a *alloc.FirstFit) (*Result, error) {
	r := &runner{
		a:       a,
		handles: make(map[string]alloc.Offset),
		unbound: make(map[string]bool),
		res:     &Result{Script: s.Name},
	}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return r.finish(), err
		}
		sr, err := r.step(i, st)
		if err != nil {
			return r.finish(), err
		}
		r.res.Steps = append(r.res.Steps, sr)
	}
	return r.finish(), nil
}

type runner struct {
	a       *alloc.FirstFit
	handles map[string]alloc.Offset
	unbound map[string]bool // Names whose may_fail alloc returned null
	anon    []alloc.Offset  // Allocations without a name
	res     *Result
}

func (r *runner) step(i int, st Step) (StepResult, error) {
	sr := StepResult{Index: i, Op: st.Op, Name: st.Name, Size: st.Size}

	switch st.Op {
	case OpAlloc:
		off := r.a.Allocate(st.Size)
		sr.Offset = off
		switch {
		case st.Fail && off != alloc.Null:
			return sr, expectation(i, st, "expected allocation to fail, got offset %d", off)
		case !st.Fail && !st.MayFail && off == alloc.Null:
			return sr, expectation(i, st, "allocation of %d bytes failed", st.Size)
		case st.Expect != nil && off != *st.Expect:
			return sr, expectation(i, st, "offset %d, want %d", off, *st.Expect)
		}
		if off == alloc.Null && st.MayFail && st.Name != "" {
			r.unbound[st.Name] = true
		}
		if off != alloc.Null {
			if st.Name != "" {
				r.handles[st.Name] = off
			} else {
				r.anon = append(r.anon, off)
			}
		}
		logger.Debug("alloc", "step", i, "name", st.Name, "size", st.Size, "off", off)

	case OpFree:
		if r.unbound[st.Name] {
			delete(r.unbound, st.Name)
			sr.Skipped = true
			logger.Debug("free skipped", "step", i, "name", st.Name)
			break
		}
		off, ok := r.handles[st.Name]
		if !ok {
			return sr, fmt.Errorf("%w: step %d: name %q is not live", ErrInvalid, i, st.Name)
		}
		r.a.Free(off)
		delete(r.handles, st.Name)
		sr.Offset = off
		logger.Debug("free", "step", i, "name", st.Name, "off", off)

	case OpReport:
		free := r.a.ReportFree()
		if st.Expect != nil && free != *st.Expect {
			return sr, expectation(i, st, "free bytes %d, want %d", free, *st.Expect)
		}

	case OpCheck:
		if err := r.check(); err != nil {
			return sr, fmt.Errorf("step %d (check): %w", i, err)
		}

	default:
		return sr, fmt.Errorf("%w: step %d: unknown op %q", ErrInvalid, i, st.Op)
	}

	sr.Free = r.a.ReportFree()
	return sr, nil
}

// check audits the arena against every live allocation.
func (r *runner) check() error {
	return verify.AllInvariants(r.a.Memory().Bytes(), r.a.Head(), r.live())
}

func (r *runner) live() []alloc.Offset {
	live := slices.Clone(r.anon)
	for _, off := range r.handles {
		live = append(live, off)
	}
	return live
}

func (r *runner) finish() *Result {
	r.res.Stats = r.a.GetStats()
	r.res.Free = r.a.ReportFree()
	r.res.Arena = r.a.Memory().Size()
	r.res.Live = len(r.handles) + len(r.anon)
	return r.res
}

func expectation(i int, st Step, format string, args ...any) error {
	return fmt.Errorf("%w: step %d (%s %s): %s", ErrExpectation, i, st.Op, st.Name, fmt.Sprintf(format, args...))
}
