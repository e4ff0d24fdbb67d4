package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena"
)

// Test_Property_RandomAllocFree runs a fixed-seed mix of allocations and
// frees, checking after every step that the arena is fully accounted for and
// that no two live payloads overlap.
func Test_Property_RandomAllocFree(t *testing.T) {
	mem := arena.NewBuffer(1, 16)
	a := New(mem)

	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
	live := make(map[Offset]byte)       // payload offset -> fill byte
	order := []Offset{}

	fill := func(p Offset, b byte) {
		payload := a.Payload(p)
		for i := range payload {
			payload[i] = b
		}
	}
	check := func(p Offset, b byte) {
		for i, got := range a.Payload(p) {
			require.Equal(t, b, got, "payload 0x%X byte %d clobbered", p, i)
		}
	}

	for step := range 2000 {
		if len(order) == 0 || rng.Intn(5) < 3 {
			n := uint32(rng.Intn(4096))
			p := a.Allocate(n)
			if p == Null {
				t.Logf("step %d: Allocate(%d) refused at %d bytes", step, n, mem.Size())
				continue
			}
			require.Zero(t, p%Alignment)
			require.GreaterOrEqual(t, a.BlockSize(p), n)
			_, dup := live[p]
			require.False(t, dup, "step %d: offset 0x%X handed out twice", step, p)

			b := byte(step)
			fill(p, b)
			live[p] = b
			order = append(order, p)
		} else {
			i := rng.Intn(len(order))
			p := order[i]
			order[i] = order[len(order)-1]
			order = order[:len(order)-1]

			check(p, live[p])
			delete(live, p)
			a.Free(p)
		}

		requireInvariants(t, a, order...)
	}

	for _, p := range order {
		check(p, live[p])
		a.Free(p)
	}
	requireBlocks(t, a, Block{Offset: 8, Size: mem.Size() - 16})
	requireInvariants(t, a)
}
