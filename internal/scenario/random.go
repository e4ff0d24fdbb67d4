package scenario

import (
	"fmt"
	"math/rand"
)

// Random generates a script of ops steps from seed. Allocations request up
// to maxSize bytes; roughly two in five steps free a random live block, and
// every 64th step is a check. The script ends by freeing everything and
// checking once more. The same seed always yields the same script.
//
// When arena has a block limit, allocations are marked may_fail so a refused
// growth is recorded as a failed allocation rather than ending the run.
func Random(seed int64, ops int, maxSize uint32, arena Arena) *Script {
	rng := rand.New(rand.NewSource(seed))
	s := &Script{
		Name:  fmt.Sprintf("random-%d", seed),
		Arena: arena,
	}

	var live []string
	next := 0
	for i := range ops {
		switch {
		case i > 0 && i%64 == 0:
			s.Steps = append(s.Steps, Step{Op: OpCheck})
		case len(live) > 0 && rng.Intn(5) < 2:
			j := rng.Intn(len(live))
			s.Steps = append(s.Steps, Step{Op: OpFree, Name: live[j]})
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		default:
			name := fmt.Sprintf("b%d", next)
			next++
			size := uint32(0)
			if maxSize > 0 {
				size = uint32(rng.Int63n(int64(maxSize) + 1))
			}
			s.Steps = append(s.Steps, Step{Op: OpAlloc, Name: name, Size: size, MayFail: arena.MaxBlocks > 0})
			live = append(live, name)
		}
	}

	for _, name := range live {
		s.Steps = append(s.Steps, Step{Op: OpFree, Name: name})
	}
	s.Steps = append(s.Steps, Step{Op: OpCheck}, Step{Op: OpReport})
	return s
}
