package formulas

import (
	"math/rand/v2"
	"time"
)

// NewSource builds an independent random source for one simulation call.
// A zero seed derives one from the wall clock; any other value gives
// reproducible draws. Each call returns a fresh source so concurrent
// simulations never share generator state.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed)
}
