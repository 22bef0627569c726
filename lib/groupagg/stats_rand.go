package groupagg

import "github.com/valyala/fastrand"

// randSource is a reservoir-sampling RNG shared by every "rand" op instance
// in a run, using github.com/valyala/fastrand for cheap non-cryptographic
// sampling decisions in a hot per-row loop.
//
// Seeding is deterministic only when NewRandSource is given a seed,
// otherwise it draws from OS entropy. fastrand's package-level generator
// already auto-seeds from OS entropy on first use, so the "no seed" path
// simply defers to it; the "seed given" path uses a private, explicitly
// seeded RNG. The vmdatamash command line has no seed option: it always
// passes a nil seed and so always takes the entropy-seeded path.
type randSource struct {
	rng *fastrand.RNG // non-nil only when a deterministic seed was requested
}

func newRandSource(seed *uint32) *randSource {
	if seed == nil {
		return &randSource{}
	}
	r := &fastrand.RNG{}
	r.Seed(*seed)
	return &randSource{rng: r}
}

func (rs *randSource) uint32n(n uint32) uint32 {
	if rs.rng != nil {
		return rs.rng.Uint32n(n)
	}
	return fastrand.Uint32n(n)
}

// collectRand implements reservoir sampling of size 1: the k-th observed
// value replaces the sample with probability 1/k.
func (op *OpInstance) collectRand(raw string, rs *randSource) {
	op.state.count++
	if op.state.count == 1 {
		op.state.randText = raw
		return
	}
	if rs.uint32n(uint32(op.state.count)) == 0 {
		op.state.randText = raw
	}
}

func (op *OpInstance) summarizeRand() string {
	return op.state.randText
}
