package groupagg

// NewRandSource builds the reservoir-sampling source shared by every "rand"
// operation in a run. Pass a non-nil seed for deterministic output,
// otherwise the underlying fastrand generator auto-seeds from OS entropy.
func NewRandSource(seed *uint32) *randSource {
	return newRandSource(seed)
}
