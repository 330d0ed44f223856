package domain

import "maps"

// Inputs is the loosely typed input document of one calculation.
// Plugins decode it into their own typed structures.
type Inputs map[string]any

// Clone returns a shallow copy of the inputs.
func (in Inputs) Clone() Inputs {
	return maps.Clone(in)
}
