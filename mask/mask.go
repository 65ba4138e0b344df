// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mask implements the ice/ocean mask and its query predicates of
// spec.md §3 and §4.2. It is a pure function of the mask value, with no
// state of its own — the same shape as gofem's mconduct.Model, a small
// stateless classifier package consumed by the larger routing variant.
package mask

// Value classifies a single cell.
type Value int

const (
	IceFreeBedrock Value = iota
	GroundedIce
	FloatingIce
	IceFreeOcean
)

func (v Value) String() string {
	switch v {
	case IceFreeBedrock:
		return "ice_free_bedrock"
	case GroundedIce:
		return "grounded_ice"
	case FloatingIce:
		return "floating_ice"
	case IceFreeOcean:
		return "ice_free_ocean"
	}
	return "unknown"
}

// Valid reports whether v is one of the four recognised mask values,
// letting callers reject InvalidState per §7 ("mask value not in the
// allowed enumeration").
func (v Value) Valid() bool {
	return v >= IceFreeBedrock && v <= IceFreeOcean
}

// Query is a configurable view over mask values. OceanIncludesFloating
// selects whether floating ice counts as "ocean" for the purposes of
// boundary mass accounting (§4.2: "configurable").
type Query struct {
	OceanIncludesFloating bool
}

// Icy reports whether v carries ice (grounded or floating).
func (q Query) Icy(v Value) bool {
	return v == GroundedIce || v == FloatingIce
}

// Ocean reports whether v should be treated as open water for boundary
// accounting purposes.
func (q Query) Ocean(v Value) bool {
	if q.OceanIncludesFloating {
		return v == FloatingIce || v == IceFreeOcean
	}
	return v == IceFreeOcean
}

// IceFreeLand reports whether v is ice-free bedrock.
func (q Query) IceFreeLand(v Value) bool {
	return v == IceFreeBedrock
}

// Grounded reports whether v rests on bedrock (ice-free or ice-covered).
func (q Query) Grounded(v Value) bool {
	return v == IceFreeBedrock || v == GroundedIce
}
