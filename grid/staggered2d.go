// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

// Edge selects which staggered layer is addressed: East (o=0, the
// (i+1/2, j) edge) or North (o=1, the (i, j+1/2) edge), per §3.
type Edge int

const (
	East Edge = 0
	North Edge = 1
)

// Staggered2D is spec.md §3's "Field: Staggered2D": two parallel layers
// indexed by (i, j, o). It is implemented as two Scalar2D fields rather
// than a single (i, j, o) array so that the halo-exchange and
// access-guard machinery built for Scalar2D is reused verbatim instead of
// duplicated.
type Staggered2D struct {
	G       *Grid
	Attrs   Attrs
	EastVal *Scalar2D // layer o=0
	NorthVal *Scalar2D // layer o=1
}

// NewStaggered2D allocates both layers over g's owned+halo patch.
func NewStaggered2D(g *Grid, attrs Attrs) *Staggered2D {
	return &Staggered2D{
		G:        g,
		Attrs:    attrs,
		EastVal:  NewScalar2D(g, attrs),
		NorthVal: NewScalar2D(g, attrs),
	}
}

// At returns the value of the given edge at cell (i, j).
func (s *Staggered2D) At(i, j int, o Edge) float64 {
	if o == East {
		return s.EastVal.At(i, j)
	}
	return s.NorthVal.At(i, j)
}

// Set stores v at the given edge of cell (i, j).
func (s *Staggered2D) Set(i, j int, o Edge, v float64) {
	if o == East {
		s.EastVal.Set(i, j, v)
	} else {
		s.NorthVal.Set(i, j, v)
	}
}

// Fill sets every cell of both layers to v.
func (s *Staggered2D) Fill(v float64) {
	s.EastVal.Fill(v)
	s.NorthVal.Fill(v)
}

// HaloExchangeStaggered refreshes both layers' ghost cells.
func (g *Grid) HaloExchangeStaggered(s *Staggered2D) {
	g.HaloExchange(s.EastVal)
	g.HaloExchange(s.NorthVal)
}
