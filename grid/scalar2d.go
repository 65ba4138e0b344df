// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/icehydro/herr"
)

// Attrs bundles the metadata PISM attaches to every persisted variable
// (short_name, units, valid_min, …), matching §6's "Persisted state"
// attribute set and original_source/NCVariable.hh.
type Attrs struct {
	ShortName string
	Units     string
	ValidMin  float64
	HasMin    bool
	LongName  string
}

// Scalar2D is a mapping from owned-plus-halo cell indices to float64, the
// concrete representation of spec.md §3's "Field: Scalar2D". Storage is a
// dense [][]float64, the same shape gofem allocates for dense 2D data via
// la.MatAlloc (see mdl/diffusion/m1.go: o.Kcte = la.MatAlloc(ndim, ndim)).
type Scalar2D struct {
	G          *Grid
	Attrs      Attrs
	data       [][]float64 // [local i][local j]
	generation int         // incremented by each AccessMut, see AccessGuard
	borrowed   bool        // set while a mutable borrow is open
}

// NewScalar2D allocates a field over g's owned+halo patch.
func NewScalar2D(g *Grid, attrs Attrs) *Scalar2D {
	nx, ny := g.LocalDims()
	return &Scalar2D{G: g, Attrs: attrs, data: la.MatAlloc(nx, ny)}
}

// Fill sets every owned+halo cell to v, mirroring la.MatFill.
func (f *Scalar2D) Fill(v float64) {
	la.MatFill(f.data, v)
}

// At returns the value at global cell (i, j); i, j may address halo cells.
func (f *Scalar2D) At(i, j int) float64 {
	f.G.CheckBounds(i, j)
	li, lj := f.G.LocalIndex(i, j)
	return f.data[li][lj]
}

// Set stores v at global cell (i, j); i, j may address halo cells (used
// by the halo-exchange implementation itself).
func (f *Scalar2D) Set(i, j int, v float64) {
	f.G.CheckBounds(i, j)
	li, lj := f.G.LocalIndex(i, j)
	f.data[li][lj] = v
}

// AccessGuard is the scoped borrow of DESIGN NOTES §9: obtained before a
// traversal, released on scope exit. A second mutable borrow on a field
// that already has one open is rejected by AccessMut; read-only borrows
// are not checked against mutable ones.
type AccessGuard struct {
	f   *Scalar2D
	gen int
	mut bool
}

// Access begins a read-only borrow.
func (f *Scalar2D) Access() *AccessGuard {
	return &AccessGuard{f: f, gen: f.generation}
}

// AccessMut begins a read-write borrow; it aborts the process via
// herr.Abort if a mutable borrow is already open on this field (a
// programmer error).
func (f *Scalar2D) AccessMut() *AccessGuard {
	if f.borrowed {
		herr.Abort("grid", herr.New(herr.InvalidState, "overlapping mutable access on field %q", f.Attrs.ShortName))
	}
	f.borrowed = true
	f.generation++
	return &AccessGuard{f: f, gen: f.generation, mut: true}
}

// End releases the borrow.
func (g *AccessGuard) End() {
	if g.mut {
		g.f.borrowed = false
	}
}

// CopyFrom copies every owned+halo value from src (same grid required).
func (f *Scalar2D) CopyFrom(src *Scalar2D) {
	for i := range f.data {
		copy(f.data[i], src.data[i])
	}
}

// ForEachOwned visits every owned (non-halo) cell in row-major order.
func (f *Scalar2D) ForEachOwned(fn func(i, j int, v float64)) {
	for j := f.G.Ys; j < f.G.Ys+f.G.Ym; j++ {
		for i := f.G.Xs; i < f.G.Xs+f.G.Xm; i++ {
			fn(i, j, f.At(i, j))
		}
	}
}

// Encode serialises the field's owned+halo data, the role gofem's
// ele.Element.Encode plays for internal variables (ele/element.go).
func (f *Scalar2D) Encode(enc utl.Encoder) error {
	if err := enc.Encode(f.data); err != nil {
		return herr.New(herr.IoError, "scalar2d: encode %q: %v", f.Attrs.ShortName, err)
	}
	return nil
}

// Decode restores the field's owned+halo data written by Encode.
func (f *Scalar2D) Decode(dec utl.Decoder) error {
	if err := dec.Decode(&f.data); err != nil {
		return herr.New(herr.IoError, "scalar2d: decode %q: %v", f.Attrs.ShortName, err)
	}
	return nil
}

