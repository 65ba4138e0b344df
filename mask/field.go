// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mask

import "github.com/cpmech/icehydro/grid"

// Field is the distributed integer mask of spec.md §3: "An integer 2D
// field with values in {ICE_FREE_BEDROCK, GROUNDED_ICE, FLOATING_ICE,
// ICE_FREE_OCEAN}." It shares grid.Grid's geometry and halo machinery but
// stores Value rather than float64, since the mask is categorical, not a
// physical quantity.
type Field struct {
	G    *grid.Grid
	data [][]Value
}

// NewField allocates a mask field over g's owned+halo patch.
func NewField(g *grid.Grid) *Field {
	nx, ny := g.LocalDims()
	data := make([][]Value, nx)
	for i := range data {
		data[i] = make([]Value, ny)
	}
	return &Field{G: g, data: data}
}

// At returns the mask value at global cell (i, j).
func (f *Field) At(i, j int) Value {
	f.G.CheckBounds(i, j)
	li, lj := f.G.LocalIndex(i, j)
	return f.data[li][lj]
}

// Set stores v at global cell (i, j).
func (f *Field) Set(i, j int, v Value) {
	f.G.CheckBounds(i, j)
	li, lj := f.G.LocalIndex(i, j)
	f.data[li][lj] = v
}

// ForEachOwned visits every owned (non-halo) cell in row-major order.
func (f *Field) ForEachOwned(fn func(i, j int, v Value)) {
	for j := f.G.Ys; j < f.G.Ys+f.G.Ym; j++ {
		for i := f.G.Xs; i < f.G.Xs+f.G.Xm; i++ {
			fn(i, j, f.At(i, j))
		}
	}
}

// HaloExchange refreshes the mask's ghost cells by round-tripping the
// values through a temporary Scalar2D. No variant in this module calls
// it: the routing variant's null-strip test uses grid geometry
// (Grid.InNullStrip), not ghosted mask values.
func (f *Field) HaloExchange() {
	tmp := grid.NewScalar2D(f.G, grid.Attrs{ShortName: "mask_tmp"})
	nx, ny := f.G.LocalDims()
	for li := 0; li < nx; li++ {
		for lj := 0; lj < ny; lj++ {
			i := li - f.G.HaloWidth + f.G.Xs
			j := lj - f.G.HaloWidth + f.G.Ys
			tmp.Set(i, j, float64(f.data[li][lj]))
		}
	}
	f.G.HaloExchange(tmp)
	for li := 0; li < nx; li++ {
		for lj := 0; lj < ny; lj++ {
			i := li - f.G.HaloWidth + f.G.Xs
			j := lj - f.G.HaloWidth + f.G.Ys
			f.data[li][lj] = Value(int(tmp.At(i, j)))
		}
	}
}
