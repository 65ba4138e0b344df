// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stagop implements the staggered-grid stencils of spec.md §4.1:
// averaging a regular-grid field to its staggered edges, the Mahaffy-like
// gradient of hydraulic head, and the divergence of a staggered flux.
// This plays the role of gofem's mdl/diffusion (a small, pure, stateless
// operator library consumed by an element/variant) rather than anything
// mesh-specific.
package stagop

import "github.com/cpmech/icehydro/grid"

// AverageToStaggered computes Wstag(i, j, East) = (W(i,j)+W(i+1,j))/2 and
// Wstag(i, j, North) = (W(i,j)+W(i,j+1))/2 for every owned cell.
func AverageToStaggered(w *grid.Scalar2D, wstag *grid.Staggered2D) {
	w.ForEachOwned(func(i, j int, wc float64) {
		we := w.At(i+1, j)
		wn := w.At(i, j+1)
		wstag.Set(i, j, grid.East, 0.5*(wc+we))
		wstag.Set(i, j, grid.North, 0.5*(wc+wn))
	})
}

// MahaffyGradient computes dR/dx and dR/dy at the given edge using the
// Mahaffy-like box stencil of §4.1: at the east edge (o=East),
//
//	dRdx = (R(i+1,j) - R(i,j)) / dx
//	dRdy = (R(i+1,j+1) + R(i,j+1) - R(i+1,j-1) - R(i,j-1)) / (4 dy)
//
// and the mirror image (x, y swapped) at the north edge. R must have an
// up-to-date width-1 box-stencil halo before calling this.
func MahaffyGradient(r *grid.Scalar2D, i, j int, o grid.Edge, dx, dy float64) (dRdx, dRdy float64) {
	if o == grid.East {
		dRdx = (r.At(i+1, j) - r.At(i, j)) / dx
		dRdy = (r.At(i+1, j+1) + r.At(i, j+1) - r.At(i+1, j-1) - r.At(i, j-1)) / (4 * dy)
		return
	}
	dRdy = (r.At(i, j+1) - r.At(i, j)) / dy
	dRdx = (r.At(i+1, j+1) + r.At(i+1, j) - r.At(i-1, j+1) - r.At(i-1, j)) / (4 * dx)
	return
}

// Divergence computes (div Q)(i, j) from the staggered flux Qstag,
// per §4.1:
//
//	(div Q)(i,j) = (Qstag(i,j,E) - Qstag(i-1,j,E)) / dx
//	             + (Qstag(i,j,N) - Qstag(i,j-1,N)) / dy
func Divergence(q *grid.Staggered2D, i, j int, dx, dy float64) float64 {
	ddx := (q.At(i, j, grid.East) - q.At(i-1, j, grid.East)) / dx
	ddy := (q.At(i, j, grid.North) - q.At(i, j-1, grid.North)) / dy
	return ddx + ddy
}
