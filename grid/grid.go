// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements the distributed rectangular 2D decomposition,
// field storage, and halo exchange of spec.md §3 and §5. It plays the
// role gofem's fem.Domain plays for a finite-element mesh: the owner of
// the local patch of a distributed problem, exposed to every other
// package through a small, explicit API — and it is built directly on
// github.com/cpmech/gosl/mpi, the same parallel binding gofem itself
// links against (see fem/fem.go: mpi.IsOn, mpi.Rank, mpi.Size; the
// AllReduceSum reduction below follows the same call's use in a sibling
// gofem fork, PaddySchmidt-gofem/fem/s_implicit.go).
package grid

import (
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/icehydro/herr"
)

// Grid is a rectangular Mx x My node set, partitioned into a Nx x Ny
// process grid. Each process owns [Xs..Xs+Xm) x [Ys..Ys+Ym) plus a halo
// ring of width HaloWidth (1 or 2, per §3).
type Grid struct {
	Mx, My         int     // global node counts
	Dx, Dy         float64 // uniform spacing
	Nx, Ny         int     // process grid shape
	ProcI, ProcJ   int     // this process's position in the process grid
	Xs, Ys         int     // owned patch origin (global indices)
	Xm, Ym         int     // owned patch size
	HaloWidth      int     // ghost ring width, 1 or 2
	PeriodicX      bool
	PeriodicY      bool
	Rank, NProcs   int
}

// New builds a Grid and computes this process's owned patch by a simple
// block decomposition, the way fem.NewDomains splits cells across
// processors by processor count.
func New(mx, my int, dx, dy float64, nx, ny, haloWidth int, periodicX, periodicY bool) *Grid {
	g := &Grid{
		Mx: mx, My: my, Dx: dx, Dy: dy,
		Nx: nx, Ny: ny,
		HaloWidth: haloWidth,
		PeriodicX: periodicX, PeriodicY: periodicY,
	}
	if mpi.IsOn() {
		g.Rank = mpi.Rank()
		g.NProcs = mpi.Size()
	} else {
		g.Rank = 0
		g.NProcs = 1
	}
	g.ProcI = g.Rank % nx
	g.ProcJ = g.Rank / nx
	g.Xs, g.Xm = blockRange(mx, nx, g.ProcI)
	g.Ys, g.Ym = blockRange(my, ny, g.ProcJ)
	return g
}

// blockRange divides n nodes into p blocks as evenly as possible and
// returns the start and size of block index idx.
func blockRange(n, p, idx int) (start, size int) {
	base := n / p
	rem := n % p
	if idx < rem {
		size = base + 1
		start = idx * size
	} else {
		size = base
		start = rem*(base+1) + (idx-rem)*base
	}
	return
}

// neighborRank returns the rank owning process-grid cell (pi, pj), or -1
// if out of range and the grid is not periodic in that direction.
func (g *Grid) neighborRank(pi, pj int) int {
	if pi < 0 || pi >= g.Nx {
		if !g.PeriodicX {
			return -1
		}
		pi = (pi + g.Nx) % g.Nx
	}
	if pj < 0 || pj >= g.Ny {
		if !g.PeriodicY {
			return -1
		}
		pj = (pj + g.Ny) % g.Ny
	}
	return pj*g.Nx + pi
}

// OwnsGlobalCell reports whether (i, j) (global indices) lies in the
// owned interior of this process's patch (not counting halo).
func (g *Grid) OwnsGlobalCell(i, j int) bool {
	return i >= g.Xs && i < g.Xs+g.Xm && j >= g.Ys && j < g.Ys+g.Ym
}

// InNullStrip reports whether global cell (i, j) lies within widthMeters
// of any domain edge, the "configured band of cells along the domain edge
// where hydrology is forcibly inactive" of the GLOSSARY's "Null strip".
func (g *Grid) InNullStrip(i, j int, widthMeters float64) bool {
	if widthMeters <= 0 {
		return false
	}
	nx := int(widthMeters/g.Dx + 0.5)
	ny := int(widthMeters/g.Dy + 0.5)
	if i < nx || i >= g.Mx-nx {
		return true
	}
	if j < ny || j >= g.My-ny {
		return true
	}
	return false
}

// ReduceSum performs a global sum of each element of vals in place,
// mirroring mpi.AllReduceSum as used in a sibling gofem fork's
// run_iterations (PaddySchmidt-gofem/fem/s_implicit.go:192,
// mpi.AllReduceSum(d.Fb, d.Wb)) — the teacher repo itself has no
// reduction call to imitate directly.
func (g *Grid) ReduceSum(vals []float64) []float64 {
	if !mpi.IsOn() || g.NProcs == 1 {
		return vals
	}
	out := make([]float64, len(vals))
	mpi.AllReduceSum(out, vals)
	return out
}

// ReduceMax performs a global element-wise max, the float64 counterpart
// of mpi.IntAllReduceMax used by gofem's distributed solver selection.
func (g *Grid) ReduceMax(vals []float64) []float64 {
	if !mpi.IsOn() || g.NProcs == 1 {
		return vals
	}
	out := make([]float64, len(vals))
	mpi.AllReduceMax(out, vals)
	return out
}

// Barrier is a cooperative synchronisation point; halo exchanges and
// reductions are the only operations that block, per §5.
func (g *Grid) Barrier() {
	if mpi.IsOn() && g.NProcs > 1 {
		mpi.Barrier()
	}
}

// CheckBounds aborts the process via herr.Abort with an InvalidState
// error (a programmer error, not a user-facing condition) if i, j fall
// outside the owned+halo patch.
func (g *Grid) CheckBounds(i, j int) {
	lo := g.HaloWidth
	if i < g.Xs-lo || i >= g.Xs+g.Xm+lo || j < g.Ys-lo || j >= g.Ys+g.Ym+lo {
		herr.Abort("grid", herr.NewAt(herr.InvalidState, i, j, "index out of owned+halo bounds"))
	}
}

// LocalIndex converts global (i, j) into the local storage coordinates.
func (g *Grid) LocalIndex(i, j int) (li, lj int) {
	return i - g.Xs + g.HaloWidth, j - g.Ys + g.HaloWidth
}

// LocalDims returns the storage dimensions (owned + halo on both sides).
func (g *Grid) LocalDims() (nx, ny int) {
	return g.Xm + 2*g.HaloWidth, g.Ym + 2*g.HaloWidth
}
