// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "github.com/cpmech/gosl/mpi"

// direction is a process-grid offset; the eight compass directions cover
// the width-1 box stencil the Mahaffy gradient needs (§4.1), including
// diagonal neighbors for the corner ghost cells.
type direction struct{ di, dj int }

var directions = []direction{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// HaloExchange refreshes f's ghost cells from neighboring processes'
// interiors, implementing the "helper that couples compute + exchange"
// of DESIGN NOTES §9. After this call, f's halo holds a valid copy of the
// owning process's interior, per §3's Scalar2D invariant.
func (g *Grid) HaloExchange(f *Scalar2D) {
	if !mpi.IsOn() || g.NProcs == 1 {
		g.haloExchangeSerialPeriodic(f)
		return
	}
	h := g.HaloWidth
	for _, d := range directions {
		nbI, nbJ := g.ProcI+d.di, g.ProcJ+d.dj
		dest := g.neighborRank(nbI, nbJ)
		if dest < 0 {
			continue
		}
		sendBuf := g.packSendSlab(f, d, h)
		recvBuf := make([]float64, len(sendBuf))
		// parity-ordered send/recv avoids the classic two-process deadlock
		// when every rank issues a blocking send before its matching recv.
		if g.Rank%2 == 0 {
			mpi.SendOne(dest, sendBuf)
			mpi.RecvOne(dest, recvBuf)
		} else {
			mpi.RecvOne(dest, recvBuf)
			mpi.SendOne(dest, sendBuf)
		}
		g.unpackRecvSlab(f, d, h, recvBuf)
	}
}

// haloExchangeSerialPeriodic handles the single-process case: ghost cells
// are filled directly from the (only) owned interior when the domain is
// periodic, and left untouched otherwise (a non-periodic, single-process
// domain has no neighbor to copy from; boundary conditions are applied by
// the caller, e.g. the null-strip / ice-free enforcement in massbalance).
// The ghosts facing direction d wrap around to the owned boundary on the
// opposite side, so they are packed from direction -d.
func (g *Grid) haloExchangeSerialPeriodic(f *Scalar2D) {
	h := g.HaloWidth
	for _, d := range directions {
		if d.di != 0 && !g.PeriodicX {
			continue
		}
		if d.dj != 0 && !g.PeriodicY {
			continue
		}
		buf := g.packSendSlab(f, direction{-d.di, -d.dj}, h)
		g.unpackRecvSlab(f, d, h, buf)
	}
}

// packSendSlab gathers the owned boundary cells facing direction d, of
// thickness h, into a flat buffer in row-major (i-then-j) order.
func (g *Grid) packSendSlab(f *Scalar2D, d direction, h int) []float64 {
	is, ie := g.slabRangeSend(d.di, g.Xs, g.Xm, h)
	js, je := g.slabRangeSend(d.dj, g.Ys, g.Ym, h)
	buf := make([]float64, 0, (ie-is)*(je-js))
	for j := js; j < je; j++ {
		for i := is; i < ie; i++ {
			buf = append(buf, f.At(i, j))
		}
	}
	return buf
}

// unpackRecvSlab scatters a received buffer into the ghost cells facing
// direction d.
func (g *Grid) unpackRecvSlab(f *Scalar2D, d direction, h int, buf []float64) {
	is, ie := g.slabRangeRecv(d.di, g.Xs, g.Xm, h)
	js, je := g.slabRangeRecv(d.dj, g.Ys, g.Ym, h)
	k := 0
	for j := js; j < je; j++ {
		for i := is; i < ie; i++ {
			f.Set(i, j, buf[k])
			k++
		}
	}
}

// slabRangeSend returns the [start, end) range, along one axis, of the
// owned boundary cells to send when stepping in direction delta.
func (g *Grid) slabRangeSend(delta, start, size, h int) (s, e int) {
	switch {
	case delta > 0:
		return start + size - h, start + size
	case delta < 0:
		return start, start + h
	default:
		return start, start + size
	}
}

// slabRangeRecv returns the [start, end) range, along one axis, of the
// ghost cells to receive when stepping in direction delta.
func (g *Grid) slabRangeRecv(delta, start, size, h int) (s, e int) {
	switch {
	case delta > 0:
		return start + size, start + size + h
	case delta < 0:
		return start - h, start
	default:
		return start, start + size
	}
}
