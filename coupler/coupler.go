// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package coupler defines the seam between the in-scope hydrology core
// and the out-of-scope ice-dynamics / thermomechanical driver named in
// spec.md §1 ("Out of scope: ... the full thermomechanical stress
// balance, climate/surface/ocean couplers, bed-deformation models"). It
// carries no physics of its own, only the borrowed-input contract of §3
// ("Ownership") and the cooperative sentinel signals of §6.
package coupler

import (
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/mask"
)

// Inputs bundles the fields the outer ice-dynamics driver publishes each
// outer step. The hydrology component treats all of these as read-only
// for the duration of Update, per §5's "Shared-resource policy".
type Inputs struct {
	Thickness  *grid.Scalar2D // H [m]
	BedElev    *grid.Scalar2D // b [m]
	BasalMelt  *grid.Scalar2D // ṁ [m/s]
	Mask       *mask.Field
	CellArea   *grid.Scalar2D // optional; nil means uniform Dx*Dy
}

// AreaAt returns the area of cell (i, j), falling back to the uniform
// Dx*Dy product when no per-cell area field was supplied.
func (in *Inputs) AreaAt(g *grid.Grid, i, j int) float64 {
	if in.CellArea != nil {
		return in.CellArea.At(i, j)
	}
	return g.Dx * g.Dy
}

// Sentinels are the two process-wide signals the outer driver may check
// for at the end of each outer step (§6 "Sentinel signals"). They are
// cooperative: the hydrology component only observes them between
// sub-steps (§5 "Cancellation and timeouts").
type Sentinels struct {
	StopRequested bool // graceful-stop: save state and exit
	DumpRequested bool // intermediate-dump: write a snapshot and continue
}
