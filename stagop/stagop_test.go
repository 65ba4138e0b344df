// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stagop

import (
	"math"
	"testing"

	"github.com/cpmech/icehydro/grid"
)

func newTestGrid() *grid.Grid {
	return grid.New(11, 11, 1.0, 1.0, 1, 1, 1, false, false)
}

func TestAverageToStaggeredUniformField(t *testing.T) {
	g := newTestGrid()
	w := grid.NewScalar2D(g, grid.Attrs{ShortName: "W"})
	w.Fill(2.0)
	g.HaloExchange(w)
	wstag := grid.NewStaggered2D(g, grid.Attrs{ShortName: "Wstag"})
	AverageToStaggered(w, wstag)
	if got := wstag.At(5, 5, grid.East); math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("uniform field should average to itself, got %g", got)
	}
}

func TestMahaffyGradientLinearField(t *testing.T) {
	g := newTestGrid()
	r := grid.NewScalar2D(g, grid.Attrs{ShortName: "R"})
	slope := 3.0
	r.ForEachOwned(func(i, j int, _ float64) {
		r.Set(i, j, slope*float64(i))
	})
	g.HaloExchange(r)
	dRdx, dRdy := MahaffyGradient(r, 5, 5, grid.East, 1.0, 1.0)
	if math.Abs(dRdx-slope) > 1e-9 {
		t.Errorf("dR/dx = %g, want %g", dRdx, slope)
	}
	if math.Abs(dRdy) > 1e-9 {
		t.Errorf("dR/dy = %g, want 0 for a field with no y-dependence", dRdy)
	}
}

func TestDivergenceOfConstantFluxIsZero(t *testing.T) {
	g := newTestGrid()
	q := grid.NewStaggered2D(g, grid.Attrs{ShortName: "Q"})
	q.Fill(5.0)
	g.HaloExchangeStaggered(q)
	div := Divergence(q, 5, 5, 1.0, 1.0)
	if math.Abs(div) > 1e-9 {
		t.Errorf("divergence of a spatially constant flux should be 0, got %g", div)
	}
}
