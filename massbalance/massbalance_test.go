// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package massbalance

import (
	"testing"

	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/coupler"
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/mask"
)

func newTestSetup(t *testing.T) (*grid.Grid, *config.Config, *coupler.Inputs) {
	g := grid.New(4, 4, 100, 100, 1, 1, 1, false, false)
	cfg := config.Defaults()
	m := mask.NewField(g)
	m.ForEachOwned(func(i, j int, _ mask.Value) {
		m.Set(i, j, mask.GroundedIce)
	})
	m.Set(0, 0, mask.IceFreeBedrock)
	m.Set(3, 3, mask.IceFreeOcean)
	in := &coupler.Inputs{Mask: m}
	return g, cfg, in
}

func TestApplyZeroesIceFreeAndOceanCells(t *testing.T) {
	g, cfg, in := newTestSetup(t)
	acc := New(g, cfg)
	w := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat"})
	w.Fill(1.0)
	acc.Apply(w, in, 1.0)

	if w.At(0, 0) != 0 {
		t.Fatalf("ice-free cell not zeroed: got %g", w.At(0, 0))
	}
	if w.At(3, 3) != 0 {
		t.Fatalf("ocean cell not zeroed: got %g", w.At(3, 3))
	}
	dmdz := g.Dx * g.Dy * cfg.FreshWaterDensity
	if acc.IceFreeLoss != dmdz {
		t.Fatalf("expected IceFreeLoss=%g, got %g", dmdz, acc.IceFreeLoss)
	}
	if acc.OceanLoss != dmdz {
		t.Fatalf("expected OceanLoss=%g, got %g", dmdz, acc.OceanLoss)
	}
}

func TestApplyProjectsNegativeValues(t *testing.T) {
	g, cfg, in := newTestSetup(t)
	acc := New(g, cfg)
	w := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat"})
	w.Set(1, 1, -0.5)
	acc.Apply(w, in, 1.0)

	if w.At(1, 1) != 0 {
		t.Fatalf("negative cell not projected to zero: got %g", w.At(1, 1))
	}
	want := 0.5 * g.Dx * g.Dy * cfg.FreshWaterDensity
	if acc.NegGain != want {
		t.Fatalf("expected NegGain=%g, got %g", want, acc.NegGain)
	}
}

func TestResetClearsLedger(t *testing.T) {
	g, cfg, in := newTestSetup(t)
	acc := New(g, cfg)
	w := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat"})
	w.Fill(1.0)
	acc.Apply(w, in, 1.0)
	acc.Reset()
	if acc.IceFreeLoss != 0 || acc.OceanLoss != 0 || acc.NegGain != 0 || acc.StripLoss != 0 {
		t.Fatalf("reset did not clear ledger: %+v", acc)
	}
}
