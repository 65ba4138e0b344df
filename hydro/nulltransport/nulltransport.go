// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nulltransport implements the "till-can" hydrology variant of
// spec.md §4.4: a per-cell reservoir with no lateral transport, updated
// by explicit Euler and clipped to [0, W_max]. It plays the same role in
// this module that mconduct's simplest model (a single nonlinear
// coefficient, no PDE) plays in gofem: the minimal variant against which
// the richer routing variant is contrasted.
package nulltransport

import (
	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/coupler"
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/herr"
	"github.com/cpmech/icehydro/hydro"
	"github.com/cpmech/icehydro/massbalance"
	"github.com/cpmech/icehydro/sink"
)

// register this variant with the open hydro registry (mirrors
// mconduct/conductmodels.go's allocators[name] = ... pattern)
func init() {
	hydro.Register("nulltransport", func(cfg *config.Config, g *grid.Grid) hydro.Model {
		return New(cfg, g)
	})
}

// TillCan implements hydro.Model. No ghost cells are required (§4.4:
// "no ghosts required") since the update never reads a neighbor.
type TillCan struct {
	cfg *config.Config
	g   *grid.Grid

	w   *grid.Scalar2D
	in  *coupler.Inputs
	acc *massbalance.Accountant

	lastT, lastDt float64
	hasLast       bool
}

// New allocates an un-initialised TillCan variant.
func New(cfg *config.Config, g *grid.Grid) *TillCan {
	return &TillCan{
		cfg: cfg,
		g:   g,
		w:   grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat", Units: "m", ValidMin: 0, HasMin: true, LongName: "subglacial water thickness"}),
		acc: massbalance.New(g, cfg),
	}
}

// Init resolves the borrowed fields and bootstraps W per §4.3.
func (o *TillCan) Init(in *coupler.Inputs) error {
	if in.Thickness == nil || in.Mask == nil {
		return herr.New(herr.MissingInput, "nulltransport: thickness and mask are required")
	}
	o.in = in
	hydro.BootstrapW(o.w, nil, nil, "bwat", 0)
	return nil
}

// Update advances W by one explicit Euler step of dW/dt = input - C,
// clipped to [0, W_max], then runs the mass accountant. By construction
// this variant never moves water laterally, so boundary losses are zero
// except for the W := 0 enforcement at ice-free/ocean/null-strip cells
// and the non-negativity projection — both handled by massbalance.
func (o *TillCan) Update(tIce, dtIce float64) error {
	if o.hasLast && sameStep(o.lastT, o.lastDt, tIce, dtIce) {
		return nil // idempotent replay, §4.5's short-circuit applies here too
	}
	o.eulerStep(dtIce)
	o.acc.Apply(o.w, o.in, dtIce)
	o.lastT, o.lastDt, o.hasLast = tIce, dtIce, true
	return nil
}

// eulerStep applies the per-cell reservoir update in isolation, without
// running the mass accountant or the idempotent replay check, so the
// diffuse-only derivative variant can sandwich its own diffusion stage
// between this step and the accountant.
func (o *TillCan) eulerStep(dtIce float64) {
	input := o.inputRateAt
	o.w.ForEachOwned(func(i, j int, w float64) {
		wNew := w + dtIce*(input(i, j)-o.cfg.BwatDecayRate)
		if wNew < 0 {
			wNew = 0
		}
		if wNew > o.cfg.BwatMax {
			wNew = o.cfg.BwatMax
		}
		o.w.Set(i, j, wNew)
	})
}

// inputRateAt returns the configured source term at (i, j), cropped to
// icy cells exactly as the routing variant does in §4.5 step 8.
func (o *TillCan) inputRateAt(i, j int) float64 {
	q := massbalance.MaskQuery(o.cfg)
	if !q.Icy(o.in.Mask.At(i, j)) {
		return 0
	}
	if o.cfg.UseConstBmelt {
		return o.cfg.ConstBmelt
	}
	return o.in.BasalMelt.At(i, j)
}

func sameStep(t0, dt0, t1, dt1 float64) bool {
	const eps = 1e-12
	return abs(t0-t1) < eps && abs(dt0-dt1) < eps
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// SubglacialWaterThickness copies W into out.
func (o *TillCan) SubglacialWaterThickness(out *grid.Scalar2D) error {
	out.CopyFrom(o.w)
	return nil
}

// SubglacialWaterPressure has no independent pressure state in the
// till-can variant; it reports P = lambda * P_o, consistent with the
// routing variant's definition, using the borrowed thickness to compute
// overburden.
func (o *TillCan) SubglacialWaterPressure(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		po := o.cfg.IceDensity * o.cfg.StandardGravity * o.in.Thickness.At(i, j)
		out.Set(i, j, o.cfg.PressureFraction*po)
	})
	return nil
}

// OverburdenPressure implements hydro.WithOverburden.
func (o *TillCan) OverburdenPressure(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		out.Set(i, j, o.cfg.IceDensity*o.cfg.StandardGravity*o.in.Thickness.At(i, j))
	})
	return nil
}

// TillWaterThickness implements hydro.WithTillwat: this variant's single
// reservoir *is* the till water, per spec.md §4.8's "till-only variant".
func (o *TillCan) TillWaterThickness(out *grid.Scalar2D) error {
	out.CopyFrom(o.w)
	return nil
}

// InputRate implements hydro.WithInputRate.
func (o *TillCan) InputRate(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		out.Set(i, j, o.inputRateAt(i, j))
	})
	return nil
}

// AddVarsToOutput, DefineVariables and WriteVariables implement the
// generic sink contract of §6.
func (o *TillCan) AddVarsToOutput(keyword string, s sink.Sink) error {
	return o.DefineVariables([]string{"bwat"}, s)
}

func (o *TillCan) DefineVariables(names []string, s sink.Sink) error {
	for _, n := range names {
		if n != "bwat" {
			continue
		}
		if err := s.DefineVariable(sink.VarAttrs{
			ShortName: "bwat", Units: "m", ValidMin: 0, HasMin: true,
			LongName: "subglacial water thickness", Intent: sink.ModelState,
		}); err != nil {
			return herr.New(herr.IoError, "nulltransport: define bwat: %v", err)
		}
	}
	return nil
}

func (o *TillCan) WriteVariables(names []string, s sink.Sink) error {
	for _, n := range names {
		if n != "bwat" {
			continue
		}
		if err := s.WriteVariable("bwat", o.w); err != nil {
			return herr.New(herr.IoError, "nulltransport: write bwat: %v", err)
		}
	}
	return nil
}

// GetDiagnostics registers this variant's computable diagnostics.
func (o *TillCan) GetDiagnostics(dict map[string]hydro.Diagnostic) {
	hydro.BaseDiagnostics(o, o.cfg, o.g, dict)
}
