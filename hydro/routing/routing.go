// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package routing implements the central mass-conserving transport
// algorithm of spec.md §4.5: nonlinear conductivity, advection+diffusion
// of the transportable water layer W on a staggered grid, embedded in the
// adaptive sub-stepping loop of §4.6 and the mass accountant of §4.7.
// It is grounded on original_source/PISMRoutingHydrology.cc's update()
// method (the thirteen-step per-sub-step procedure this file follows in
// order) and, for its Go shape, on gofem's nonlinear element update loop
// (ele/diffusion and mdl/diffusion: a per-step operator pipeline over a
// Scalar2D-like field, each stage halo-exchanged before the next reads
// its ghosts).
package routing

import (
	"math"

	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/coupler"
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/herr"
	"github.com/cpmech/icehydro/hydro"
	"github.com/cpmech/icehydro/massbalance"
	"github.com/cpmech/icehydro/sink"
	"github.com/cpmech/icehydro/stagop"
	"github.com/cpmech/icehydro/substep"
	"github.com/cpmech/icehydro/xlog"
)

func init() {
	hydro.Register("routing", func(cfg *config.Config, g *grid.Grid) hydro.Model {
		return New(cfg, g)
	})
}

// Routing implements hydro.Model: the full nonlinear advection+diffusion
// transport variant.
type Routing struct {
	cfg *config.Config
	g   *grid.Grid
	log *xlog.Logger

	w    *grid.Scalar2D // transportable water thickness
	wtil *grid.Scalar2D // till water thickness
	wnew *grid.Scalar2D // update buffer for §3/§4.5 step 9, kept apart from w
	// so the explicit update never reads an already-updated neighbor

	wstag *grid.Staggered2D
	r     *grid.Scalar2D // hydraulic head P + rho_w g b
	kstag *grid.Staggered2D
	v     *grid.Staggered2D
	qstag *grid.Staggered2D

	in  *coupler.Inputs
	acc *massbalance.Accountant

	lastT, lastDt float64
	hasLast       bool

	subStepsTaken int
	lastDtCFL     float64
	lastDtDiff    float64
	lastMaxV      float64
	lastMaxD      float64
}

// New allocates an un-initialised Routing variant.
func New(cfg *config.Config, g *grid.Grid) *Routing {
	attrs := grid.Attrs{ShortName: "bwat", Units: "m", ValidMin: 0, HasMin: true}
	return &Routing{
		cfg:   cfg,
		g:     g,
		log:   xlog.New(g.Rank),
		w:     grid.NewScalar2D(g, attrs),
		wtil:  grid.NewScalar2D(g, grid.Attrs{ShortName: "tillwat", Units: "m", ValidMin: 0, HasMin: true}),
		wnew:  grid.NewScalar2D(g, grid.Attrs{ShortName: "bwatnew", Units: "m", ValidMin: 0, HasMin: true}),
		wstag: grid.NewStaggered2D(g, grid.Attrs{ShortName: "bwatstag", Units: "m"}),
		r:     grid.NewScalar2D(g, grid.Attrs{ShortName: "hydrohead", Units: "Pa"}),
		kstag: grid.NewStaggered2D(g, grid.Attrs{ShortName: "bwatKstag"}),
		v:     grid.NewStaggered2D(g, grid.Attrs{ShortName: "bwatvelstag", Units: "m s-1"}),
		qstag: grid.NewStaggered2D(g, grid.Attrs{ShortName: "bwatQstag", Units: "m2 s-1"}),
		acc:   massbalance.New(g, cfg),
	}
}

// Init resolves borrowed fields and bootstraps W and Wtil per §4.3.
func (o *Routing) Init(in *coupler.Inputs) error {
	if in.Thickness == nil || in.BedElev == nil || in.Mask == nil {
		return herr.New(herr.MissingInput, "routing: thickness, bed elevation and mask are required")
	}
	o.in = in
	hydro.BootstrapW(o.w, nil, nil, "bwat", 0)
	hydro.BootstrapW(o.wtil, nil, nil, "tillwat", o.cfg.TillwatMax)
	return nil
}

// Update advances the routing variant across [tIce, tIce+dtIce] by
// repeatedly sub-stepping until the interval is covered, per §4.5/§4.6.
func (o *Routing) Update(tIce, dtIce float64) error {
	if o.hasLast && sameStep(o.lastT, o.lastDt, tIce, dtIce) {
		return nil // idempotent replay, §4.5's short-circuit
	}
	o.acc.Reset()
	o.subStepsTaken = 0

	ctrl := substep.Begin(o.cfg, tIce, dtIce)
	tCur := tIce
	for !ctrl.Done() {
		maxKW := o.prepareStagedFields()
		maxVx, maxVy := o.maxVelocityComponents()
		h := ctrl.Next(substep.Limits{
			MaxVx:           maxVx,
			MaxVy:           maxVy,
			MaxConductivity: maxKW,
			Dx:              o.g.Dx,
			Dy:              o.g.Dy,
		})
		if h <= 0 {
			return herr.New(herr.InvalidState, "routing: non-positive sub-step computed at t=%g", tCur)
		}
		o.advectiveFluxes()
		o.rawUpdateW(h)             // step 9: Wnew from old W, via o.wnew
		o.acc.Apply(o.wnew, o.in, h) // step 10: boundary_mass_changes(Wnew)
		o.w.CopyFrom(o.wnew)
		o.g.HaloExchange(o.w) // step 11: halo_exchange(Wnew -> W)
		o.tillTransfer(dtIce)

		ctrl.Advance(h)
		o.subStepsTaken = ctrl.Count()
		tCur += h
	}
	if o.cfg.Verbosity >= 2 {
		o.log.Infof("routing: %d sub-steps over [%g, %g)", o.subStepsTaken, tIce, tIce+dtIce)
	}
	o.lastT, o.lastDt, o.hasLast = tIce, dtIce, true
	return nil
}

// prepareStagedFields performs §4.5 steps 1-5: halo-exchange W, average
// it to the staggered grid, compute the hydraulic head R, the staggered
// conductivity Kstag, and the staggered velocity V. It returns maxKW, the rho_w g K Wstag
// diffusivity bound used by the adaptive controller's diffusive limit.
func (o *Routing) prepareStagedFields() float64 {
	o.g.HaloExchange(o.w) // step 1
	stagop.AverageToStaggered(o.w, o.wstag)
	o.g.HaloExchangeStaggered(o.wstag) // step 2

	o.computeHydraulicHead() // step 3, leaves R with valid ghosts via halo below
	o.g.HaloExchange(o.r)

	maxKW := o.conductivityStaggered() // step 4
	o.g.HaloExchangeStaggered(o.kstag)

	o.velocityStaggered() // step 5
	return maxKW
}

// computeHydraulicHead sets R = P + rho_w g b = lambda*P_o + rho_w g b.
func (o *Routing) computeHydraulicHead() {
	o.r.ForEachOwned(func(i, j int, _ float64) {
		po := o.cfg.IceDensity * o.cfg.StandardGravity * o.in.Thickness.At(i, j)
		p := o.cfg.PressureFraction * po
		b := o.in.BedElev.At(i, j)
		o.r.Set(i, j, p+o.cfg.FreshWaterDensity*o.cfg.StandardGravity*b)
	})
}

// conductivityStaggered implements §4.5 step 4, including the beta=2
// fast path and the |grad R|^2 = 0 regularization rule. It aborts with
// InvalidParameter if alpha < 1 (config.Validate already rejects this at
// load time, but the check is repeated here per §4.8's failure model,
// which names "alpha < 1" as a fatal condition the computation itself
// must guard). The returned maxKW is D_max = max(rho_w g Kstag Wstag), the
// diffusivity bound §4.5 step 7 and substep.Limits.MaxConductivity both
// name (D = rho_w g K W, §4.5's per-step procedure) — not the bare K*Wstag
// product, which is missing the rho_w g factor and would understate the
// true diffusive stability bound by that factor.
func (o *Routing) conductivityStaggered() (maxKW float64) {
	alpha := o.cfg.ThicknessPowerInFlux
	beta := o.cfg.PotentialGradientPowerInFlux
	k := o.cfg.HydraulicConductivity
	rhoWg := o.cfg.FreshWaterDensity * o.cfg.StandardGravity
	if alpha < 1 {
		herr.Abort("routing", herr.New(herr.InvalidParameter, "thickness power in flux (alpha) must be >= 1, got %g", alpha))
	}

	o.w.ForEachOwned(func(i, j int, _ float64) {
		for _, o2 := range [2]grid.Edge{grid.East, grid.North} {
			ws := o.wstag.At(i, j, o2)
			var kv float64
			if beta == 2 {
				kv = k * math.Pow(ws, alpha-1)
			} else {
				dRdx, dRdy := stagop.MahaffyGradient(o.r, i, j, o2, o.g.Dx, o.g.Dy)
				gradR2 := dRdx*dRdx + dRdy*dRdy
				if gradR2 == 0 && beta < 2 {
					kv = o.cfg.ConductivityRegularization
				} else {
					kv = k * math.Pow(ws, alpha-1) * math.Pow(gradR2, (beta-2)/2)
				}
			}
			o.kstag.Set(i, j, o2, kv)
			d := rhoWg * kv * ws
			if d > maxKW {
				maxKW = d
			}
		}
	})
	return maxKW
}

// velocityStaggered implements §4.5 step 5. R already carries P + rho_w
// g b (see computeHydraulicHead), so V = -K grad(R) matches
// V = -K(grad P + rho_w g grad b) directly.
func (o *Routing) velocityStaggered() {
	o.w.ForEachOwned(func(i, j int, _ float64) {
		for _, o2 := range [2]grid.Edge{grid.East, grid.North} {
			ws := o.wstag.At(i, j, o2)
			if ws == 0 {
				o.v.Set(i, j, o2, 0)
				continue
			}
			dRdx, dRdy := stagop.MahaffyGradient(o.r, i, j, o2, o.g.Dx, o.g.Dy)
			var vv float64
			if o2 == grid.East {
				vv = -o.kstag.At(i, j, o2) * dRdx
			} else {
				vv = -o.kstag.At(i, j, o2) * dRdy
			}
			if o.touchesNullStrip(i, j, o2) {
				vv = 0
			}
			o.v.Set(i, j, o2, vv)
		}
	})
}

// touchesNullStrip reports whether the given edge of cell (i, j) borders
// the configured null strip, per §4.5 step 5's "force V to zero at edges
// that touch the null strip".
func (o *Routing) touchesNullStrip(i, j int, e grid.Edge) bool {
	width := o.cfg.NullStripWidth
	if o.g.InNullStrip(i, j, width) {
		return true
	}
	if e == grid.East {
		return o.g.InNullStrip(i+1, j, width)
	}
	return o.g.InNullStrip(i, j+1, width)
}

// advectiveFluxes implements §4.5 step 6: first-order upwinding.
func (o *Routing) advectiveFluxes() {
	o.w.ForEachOwned(func(i, j int, wc float64) {
		ve := o.v.At(i, j, grid.East)
		var qe float64
		if ve >= 0 {
			qe = ve * wc
		} else {
			qe = ve * o.w.At(i+1, j)
		}
		o.qstag.Set(i, j, grid.East, qe)

		vn := o.v.At(i, j, grid.North)
		var qn float64
		if vn >= 0 {
			qn = vn * wc
		} else {
			qn = vn * o.w.At(i, j+1)
		}
		o.qstag.Set(i, j, grid.North, qn)
	})
	o.g.HaloExchangeStaggered(o.qstag)
}

// maxVelocityComponents returns the local component-wise max |V_x|, |V_y|
// over owned staggered edges, used by the adaptive controller's
// anisotropic CFL bound (§4.5 step 7: 0.5/(|V|_x/dx + |V|_y/dy), which
// keeps the x- and y- velocity maxima separate rather than combining them
// into one magnitude).
func (o *Routing) maxVelocityComponents() (maxVx, maxVy float64) {
	o.w.ForEachOwned(func(i, j int, _ float64) {
		ve := math.Abs(o.v.At(i, j, grid.East))
		vn := math.Abs(o.v.At(i, j, grid.North))
		if ve > maxVx {
			maxVx = ve
		}
		if vn > maxVy {
			maxVy = vn
		}
	})
	return
}

// rawUpdateW implements §4.5 step 9: the explicit update combining
// advective divergence and nonlinear diffusion. It reads only from o.w
// (untouched during this sweep) and writes into o.wnew, the update buffer
// named in §3 ("Wnew, Pnew: update buffers") — this keeps the explicit
// scheme from reading an already-updated neighbor mid-sweep, the same
// separation hydro/nulltransport/diffuse.go's diffuseOnce keeps between
// o.w and its own next buffer.
func (o *Routing) rawUpdateW(h float64) {
	dx, dy := o.g.Dx, o.g.Dy
	rhoWg := o.cfg.FreshWaterDensity * o.cfg.StandardGravity
	o.w.ForEachOwned(func(i, j int, wc float64) {
		divQ := stagop.Divergence(o.qstag, i, j, dx, dy)

		de := rhoWg * o.kstag.At(i, j, grid.East) * o.wstag.At(i, j, grid.East)
		dw := rhoWg * o.kstag.At(i-1, j, grid.East) * o.wstag.At(i-1, j, grid.East)
		dn := rhoWg * o.kstag.At(i, j, grid.North) * o.wstag.At(i, j, grid.North)
		ds := rhoWg * o.kstag.At(i, j-1, grid.North) * o.wstag.At(i, j-1, grid.North)

		we, ww := o.w.At(i+1, j), o.w.At(i-1, j)
		wn, ws := o.w.At(i, j+1), o.w.At(i, j-1)

		diffW := (de*(we-wc)-dw*(wc-ww))/(dx*dx) + (dn*(wn-wc)-ds*(wc-ws))/(dy*dy)

		input := o.inputAt(i, j)
		o.wnew.Set(i, j, wc+h*(-divQ+diffW+input))
	})
}

// inputAt returns the source term s of §4.5's PDE: the configured basal
// melt rate cropped to icy cells, or the configured constant override.
func (o *Routing) inputAt(i, j int) float64 {
	q := massbalance.MaskQuery(o.cfg)
	if !q.Icy(o.in.Mask.At(i, j)) {
		return 0
	}
	if o.cfg.UseConstBmelt {
		return o.cfg.ConstBmelt
	}
	return o.in.BasalMelt.At(i, j)
}

// tillTransfer implements §4.5 step 12. It uses dtIce (the outer ice
// time step), not the hydrology sub-step h, as §9 explicitly flags: PISM
// derives the implicit coefficient from the outer step even though this
// routine runs once per hydrology sub-step.
func (o *Routing) tillTransfer(dtIce float64) {
	mu := o.cfg.TillwatRate
	tau := o.cfg.TillwatTransferCoefficient
	wtilMax := o.cfg.TillwatMax
	o.wtil.ForEachOwned(func(i, j int, wtil float64) {
		w := o.w.At(i, j)
		change := mu * math.Min(tau*w, wtilMax)
		wtilNew := (wtil + dtIce*change) / (1 + mu*dtIce)
		o.w.Set(i, j, w-(wtilNew-wtil))
		o.wtil.Set(i, j, wtilNew)
	})
}

func sameStep(t0, dt0, t1, dt1 float64) bool {
	const eps = 1e-12
	return math.Abs(t0-t1) < eps && math.Abs(dt0-dt1) < eps
}

// SubglacialWaterThickness copies W into out.
func (o *Routing) SubglacialWaterThickness(out *grid.Scalar2D) error {
	out.CopyFrom(o.w)
	return nil
}

// SubglacialWaterPressure reports P = lambda * P_o.
func (o *Routing) SubglacialWaterPressure(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		po := o.cfg.IceDensity * o.cfg.StandardGravity * o.in.Thickness.At(i, j)
		out.Set(i, j, o.cfg.PressureFraction*po)
	})
	return nil
}

// OverburdenPressure implements hydro.WithOverburden.
func (o *Routing) OverburdenPressure(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		out.Set(i, j, o.cfg.IceDensity*o.cfg.StandardGravity*o.in.Thickness.At(i, j))
	})
	return nil
}

// TillWaterThickness implements hydro.WithTillwat.
func (o *Routing) TillWaterThickness(out *grid.Scalar2D) error {
	out.CopyFrom(o.wtil)
	return nil
}

// VelocityMagnitude implements hydro.WithVelocityMagnitude, reporting
// the cell-centered magnitude averaged from the two staggered edges.
func (o *Routing) VelocityMagnitude(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		ve := 0.5 * (o.v.At(i, j, grid.East) + o.v.At(i-1, j, grid.East))
		vn := 0.5 * (o.v.At(i, j, grid.North) + o.v.At(i, j-1, grid.North))
		out.Set(i, j, math.Hypot(ve, vn))
	})
	return nil
}

// WallMelt implements hydro.WithWallMelt: the dissipation-driven melt rate
// at the conduit wall, a diagnostic-only quantity (it feeds back into no
// update rule here) supplemented from
// original_source/PISMRoutingHydrology.cc's wall_melt, which is not named
// in spec.md's component design but is one of the nine diagnostics §6
// lists by name. It recomputes R fresh (P + rho_w g b) rather than reusing
// the routing variant's internal r workspace, matching the source's own
// "yes, it updates ghosts" comment that wall_melt owns its own R.
func (o *Routing) WallMelt(out *grid.Scalar2D) error {
	k := o.cfg.HydraulicConductivity
	alpha := o.cfg.ThicknessPowerInFlux
	beta := o.cfg.PotentialGradientPowerInFlux
	cc := k / (o.cfg.WaterLatentHeatFusion * o.cfg.FreshWaterDensity)

	r := grid.NewScalar2D(o.g, grid.Attrs{ShortName: "wallmelt_r_tmp"})
	r.ForEachOwned(func(i, j int, _ float64) {
		po := o.cfg.IceDensity * o.cfg.StandardGravity * o.in.Thickness.At(i, j)
		p := o.cfg.PressureFraction * po
		b := o.in.BedElev.At(i, j)
		r.Set(i, j, p+o.cfg.FreshWaterDensity*o.cfg.StandardGravity*b)
	})
	o.g.HaloExchange(r)

	out.ForEachOwned(func(i, j int, _ float64) {
		w := o.w.At(i, j)
		if w <= 0 {
			out.Set(i, j, 0)
			return
		}
		dRdx, dRdy := centeredGradientWherePresent(o.w, r, i, j, o.g.Dx, o.g.Dy)
		grad2 := dRdx*dRdx + dRdy*dRdy
		out.Set(i, j, cc*math.Pow(w, alpha)*math.Pow(grad2, beta/2.0))
	})
	return nil
}

// centeredGradientWherePresent implements the one-sided/centered blend
// original_source/PISMRoutingHydrology.cc's wall_melt uses: each half of a
// centered difference only contributes if the water layer is present on
// that side, since a dry neighbor has no well-defined hydraulic head
// gradient contribution to the dissipation estimate.
func centeredGradientWherePresent(w, r *grid.Scalar2D, i, j int, dx, dy float64) (dRdx, dRdy float64) {
	if w.At(i+1, j) > 0 {
		dRdx += (r.At(i+1, j) - r.At(i, j)) / (2 * dx)
	}
	if w.At(i-1, j) > 0 {
		dRdx += (r.At(i, j) - r.At(i-1, j)) / (2 * dx)
	}
	if w.At(i, j+1) > 0 {
		dRdy += (r.At(i, j+1) - r.At(i, j)) / (2 * dy)
	}
	if w.At(i, j-1) > 0 {
		dRdy += (r.At(i, j) - r.At(i, j-1)) / (2 * dy)
	}
	return
}

// InputRate implements hydro.WithInputRate.
func (o *Routing) InputRate(out *grid.Scalar2D) error {
	out.ForEachOwned(func(i, j int, _ float64) {
		out.Set(i, j, o.inputAt(i, j))
	})
	return nil
}

// AddVarsToOutput, DefineVariables and WriteVariables implement the
// generic sink contract of §6.
func (o *Routing) AddVarsToOutput(keyword string, s sink.Sink) error {
	return o.DefineVariables([]string{"bwat", "tillwat"}, s)
}

func (o *Routing) DefineVariables(names []string, s sink.Sink) error {
	for _, n := range names {
		var attrs sink.VarAttrs
		switch n {
		case "bwat":
			attrs = sink.VarAttrs{ShortName: "bwat", Units: "m", ValidMin: 0, HasMin: true, LongName: "subglacial water thickness", Intent: sink.ModelState}
		case "tillwat":
			attrs = sink.VarAttrs{ShortName: "tillwat", Units: "m", ValidMin: 0, HasMin: true, LongName: "till water thickness", Intent: sink.ModelState}
		default:
			continue
		}
		if err := s.DefineVariable(attrs); err != nil {
			return herr.New(herr.IoError, "routing: define %q: %v", n, err)
		}
	}
	return nil
}

func (o *Routing) WriteVariables(names []string, s sink.Sink) error {
	for _, n := range names {
		var f *grid.Scalar2D
		switch n {
		case "bwat":
			f = o.w
		case "tillwat":
			f = o.wtil
		default:
			continue
		}
		if err := s.WriteVariable(n, f); err != nil {
			return herr.New(herr.IoError, "routing: write %q: %v", n, err)
		}
	}
	return nil
}

// GetDiagnostics registers this variant's computable diagnostics.
func (o *Routing) GetDiagnostics(dict map[string]hydro.Diagnostic) {
	hydro.BaseDiagnostics(o, o.cfg, o.g, dict)
}
