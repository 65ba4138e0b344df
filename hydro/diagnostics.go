// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/grid"
)

// The optional capability interfaces below let BaseDiagnostics register
// only the diagnostics a given variant can actually support, the same
// capability-detection idiom gofem uses for its optional element
// behaviours (ele/element.go: WithIntVars, CanExtrapolate, CanOutputIps
// are all type-asserted against, never required by every Element).

// WithTillwat is implemented by variants that track till water.
type WithTillwat interface {
	TillWaterThickness(out *grid.Scalar2D) error
}

// WithOverburden is implemented by variants that can recompute P_o.
type WithOverburden interface {
	OverburdenPressure(out *grid.Scalar2D) error
}

// WithVelocityMagnitude is implemented by variants with a lateral flow
// field (the routing variant; not the till-can variant).
type WithVelocityMagnitude interface {
	VelocityMagnitude(out *grid.Scalar2D) error
}

// WithInputRate is implemented by variants that track a source term.
type WithInputRate interface {
	InputRate(out *grid.Scalar2D) error
}

// WithWallMelt is implemented by variants that track dissipation-driven
// melt at the conduit wall.
type WithWallMelt interface {
	WallMelt(out *grid.Scalar2D) error
}

// BaseDiagnostics registers the nine diagnostics named in spec.md §6
// (bwat, bwp, bwprel, effbwp, enwat, tillwp, wallmelt, bwatvel,
// hydroinput) into dict, skipping any a variant does not support. Note
// that spec.md §9 records a historical PISM quirk where "bwp" was defined
// twice (once in PISMHydrology.cc, once in hydrology_diagnostics.cc) with
// identical content; this implementation defines it exactly once, here.
func BaseDiagnostics(m Model, cfg *config.Config, g *grid.Grid, dict map[string]Diagnostic) {
	dict["bwat"] = Diagnostic{Name: "bwat", Compute: func() (*grid.Scalar2D, error) {
		out := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat", Units: "m", LongName: "subglacial water thickness"})
		return out, m.SubglacialWaterThickness(out)
	}}
	dict["bwp"] = Diagnostic{Name: "bwp", Compute: func() (*grid.Scalar2D, error) {
		out := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwp", Units: "Pa", LongName: "subglacial water pressure"})
		return out, m.SubglacialWaterPressure(out)
	}}

	if ob, ok := m.(WithOverburden); ok {
		dict["bwprel"] = Diagnostic{Name: "bwprel", Compute: func() (*grid.Scalar2D, error) {
			p := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwp_tmp"})
			po := grid.NewScalar2D(g, grid.Attrs{ShortName: "po_tmp"})
			if err := m.SubglacialWaterPressure(p); err != nil {
				return nil, err
			}
			if err := ob.OverburdenPressure(po); err != nil {
				return nil, err
			}
			out := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwprel", Units: "1", LongName: "relative subglacial water pressure P/P_o"})
			out.ForEachOwned(func(i, j int, _ float64) {
				poVal := po.At(i, j)
				if poVal > 0 {
					out.Set(i, j, p.At(i, j)/poVal)
				} else {
					out.Set(i, j, 0)
				}
			})
			return out, nil
		}}
		dict["effbwp"] = Diagnostic{Name: "effbwp", Compute: func() (*grid.Scalar2D, error) {
			p := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwp_tmp"})
			po := grid.NewScalar2D(g, grid.Attrs{ShortName: "po_tmp"})
			if err := m.SubglacialWaterPressure(p); err != nil {
				return nil, err
			}
			if err := ob.OverburdenPressure(po); err != nil {
				return nil, err
			}
			out := grid.NewScalar2D(g, grid.Attrs{ShortName: "effbwp", Units: "Pa", LongName: "effective pressure P_o - P"})
			out.ForEachOwned(func(i, j int, _ float64) {
				out.Set(i, j, po.At(i, j)-p.At(i, j))
			})
			return out, nil
		}}
	}

	dict["enwat"] = Diagnostic{Name: "enwat", Compute: func() (*grid.Scalar2D, error) {
		w := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat_tmp"})
		if err := m.SubglacialWaterThickness(w); err != nil {
			return nil, err
		}
		out := grid.NewScalar2D(g, grid.Attrs{ShortName: "enwat", Units: "kg", LongName: "total mass of transportable subglacial water"})
		sum := 0.0
		w.ForEachOwned(func(i, j int, v float64) {
			sum += v * cfg.FreshWaterDensity * g.Dx * g.Dy
		})
		out.Fill(sum)
		return out, nil
	}}

	if tw, ok := m.(WithTillwat); ok {
		dict["tillwp"] = Diagnostic{Name: "tillwp", Compute: func() (*grid.Scalar2D, error) {
			out := grid.NewScalar2D(g, grid.Attrs{ShortName: "tillwp", Units: "m", LongName: "till water thickness"})
			return out, tw.TillWaterThickness(out)
		}}
	}
	if wm, ok := m.(WithWallMelt); ok {
		dict["wallmelt"] = Diagnostic{Name: "wallmelt", Compute: func() (*grid.Scalar2D, error) {
			out := grid.NewScalar2D(g, grid.Attrs{ShortName: "wallmelt", Units: "m s-1", LongName: "wall melt rate from dissipation"})
			return out, wm.WallMelt(out)
		}}
	}
	if vm, ok := m.(WithVelocityMagnitude); ok {
		dict["bwatvel"] = Diagnostic{Name: "bwatvel", Compute: func() (*grid.Scalar2D, error) {
			out := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwatvel", Units: "m s-1", LongName: "advective water velocity magnitude"})
			return out, vm.VelocityMagnitude(out)
		}}
	}
	if ir, ok := m.(WithInputRate); ok {
		dict["hydroinput"] = Diagnostic{Name: "hydroinput", Compute: func() (*grid.Scalar2D, error) {
			out := grid.NewScalar2D(g, grid.Attrs{ShortName: "hydroinput", Units: "m s-1", LongName: "total water input rate"})
			return out, ir.InputRate(out)
		}}
	}
}
