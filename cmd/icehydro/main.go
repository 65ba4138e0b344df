// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// icehydro is a thin smoke-test driver for the subglacial hydrology
// core. It is not the outer ice-dynamics driver named in spec.md §1; it
// only wires the core's pieces into a toy outer time loop so the whole
// pipeline can be exercised end to end without a real thermomechanical
// solver. Grounded on fem/main.go's shape: mpi.Start/mpi.Stop bracketing
// the run, rank-0-only banner and progress messages.
package main

import (
	"flag"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/coupler"
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/herr"
	"github.com/cpmech/icehydro/hydro"
	_ "github.com/cpmech/icehydro/hydro/nulltransport"
	_ "github.com/cpmech/icehydro/hydro/routing"
	"github.com/cpmech/icehydro/mask"
	"github.com/cpmech/icehydro/substep"
	"github.com/cpmech/icehydro/yieldstress"
)

const secondsPerYear = 365.0 * 24.0 * 3600.0

func main() {
	defer mpi.Stop(false)
	mpi.Start(false)

	variant := flag.String("variant", "routing", "hydrology variant: routing, nulltransport, or diffuse")
	years := flag.Float64("y", 1.0, "run length in years")
	mx := flag.Int("mx", 41, "number of grid points in x")
	my := flag.Int("my", 41, "number of grid points in y")
	flag.Parse()

	if mpi.Rank() == 0 {
		io.PfWhite("\nicehydro -- subglacial hydrology core smoke driver\n\n")
	}

	if err := run(*variant, *years, *mx, *my); err != nil {
		if e, ok := err.(*herr.Error); ok {
			herr.Abort("icehydro", e)
		}
		if mpi.Rank() == 0 {
			io.Pfred("ERROR: %v\n", err)
		}
	}
}

func run(variant string, years float64, mx, my int) error {
	cfg := config.Defaults()
	g := grid.New(mx, my, 1000, 1000, 1, 1, 1, false, false)

	model, err := hydro.New(variant, cfg, g)
	if err != nil {
		return err
	}

	thickness := grid.NewScalar2D(g, grid.Attrs{ShortName: "thk", Units: "m"})
	thickness.Fill(1000)
	bed := grid.NewScalar2D(g, grid.Attrs{ShortName: "topg", Units: "m"})
	bed.Fill(0)
	basalMelt := grid.NewScalar2D(g, grid.Attrs{ShortName: "bmelt", Units: "m s-1"})
	basalMelt.Fill(1.0e-10)
	m := mask.NewField(g)
	m.ForEachOwned(func(i, j int, _ mask.Value) { m.Set(i, j, mask.GroundedIce) })

	in := &coupler.Inputs{Thickness: thickness, BedElev: bed, BasalMelt: basalMelt, Mask: m}
	if err := model.Init(in); err != nil {
		return err
	}

	closure, err := yieldstress.New("mohr-coulomb", cfg)
	if err != nil {
		return err
	}

	sentinels := &coupler.Sentinels{}
	outerDt := secondsPerYear // one outer ice-dynamics step per year
	tEnd := years * secondsPerYear
	t := 0.0
	for t < tEnd {
		dt := outerDt
		if t+dt > tEnd {
			dt = tEnd - t
		}
		if err := model.Update(t, dt); err != nil {
			return err
		}
		if err := substep.CheckCancelled(sentinels); err != nil {
			if herr.IsCancelled(err) {
				break
			}
			return err
		}
		t += dt
	}

	w := grid.NewScalar2D(g, grid.Attrs{ShortName: "bwat"})
	if err := model.SubglacialWaterThickness(w); err != nil {
		return err
	}
	tau := yieldstressAt(closure, cfg, g, in, w)

	if mpi.Rank() == 0 {
		io.Pf("ran %g years, final bwat(center)=%g m, tau_c(center)=%g Pa\n",
			years, w.At(mx/2, my/2), tau)
	}
	return nil
}

func yieldstressAt(closure yieldstress.Closure, cfg *config.Config, g *grid.Grid, in *coupler.Inputs, w *grid.Scalar2D) float64 {
	i, j := g.Mx/2, g.My/2
	h := in.Thickness.At(i, j)
	po := cfg.IceDensity * cfg.StandardGravity * h
	mv := in.Mask.At(i, j)
	q := mask.Query{OceanIncludesFloating: cfg.OceanIncludesFloating}
	floating := mv == mask.FloatingIce
	grounded := q.Grounded(mv)
	return closure.Compute(po, w.At(i, j), cfg.BwatMax, cfg.DefaultFrictionAngle, grounded, h, floating)
}
