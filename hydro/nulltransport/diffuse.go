// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nulltransport

import (
	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/hydro"
	"github.com/cpmech/icehydro/xlog"
)

func init() {
	hydro.Register("diffuse", func(cfg *config.Config, g *grid.Grid) hydro.Model {
		return NewDiffuse(cfg, g)
	})
}

// Diffuse is the "diffuse-only" derivative of the till-can variant named
// in spec.md §4.4: it shares the till-can's reservoir update and then
// applies an explicit linear-diffusion step to W, sub-stepping internally
// whenever the outer step would violate the explicit-diffusion stability
// limit. The diffusivity K is chosen so the fundamental solution of the
// diffusion equation has standard deviation L after time T:
// K = L^2 / (2T).
type Diffuse struct {
	*TillCan
	log *xlog.Logger
}

// NewDiffuse allocates an un-initialised diffuse-only variant.
func NewDiffuse(cfg *config.Config, g *grid.Grid) *Diffuse {
	return &Diffuse{TillCan: New(cfg, g), log: &xlog.Logger{Level: xlog.Level(cfg.Verbosity), Rank: g.Rank}}
}

// diffusivity implements K = L^2 / (2T) from the configured distance and
// time scales.
func (o *Diffuse) diffusivity() float64 {
	if o.cfg.DiffusionTime <= 0 {
		return 0
	}
	return (o.cfg.DiffusionDistance * o.cfg.DiffusionDistance) / (2 * o.cfg.DiffusionTime)
}

// stabilityLimit returns (2K(1/dx^2+1/dy^2))^-1, the bound named in
// §4.4 on the largest stable explicit diffusion step.
func (o *Diffuse) stabilityLimit(k float64) float64 {
	if k <= 0 {
		return 0
	}
	dx, dy := o.g.Dx, o.g.Dy
	return 1.0 / (2.0 * k * (1.0/(dx*dx) + 1.0/(dy*dy)))
}

// Update runs the till-can reservoir update, then the diffusion stage,
// internally sub-stepping the latter whenever dtIce exceeds the
// stability limit. A warning is emitted on sub-stepping since it is
// expected to be rare (§4.4).
func (o *Diffuse) Update(tIce, dtIce float64) error {
	if o.hasLast && sameStep(o.lastT, o.lastDt, tIce, dtIce) {
		return nil
	}
	o.eulerStep(dtIce)

	k := o.diffusivity()
	if k > 0 {
		limit := o.stabilityLimit(k)
		nSteps := 1
		dtSub := dtIce
		if limit > 0 && dtIce > limit {
			nSteps = int(dtIce/limit) + 1
			dtSub = dtIce / float64(nSteps)
			if o.cfg.Verbosity >= 2 {
				o.log.Warnf("diffuse: sub-stepping %d times this update (dt=%g exceeds stability limit %g)", nSteps, dtIce, limit)
			}
		}
		for s := 0; s < nSteps; s++ {
			o.g.HaloExchange(o.w)
			o.diffuseOnce(k, dtSub)
		}
	}

	o.acc.Apply(o.w, o.in, dtIce)
	o.lastT, o.lastDt, o.hasLast = tIce, dtIce, true
	return nil
}

// diffuseOnce applies one explicit five-point-stencil diffusion step:
// W += dt * K * Laplacian(W).
func (o *Diffuse) diffuseOnce(k, dt float64) {
	dx, dy := o.g.Dx, o.g.Dy
	next := grid.NewScalar2D(o.g, o.w.Attrs)
	o.w.ForEachOwned(func(i, j int, wc float64) {
		lap := (o.w.At(i+1, j) - 2*wc + o.w.At(i-1, j)) / (dx * dx)
		lap += (o.w.At(i, j+1) - 2*wc + o.w.At(i, j-1)) / (dy * dy)
		next.Set(i, j, wc+dt*k*lap)
	})
	next.ForEachOwned(func(i, j int, v float64) {
		o.w.Set(i, j, v)
	})
}
