// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package yieldstress implements the basal yield-stress closure of
// spec.md §4.8: the Mohr-Coulomb-style till strength as a function of
// effective pressure, plus the piecewise-linear friction-angle helper. It
// is grounded on original_source/iMbasal.cc (computeBasalShearFromSliding
// and the friction-angle ramp) and, for its Go shape, on
// mconduct/conductmodels.go's open allocator-map registry — a future
// closure variant (e.g. a rate-dependent till law) can register under a
// new name without touching any caller.
package yieldstress

import (
	"math"

	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/herr"
	"github.com/cpmech/icehydro/mask"
)

// Closure computes the basal yield stress tau_c from overburden pressure,
// water content, and friction angle.
type Closure interface {
	Compute(po, w, wMax, phiDeg float64, grounded bool, h float64, floating bool) float64
}

// AllocatorFunc builds a Closure from its configuration, the per-variant
// constructor registered into the open registry below.
type AllocatorFunc func(cfg *config.Config) Closure

var allocators = make(map[string]AllocatorFunc)

// Register adds a closure constructor to the registry, mirroring
// mconduct.New's allocators[name] = ... pattern.
func Register(name string, fn AllocatorFunc) {
	if _, exists := allocators[name]; exists {
		herr.Abort("yieldstress", herr.New(herr.InvalidParameter, "closure %q is already registered", name))
	}
	allocators[name] = fn
}

// New returns a new Closure instance for the named variant.
func New(name string, cfg *config.Config) (Closure, error) {
	fn, ok := allocators[name]
	if !ok {
		return nil, herr.New(herr.InvalidParameter, "closure %q is not available", name)
	}
	return fn(cfg), nil
}

func init() {
	Register("mohr-coulomb", func(cfg *config.Config) Closure {
		return &mohrCoulomb{cfg: cfg}
	})
}

type mohrCoulomb struct {
	cfg *config.Config
}

func (m *mohrCoulomb) Compute(po, w, wMax, phiDeg float64, grounded bool, h float64, floating bool) float64 {
	return Compute(m.cfg, po, w, wMax, phiDeg, grounded, h, floating)
}

// Compute implements spec.md §4.8 directly:
//
//	N   = P_o - lambda*(W/W_max)*P_o
//	tau_c = c_0 + N*tan(phi)
//
// with the two special cases named in §4.8: floating cells report
// tau_c = 0; grounded cells with H = 0 report the configured sentinel
// tau_c_hi, since N is undefined (W_max degenerates) there.
func Compute(cfg *config.Config, po, w, wMax, phiDeg float64, grounded bool, h float64, floating bool) float64 {
	if floating {
		return 0
	}
	if grounded && h == 0 {
		return cfg.TauCHigh
	}
	var n float64
	if wMax > 0 {
		n = po - cfg.PressureFraction*(w/wMax)*po
	} else {
		n = po
	}
	phiRad := phiDeg * math.Pi / 180.0
	return cfg.Cohesion + n*math.Tan(phiRad)
}

// ComputeFromTillOnly is the till-can-only reading of §4.8's "or
// till-only variant Wtil with W_max_cap", supplemented from
// original_source/iMbasal.cc: when the routing variant is not in use,
// PISM derives N directly from the till-can reservoir's own Wtil and its
// configured cap (hydrology_tillwat_max), rather than from the routing
// variant's transportable W and hydrology_bwat_max.
func ComputeFromTillOnly(cfg *config.Config, po, wtil, phiDeg float64, grounded bool, h float64, floating bool) float64 {
	return Compute(cfg, po, wtil, cfg.TillwatMax, phiDeg, grounded, h, floating)
}

// FrictionAngle builds phi(i, j) as a piecewise-linear function of bed
// elevation b, per §4.8's companion helper and iMbasal.cc's five
// parameters (phi_min, phi_max, b_min, b_max, phi_ocean). Ocean cells
// (per the mask query's Ocean predicate) take the configured phi_ocean
// directly; grounded cells ramp linearly from phi_min at b <= b_min to
// phi_max at b >= b_max.
func FrictionAngle(cfg *config.Config, q mask.Query, mv mask.Value, bed float64) float64 {
	if q.Ocean(mv) {
		return cfg.PhiOcean
	}
	if bed <= cfg.BedMin {
		return cfg.PhiMin
	}
	if bed >= cfg.BedMax {
		return cfg.PhiMax
	}
	frac := (bed - cfg.BedMin) / (cfg.BedMax - cfg.BedMin)
	return cfg.PhiMin + frac*(cfg.PhiMax-cfg.PhiMin)
}
