// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nulltransport

import (
	"testing"
)

func TestDiffuseSmoothsASingleSpike(t *testing.T) {
	g, cfg, in := newTestSetup(t)
	cfg.UseConstBmelt = true
	cfg.ConstBmelt = 0
	cfg.BwatDecayRate = 0
	cfg.BwatMax = 100
	cfg.DiffusionDistance = 500
	cfg.DiffusionTime = 1.0e6

	o := NewDiffuse(cfg, g)
	if err := o.Init(in); err != nil {
		t.Fatalf("init: %v", err)
	}
	o.w.Set(3, 3, 10.0)

	if err := o.Update(0, 1.0e5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v := o.w.At(3, 3); v >= 10.0 {
		t.Fatalf("expected the spike to relax downward, got %g", v)
	}
	if v := o.w.At(2, 3); v <= 0 {
		t.Fatalf("expected a neighbor to pick up some diffused water, got %g", v)
	}
}

func TestDiffuseSubstepsOnStabilityViolation(t *testing.T) {
	g, cfg, in := newTestSetup(t)
	cfg.DiffusionDistance = 500
	cfg.DiffusionTime = 1 // tiny T => huge K => tiny stability limit
	cfg.Verbosity = 2

	o := NewDiffuse(cfg, g)
	o.Init(in)
	k := o.diffusivity()
	limit := o.stabilityLimit(k)
	dt := limit * 10 // force multiple sub-steps

	if err := o.Update(0, dt); err != nil {
		t.Fatalf("update with forced sub-stepping: %v", err)
	}
}
