// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substep

import (
	"math"
	"testing"

	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/coupler"
)

func TestControllerCoversWholeInterval(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaximumTimeStep = 10
	c := Begin(cfg, 0, 35)
	lim := Limits{Dx: 100, Dy: 100}
	total := 0.0
	for !c.Done() {
		dt := c.Next(lim)
		if dt <= 0 {
			t.Fatalf("non-positive sub-step: %g", dt)
		}
		c.Advance(dt)
		total += dt
	}
	if math.Abs(total-35) > 1e-9 {
		t.Fatalf("sub-steps did not sum to outer interval: got %g", total)
	}
	if c.Count() != 4 {
		t.Fatalf("expected 4 sub-steps of <=10 covering 35, got %d", c.Count())
	}
}

func TestZeroLimitsFallBackToMaxStep(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaximumTimeStep = 5
	c := Begin(cfg, 0, 5)
	dt := c.Next(Limits{Dx: 100, Dy: 100})
	if dt != 5 {
		t.Fatalf("expected dt bounded only by remaining/max step, got %g", dt)
	}
}

func TestCFLLimitBindsWhenVelocityIsLarge(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaximumTimeStep = 1e9
	c := Begin(cfg, 0, 1e9)
	// Vy = 0, so Δt_CFL = 0.5 / (Vx/dx) = 0.5*dx/Vx = 0.5*10/1.0 = 5.
	dt := c.Next(Limits{Dx: 10, Dy: 10, MaxVx: 1.0})
	if dt != 5 {
		t.Fatalf("expected CFL-bound step of 5, got %g", dt)
	}
}

func TestCFLLimitIsAnisotropic(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaximumTimeStep = 1e9
	c := Begin(cfg, 0, 1e9)
	// Δt_CFL = 0.5 / (Vx/dx + Vy/dy) = 0.5 / (1/10 + 1/10) = 2.5.
	dt := c.Next(Limits{Dx: 10, Dy: 10, MaxVx: 1.0, MaxVy: 1.0})
	if math.Abs(dt-2.5) > 1e-9 {
		t.Fatalf("expected anisotropic CFL-bound step of 2.5, got %g", dt)
	}
}

func TestDiffusiveLimitBindsWhenConductivityIsLarge(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaximumTimeStep = 1e9
	c := Begin(cfg, 0, 1e9)
	// Δt_diff = 0.25 / (D_max (1/dx^2+1/dy^2)) = 0.25 / (2.0*(1/100+1/100)) = 6.25.
	dt := c.Next(Limits{Dx: 10, Dy: 10, MaxConductivity: 2.0})
	if math.Abs(dt-6.25) > 1e-9 {
		t.Fatalf("expected diffusive-bound step of 6.25, got %g", dt)
	}
}

func TestDiffusiveLimitIsInfiniteWithZeroConductivity(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaximumTimeStep = 5
	c := Begin(cfg, 0, 5)
	// MaxConductivity=0 must fall back to the configured ceiling, not to
	// a zero or undefined step (§4.6's Inf-on-zero-limit rule).
	dt := c.Next(Limits{Dx: 10, Dy: 10, MaxConductivity: 0})
	if dt != 5 {
		t.Fatalf("expected dt bounded only by the configured ceiling, got %g", dt)
	}
}

func TestCheckCancelledReturnsRecoverableError(t *testing.T) {
	err := CheckCancelled(&coupler.Sentinels{StopRequested: true})
	if err == nil {
		t.Fatal("expected an error when stop requested")
	}
	if err := CheckCancelled(&coupler.Sentinels{}); err != nil {
		t.Fatalf("expected no error when stop not requested, got %v", err)
	}
}
