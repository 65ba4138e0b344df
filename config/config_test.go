// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/cpmech/gosl/fun/dbf"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate cleanly: %v", err)
	}
}

func TestValidateRejectsSubunityAlpha(t *testing.T) {
	c := Defaults()
	c.ThicknessPowerInFlux = 0.5
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for alpha < 1")
	}
}

func TestValidateRejectsOutOfRangeLambda(t *testing.T) {
	c := Defaults()
	c.PressureFraction = 1.5
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for lambda outside [0, 1]")
	}
}

func TestLoadOverridesNamedOption(t *testing.T) {
	prms := dbf.Params{&dbf.P{N: "hydrology_bwat_max", V: 5.0}}
	c, err := Load(prms)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.BwatMax != 5.0 {
		t.Fatalf("expected BwatMax=5, got %g", c.BwatMax)
	}
}

func TestLoadRejectsUnknownOption(t *testing.T) {
	prms := dbf.Params{&dbf.P{N: "not_a_real_option", V: 1.0}}
	if _, err := Load(prms); err == nil {
		t.Fatal("expected an error for an unrecognised option name")
	}
}

func TestLoadDefaultsRegularizationToThousandTimesK(t *testing.T) {
	prms := dbf.Params{&dbf.P{N: "hydrology_hydraulic_conductivity", V: 2.0e-2}}
	c, err := Load(prms)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := 1000.0 * 2.0e-2
	if c.ConductivityRegularization != want {
		t.Fatalf("expected regularization=%g, got %g", want, c.ConductivityRegularization)
	}
}

func TestLoadConvertsNullStripWidthFromKilometers(t *testing.T) {
	prms := dbf.Params{&dbf.P{N: "hydrology_null_strip_width", V: 2.0}}
	c, err := Load(prms)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.NullStripWidth != 2000.0 {
		t.Fatalf("expected null strip width=2000m, got %g", c.NullStripWidth)
	}
}
