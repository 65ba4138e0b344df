// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hydro defines the lifecycle contract shared by all three
// hydrology variants (spec.md §4.3) and the open registry that dispatches
// between them, mirroring gofem's ele.Element interface (ele/element.go:
// "Element defines what all elements must implement") and its allocator
// map pattern (mconduct.New / mreten.New / ele.New).
package hydro

import (
	"github.com/cpmech/icehydro/config"
	"github.com/cpmech/icehydro/coupler"
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/herr"
	"github.com/cpmech/icehydro/sink"
)

// Model is implemented by every hydrology variant (null-transport,
// routing, and the diffuse-only derivative), exactly per §4.3 and the
// component-facing API of §6.
type Model interface {
	// Init resolves shared fields and bootstraps W, per §4.3.
	Init(in *coupler.Inputs) error

	// Update advances internal state over [t_ice, t_ice+dt_ice]; it is a
	// no-op if called with identical (t, dt) as the previous successful
	// call, per §4.5's idempotent short-circuit.
	Update(tIce, dtIce float64) error

	// SubglacialWaterThickness and SubglacialWaterPressure produce the
	// quantities consumed by the yield-stress closure.
	SubglacialWaterThickness(out *grid.Scalar2D) error
	SubglacialWaterPressure(out *grid.Scalar2D) error

	// AddVarsToOutput registers this model's persisted variables with a
	// sink under the given keyword grouping (e.g. "small", "big").
	AddVarsToOutput(keyword string, s sink.Sink) error

	// DefineVariables and WriteVariables describe and emit state into a
	// generic sink, per §6.
	DefineVariables(names []string, s sink.Sink) error
	WriteVariables(names []string, s sink.Sink) error

	// GetDiagnostics registers this model's computable diagnostics into
	// dict, the role PISMHydrology::get_diagnostics /
	// PISMRoutingHydrology::get_diagnostics play in original_source/.
	GetDiagnostics(dict map[string]Diagnostic)
}

// Diagnostic is a named, on-demand computable quantity (§6 "Diagnostics").
type Diagnostic struct {
	Name    string
	Compute func() (*grid.Scalar2D, error)
}

// AllocatorFunc builds a Model from its configuration and grid, the
// per-variant constructor registered into the open registry below.
type AllocatorFunc func(cfg *config.Config, g *grid.Grid) Model

var allocators = make(map[string]AllocatorFunc)

// Register adds a variant constructor to the registry. Variant packages
// call this from an init() function, exactly as mconduct's model files do
// (see mconduct/conductmodels.go: allocators[name] = ...).
func Register(name string, fn AllocatorFunc) {
	if _, exists := allocators[name]; exists {
		herr.Abort("hydro", herr.New(herr.InvalidParameter, "hydrology variant %q is already registered", name))
	}
	allocators[name] = fn
}

// New returns a new Model instance for the named variant.
func New(name string, cfg *config.Config, g *grid.Grid) (Model, error) {
	fn, ok := allocators[name]
	if !ok {
		return nil, herr.New(herr.InvalidParameter, "hydrology variant %q is not available", name)
	}
	return fn(cfg, g), nil
}
