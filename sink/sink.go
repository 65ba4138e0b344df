// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sink defines the generic output contract of spec.md §6
// ("define_variables/write_variables ... into a generic sink"). NetCDF
// I/O itself is named an out-of-scope external collaborator in §1; this
// package is the interface boundary only, grounded on the attribute
// bundle of original_source/NCVariable.hh and on the shape of gofem's own
// output package (out/out.go), which separates "what gets defined" from
// "what actually writes bytes".
package sink

import "github.com/cpmech/icehydro/grid"

// Intent classifies a variable for restart purposes, per §6.
type Intent int

const (
	ModelState Intent = iota
	Internal
	Diagnostic
)

// VarAttrs mirrors original_source/NCVariable.hh's attribute set.
type VarAttrs struct {
	ShortName string
	Units     string
	ValidMin  float64
	HasMin    bool
	LongName  string
	Intent    Intent
}

// Sink is implemented by whatever the surrounding driver uses to persist
// or export state (NetCDF file, diagnostic stream, …). The hydrology core
// only ever calls Define then Write; it never reads a Sink back — reading
// happens through the separate bootstrap path of §4.3.
type Sink interface {
	DefineVariable(attrs VarAttrs) error
	WriteVariable(name string, field *grid.Scalar2D) error
}

// Recorder is an in-memory Sink used for the round-trip test of §8
// ("Write then read: state after write(sink); init(vars_from_sink) equals
// state before write"). It is not meant for production I/O.
type Recorder struct {
	Defined map[string]VarAttrs
	Written map[string]*grid.Scalar2D
}

// NewRecorder returns an empty in-memory Sink.
func NewRecorder() *Recorder {
	return &Recorder{
		Defined: make(map[string]VarAttrs),
		Written: make(map[string]*grid.Scalar2D),
	}
}

func (r *Recorder) DefineVariable(attrs VarAttrs) error {
	r.Defined[attrs.ShortName] = attrs
	return nil
}

func (r *Recorder) WriteVariable(name string, field *grid.Scalar2D) error {
	r.Written[name] = field
	return nil
}

// Read returns the field previously written under name, for the
// bootstrap path's "(b) an input file" case (§4.3), here standing in for
// a NetCDF read.
func (r *Recorder) Read(name string) (*grid.Scalar2D, bool) {
	f, ok := r.Written[name]
	return f, ok
}
