// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydro

import (
	"github.com/cpmech/icehydro/grid"
	"github.com/cpmech/icehydro/sink"
)

// BootstrapW resolves the initial transportable water-layer thickness
// per §4.3's three-way rule: "(a) a provided variable, (b) an input file,
// or (c) a configured default constant". All three variants share this
// helper, the way PISMHydrology::init in original_source/ supplies it
// once to every subclass rather than each subclass reimplementing it.
func BootstrapW(w *grid.Scalar2D, provided *grid.Scalar2D, file sink.Sink, fileVarName string, constant float64) {
	if provided != nil {
		w.CopyFrom(provided)
		return
	}
	if file != nil {
		if rec, ok := file.(*sink.Recorder); ok {
			if f, found := rec.Read(fileVarName); found {
				w.CopyFrom(f)
				return
			}
		}
	}
	w.Fill(constant)
}
