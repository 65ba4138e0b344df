// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package xlog provides the leveled, color-coded progress messages used
// across the hydrology core, in the same spirit as gosl/io's Pf family
// gated by gofem's Global.Verbose/Global.ShowMsg booleans.
package xlog

import "github.com/cpmech/gosl/io"

// Level controls which messages reach the terminal.
type Level int

const (
	Silent Level = iota
	Info
	Warn  // warnings emitted at verbosity >= 2, per §7
	Debug
)

// Logger gates messages by level and rank: only rank 0 prints, matching
// gofem's ShowMsg = Verbose && proc == 0 convention.
type Logger struct {
	Level Level
	Rank  int
}

// New returns a Logger for the given rank, defaulting to Info level.
func New(rank int) *Logger {
	return &Logger{Level: Info, Rank: rank}
}

func (l *Logger) show() bool { return l.Rank == 0 }

// Infof prints a plain informational line.
func (l *Logger) Infof(format string, a ...interface{}) {
	if l.Level >= Info && l.show() {
		io.Pf(format+"\n", a...)
	}
}

// Warnf prints a warning; per §7 this never interrupts execution.
func (l *Logger) Warnf(format string, a ...interface{}) {
	if l.Level >= Warn && l.show() {
		io.Pfyel("WARNING: "+format+"\n", a...)
	}
}

// Debugf prints a verbose trace line.
func (l *Logger) Debugf(format string, a ...interface{}) {
	if l.Level >= Debug && l.show() {
		io.Pfcyan(format+"\n", a...)
	}
}

// Errf prints a red error line without aborting (used for recoverable
// errors surfaced to the driver, as opposed to herr.Abort's fatal path).
func (l *Logger) Errf(format string, a ...interface{}) {
	if l.show() {
		io.Pfred(format+"\n", a...)
	}
}
