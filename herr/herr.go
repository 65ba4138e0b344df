// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package herr implements the error taxonomy used throughout the
// subglacial hydrology core: a small set of kinds (not Go types) that
// tell the caller whether a condition is recoverable or fatal.
package herr

import (
	"fmt"
	"os"
)

// Kind classifies an error without introducing a new Go type per condition.
type Kind int

// recognised kinds
const (
	InvalidParameter Kind = iota // a configuration constant is out of range
	InvalidState                // a field violates an invariant
	MissingInput                // a variable that Init needs was not published
	IoError                     // a sink read/write failed
	Cancelled                   // the graceful-stop sentinel was observed
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "InvalidParameter"
	case InvalidState:
		return "InvalidState"
	case MissingInput:
		return "MissingInput"
	case IoError:
		return "IoError"
	case Cancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Error is the concrete error value carried by every function in this
// module that can fail. HasCell is set when the condition is local to a
// grid cell, matching the "(i, j) = (…, …)" diagnostic format of §7.
type Error struct {
	Kind    Kind
	Msg     string
	HasCell bool
	I, J    int
}

func (e *Error) Error() string {
	if e.HasCell {
		return fmt.Sprintf("%s: %s at (i, j) = (%d, %d)", e.Kind, e.Msg, e.I, e.J)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New returns a *Error of the given kind, formatted like fmt.Errorf.
func New(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// NewAt is like New but records the offending cell.
func NewAt(kind Kind, i, j int, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...), HasCell: true, I: i, J: j}
}

// IsRecoverable reports whether err's kind is surfaced upward (Cancelled,
// IoError) rather than being fatal, per §7's propagation policy.
func IsRecoverable(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == Cancelled || e.Kind == IoError
}

// IsCancelled reports whether err wraps a Cancelled condition.
func IsCancelled(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == Cancelled
}

// exitFunc is the process-exit hook Abort calls; it is a variable so that
// code in this package can replace it.
var exitFunc = os.Exit

// Abort prints the fatal diagnostic line mandated by §7 and terminates the
// process. Only InvalidParameter, InvalidState, and MissingInput conditions
// are expected to reach here; Cancelled and IoError are recoverable and
// must be returned to the caller instead.
func Abort(component string, err *Error) {
	if err.HasCell {
		fmt.Fprintf(os.Stderr, "%s ERROR: %s at (i, j) = (%d, %d) — ENDING\n", component, err.Msg, err.I, err.J)
	} else {
		fmt.Fprintf(os.Stderr, "%s ERROR: %s — ENDING\n", component, err.Msg)
	}
	exitFunc(1)
}
