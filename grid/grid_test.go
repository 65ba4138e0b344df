// Copyright 2026 The Icehydro Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "testing"

func TestBlockRangeCoversWholeDomain(t *testing.T) {
	n, p := 21, 1
	start, size := blockRange(n, p, 0)
	if start != 0 || size != n {
		t.Fatalf("single-process block range: got (%d, %d), want (0, %d)", start, size, n)
	}
}

func TestNewGridSerialOwnsWholeDomain(t *testing.T) {
	g := New(11, 11, 1000, 1000, 1, 1, 1, false, false)
	if g.Xs != 0 || g.Ys != 0 || g.Xm != 11 || g.Ym != 11 {
		t.Fatalf("serial grid should own the whole 11x11 domain, got Xs=%d Ys=%d Xm=%d Ym=%d", g.Xs, g.Ys, g.Xm, g.Ym)
	}
}

func TestHaloExchangePeriodicWrapsAround(t *testing.T) {
	g := New(5, 5, 1.0, 1.0, 1, 1, 1, true, true)
	f := NewScalar2D(g, Attrs{ShortName: "test"})
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			f.Set(i, j, float64(i+10*j))
		}
	}
	g.HaloExchange(f)
	if got, want := f.At(-1, 2), f.At(4, 2); got != want {
		t.Fatalf("periodic west ghost: got %g, want %g", got, want)
	}
	if got, want := f.At(5, 2), f.At(0, 2); got != want {
		t.Fatalf("periodic east ghost: got %g, want %g", got, want)
	}
	if got, want := f.At(2, -1), f.At(2, 4); got != want {
		t.Fatalf("periodic south ghost: got %g, want %g", got, want)
	}
}

func TestAccessMutMarksFieldBorrowed(t *testing.T) {
	g := New(5, 5, 1.0, 1.0, 1, 1, 1, false, false)
	f := NewScalar2D(g, Attrs{ShortName: "test"})
	guard := f.AccessMut()
	defer guard.End()
	if !f.borrowed {
		t.Fatal("expected field to be marked borrowed after AccessMut")
	}
}
