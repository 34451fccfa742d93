// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package torus

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_torus01(tst *testing.T) {

	chk.PrintTitle("torus01. VectorFrom basic cases")

	// no wrap needed
	v := VectorFrom(Point{0.2, 0.2}, Point{0.3, 0.25})
	chk.Vector(tst, "v", 1e-15, v[:], []float64{0.1, 0.05})

	// wrap in x: shortest path crosses x=0
	v = VectorFrom(Point{0.05, 0.5}, Point{0.95, 0.5})
	chk.Vector(tst, "v", 1e-15, v[:], []float64{-0.1, 0})

	// wrap in both directions
	v = VectorFrom(Point{0.02, 0.98}, Point{0.98, 0.02})
	chk.Vector(tst, "v", 1e-15, v[:], []float64{-0.04, -0.04})
}

func Test_torus02(tst *testing.T) {

	chk.PrintTitle("torus02. VectorFrom round-trip and norm bound")

	cases := []Point{
		{0, 0}, {0.001, 0.999}, {0.5, 0.5}, {0.25, 0.75}, {0.999, 0.001},
	}
	maxNorm := math.Hypot(0.5, 0.5)
	for _, a := range cases {
		for _, b := range cases {
			v := VectorFrom(a, b)
			n := math.Hypot(v[0], v[1])
			if n > maxNorm+1e-12 {
				tst.Errorf("‖vector_from‖ = %v exceeds bound %v for a=%v b=%v", n, maxNorm, a, b)
			}
			r := Add(a, v)
			if math.Abs(r[0]-Wrap(b[0])) > 1e-12 || math.Abs(r[1]-Wrap(b[1])) > 1e-12 {
				tst.Errorf("(A + vector_from(A,B)) mod 1 != B for a=%v b=%v: got %v", a, b, r)
			}
		}
	}
}

func Test_torus03(tst *testing.T) {

	chk.PrintTitle("torus03. Wrap and Reduce")

	if math.Abs(Wrap(-0.1)-0.9) > 1e-15 {
		tst.Errorf("Wrap(-0.1) should be 0.9, got %v", Wrap(-0.1))
	}
	if math.Abs(Wrap(1.3)-0.3) > 1e-15 {
		tst.Errorf("Wrap(1.3) should be 0.3, got %v", Wrap(1.3))
	}
	p := Reduce(Point{-0.25, 1.75})
	chk.Vector(tst, "p", 1e-15, p[:], []float64{0.75, 0.75})
}
