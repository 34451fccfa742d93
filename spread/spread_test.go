// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spread

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
)

func Test_spread01_partition_of_unity(tst *testing.T) {

	chk.PrintTitle("spread01. stencil weights sum to 1 (property 2)")

	g := mesh.NewGrid(32, 32)
	positions := [][2]float64{
		{0.0, 0.0},
		{0.015625, 0.015625}, // midway between grid points
		{0.1, 0.37},
		{0.999, 0.999},
		{0.5, 0.03125},
	}
	for _, p := range positions {
		sum := WeightSum(g, p[0], p[1])
		chk.Scalar(tst, "weight sum", 1e-12, sum, 1)
	}
}

func Test_spread02_unit_force_total(tst *testing.T) {

	chk.PrintTitle("spread02. a unit force deposits area-integrated force dl on the grid (S5)")

	g := mesh.NewGrid(16, 16)
	dl := 1.0 / 16
	Spread(g, 0.37, 0.61, 1.0, 0.0, dl)

	// the grid holds force density: integrate it over the cell areas
	var total float64
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			total += g.Fx[j][i] * g.Dx * g.Dy
		}
	}
	chk.Scalar(tst, "total spread Fx", 1e-10, total, dl)
}

func Test_spread03_interpolate_constant_field(tst *testing.T) {

	chk.PrintTitle("spread03. interpolating a constant velocity field returns that constant")

	g := mesh.NewGrid(16, 16)
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			g.U[j][i] = 2.5
			g.V[j][i] = -1.25
		}
	}
	u, v := Interpolate(g, 0.4, 0.6)
	// the cellArea-scaled weights sum to 1 (property 2), so interpolating a
	// constant field recovers that constant (§4.4)
	chk.Scalar(tst, "interpolated u", 1e-10, u, 2.5)
	chk.Scalar(tst, "interpolated v", 1e-10, v, -1.25)
}
