// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/cpmech/gosl/la"

// Grid holds the Eulerian velocity and force arrays on the doubly-periodic
// Nx x Ny Cartesian grid. Arrays are stored row-major [y][x] (§9 "store grids
// in row-major [y][x] as the source does").
type Grid struct {
	Nx, Ny int
	Dx, Dy float64

	U, V   [][]float64 // velocity components
	Fx, Fy [][]float64 // accumulated spread-force components
}

// NewGrid allocates a zeroed grid with Nx x Ny cells
func NewGrid(nx, ny int) *Grid {
	return &Grid{
		Nx: nx, Ny: ny,
		Dx: 1.0 / float64(nx), Dy: 1.0 / float64(ny),
		U:  la.MatAlloc(ny, nx),
		V:  la.MatAlloc(ny, nx),
		Fx: la.MatAlloc(ny, nx),
		Fy: la.MatAlloc(ny, nx),
	}
}

// ClearForce zeroes every cell of the two force arrays (§4.7 step 2)
func (g *Grid) ClearForce() {
	la.MatFill(g.Fx, 0)
	la.MatFill(g.Fy, 0)
}

// wrapIndex reduces an index modulo n into [0,n)
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the (wrapped) grid location of cell (i,j): i is the column
// (x-direction), j is the row (y-direction)
func (g *Grid) At(i, j int) (x, y float64) {
	i = wrapIndex(i, g.Nx)
	j = wrapIndex(j, g.Ny)
	return float64(i) * g.Dx, float64(j) * g.Dy
}
