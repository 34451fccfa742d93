// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package spread implements the single regularised delta-function kernel
// shared by force-spreading (Lagrangian node -> Eulerian grid) and velocity
// interpolation (Eulerian grid -> Lagrangian node), §4.4.
package spread

import (
	"math"

	"github.com/martinjrobins/ImmersedBoundary/mesh"
)

// stencilWidth is the fixed 4x4 footprint every spread/interpolate call
// touches around a node (§4.4)
const stencilWidth = 4

// Kernel evaluates the regularised delta function
// phi(|d|,h) = (1/(4h))*(1+cos(pi*|d|/(2h))) for |d| <= 2h, else 0 (§4.4)
func Kernel(d, h float64) float64 {
	ad := math.Abs(d)
	if ad > 2*h {
		return 0
	}
	return (1.0 / (4.0 * h)) * (1 + math.Cos(math.Pi*ad/(2*h)))
}

// lowerLeftCorner returns the stencil's anchor indices (i0,j0) for a node at
// (x,y): (floor(x/dx)-1, floor(y/dy)-1) per §4.4, unwrapped (may be negative
// or >= Nx/Ny; callers wrap each stencil index modulo the grid dimensions).
func lowerLeftCorner(x, y, dx, dy float64) (i0, j0 int) {
	i0 = int(math.Floor(x/dx)) - 1
	j0 = int(math.Floor(y/dy)) - 1
	return
}

// eachStencilPoint calls visit(i, j, wx, wy) for each of the 4x4 stencil
// points around (x,y), where (i,j) are the wrapped grid indices and wx, wy
// are the per-axis kernel weights (their product is the full 2-D weight)
func eachStencilPoint(g *mesh.Grid, x, y float64, visit func(i, j int, wx, wy float64)) {
	i0, j0 := lowerLeftCorner(x, y, g.Dx, g.Dy)
	for b := 0; b < stencilWidth; b++ {
		gy := float64(j0+b) * g.Dy
		wy := Kernel(y-gy, g.Dy)
		j := wrapIndex(j0+b, g.Ny)
		for a := 0; a < stencilWidth; a++ {
			gx := float64(i0+a) * g.Dx
			wx := Kernel(x-gx, g.Dx)
			i := wrapIndex(i0+a, g.Nx)
			visit(i, j, wx, wy)
		}
	}
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Spread adds the node's force (fx, fy), weighted by the kernel and the
// mesh's characteristic node spacing dl, into the grid's force arrays
// (§4.4 "Spread (force -> grid)").
func Spread(g *mesh.Grid, x, y, fx, fy, dl float64) {
	eachStencilPoint(g, x, y, func(i, j int, wx, wy float64) {
		w := wx * wy
		g.Fx[j][i] += fx * w * dl
		g.Fy[j][i] += fy * w * dl
	})
}

// Interpolate returns the velocity at (x, y), area-weighted from the grid's
// velocity arrays with the same 4x4 stencil as Spread, but with dl replaced
// by Dx*Dy (§4.4 "Interpolate (grid -> node velocity)").
func Interpolate(g *mesh.Grid, x, y float64) (u, v float64) {
	cellArea := g.Dx * g.Dy
	eachStencilPoint(g, x, y, func(i, j int, wx, wy float64) {
		w := wx * wy
		u += g.U[j][i] * w * cellArea
		v += g.V[j][i] * w * cellArea
	})
	return
}

// WeightSum returns the sum of the 4x4 stencil's 2-D weights at (x, y),
// each weight being the kernel product scaled by the cell area Dx*Dy (the
// weights Interpolate applies); testable property 2 requires this to equal
// 1 to <= 1e-12 for any node position (partition of unity).
func WeightSum(g *mesh.Grid, x, y float64) float64 {
	var sum float64
	cellArea := g.Dx * g.Dy
	eachStencilPoint(g, x, y, func(i, j int, wx, wy float64) {
		sum += wx * wy * cellArea
	})
	return sum
}
