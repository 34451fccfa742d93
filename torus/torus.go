// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package torus implements periodic (shortest-vector) arithmetic on the unit
// square [0,1)x[0,1) with wrap-around in both directions. Every other
// geometric computation in the mesh package is layered on VectorFrom.
package torus

import "math"

// Point is a location on the unit torus; components are expected (but not
// required) to already lie in [0,1)
type Point [2]float64

// Wrap reduces a single coordinate into the canonical [0,1) range
func Wrap(x float64) float64 {
	if x < 0 {
		return x + math.Ceil(-x)
	}
	return math.Mod(x, 1)
}

// Reduce maps a point into canonical [0,1)x[0,1) form
func Reduce(p Point) Point {
	return Point{Wrap(p[0]), Wrap(p[1])}
}

// wrapComponent returns the shortest signed displacement along one periodic
// axis such that a+d == b (mod 1)
func wrapComponent(a, b float64) float64 {
	d := b - a
	if math.Abs(d) > 0.5 {
		if d > 0 {
			return d - 1
		}
		return d + 1
	}
	return d
}

// VectorFrom returns the shortest displacement v on the unit torus such that
// A + v == B (mod 1) componentwise. Per component: if |B-A| > 0.5 the
// returned component is sign(A-B)*(1-|B-A|); else it is B-A.
func VectorFrom(a, b Point) Point {
	return Point{wrapComponent(a[0], b[0]), wrapComponent(a[1], b[1])}
}

// Distance returns the shortest torus distance between two points
func Distance(a, b Point) float64 {
	v := VectorFrom(a, b)
	return math.Hypot(v[0], v[1])
}

// Add adds a displacement to a point and reduces the result into [0,1)^2
func Add(p Point, v Point) Point {
	return Reduce(Point{p[0] + v[0], p[1] + v[1]})
}

// Midpoint returns the point halfway between a and b along the shortest path
func Midpoint(a, b Point) Point {
	v := VectorFrom(a, b)
	return Add(a, Point{v[0] / 2, v[1] / 2})
}
