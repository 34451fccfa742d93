// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/martinjrobins/ImmersedBoundary/torus"

// FluidSource is an integer-indexed point source/sink of incompressibility
// (§3). Strength is zero for the plain core (growth is an external concern)
// but the field exists so the invariant (sum of strengths == 0) is checkable.
type FluidSource struct {
	Index    int
	Loc      torus.Point
	Strength float64
}
