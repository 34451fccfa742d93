// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh implements the Lagrangian (nodes, elements, fluid sources) and
// Eulerian (velocity/force grids) state of one immersed-boundary mesh,
// together with the periodic geometric queries and the element-division
// operation that act on it
package mesh

import "github.com/martinjrobins/ImmersedBoundary/torus"

// region tags used to classify a membrane-elasticity node (§4.3)
const (
	RegionBasal  = 0
	RegionApical = 1
	RegionLateral = 2
	RegionNone   = -1
)

// Node is a Lagrangian vertex. Its Attrs slice is extended in place by force
// modules (e.g. cell-cell protein levels) on their first contribution call.
type Node struct {
	Index      int         // stable identifier, never reused
	Loc        torus.Point // location in [0,1)^2
	IsBoundary bool        // always true (§3)
	Region     int         // RegionBasal/Apical/Lateral/None
	Force      [2]float64  // accumulated applied-force vector
	Attrs      []float64   // extensible per-node attribute vector
	Elements   map[int]bool // containing element indices
}

// NewNode builds a node at the given location, reduced into [0,1)^2
func NewNode(index int, loc torus.Point) *Node {
	return &Node{
		Index:      index,
		Loc:        torus.Reduce(loc),
		IsBoundary: true,
		Region:     RegionNone,
		Elements:   make(map[int]bool),
	}
}

// ClearForce zeroes the accumulated applied-force vector (§4.7 step 2)
func (n *Node) ClearForce() {
	n.Force[0], n.Force[1] = 0, 0
}

// AddForce accumulates a force contribution
func (n *Node) AddForce(fx, fy float64) {
	n.Force[0] += fx
	n.Force[1] += fy
}

// EnsureAttrs grows Attrs to at least size entries, zero-filling new slots
func (n *Node) EnsureAttrs(size int) {
	if len(n.Attrs) >= size {
		return
	}
	grown := make([]float64, size)
	copy(grown, n.Attrs)
	n.Attrs = grown
}
