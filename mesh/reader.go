// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/martinjrobins/ImmersedBoundary/simerrors"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// NodeRow is one (x, y, is_boundary) row produced by a MeshReader (§6)
type NodeRow struct {
	X, Y       float64
	IsBoundary bool
}

// ElementRow is one element row produced by a MeshReader: ordered node
// indices, whether it is the membrane element, and an optional scalar
// attribute (§6)
type ElementRow struct {
	NodeIndices []int
	IsMembrane  bool
	Attribute   float64
	HasAttr     bool
	SpringConst float64
	RestLength  float64
}

// MeshReader is the abstract collaborator the core accepts to build a Mesh
// from an external blob (§6 "Mesh reader blob")
type MeshReader interface {
	NumNodes() int
	NodeRow(i int) NodeRow
	NumElements() int
	ElementRow(i int) ElementRow
	GridDims() (nx, ny int)
	VelocityRows(component string) [][]float64 // "u" or "v", Ny rows of Nx doubles
}

// NewFromReader builds a Mesh from a MeshReader blob, raising
// MalformedMeshError on any inconsistency (§6)
func NewFromReader(r MeshReader) (*Mesh, error) {
	numNodes := r.NumNodes()
	if numNodes <= 0 {
		return nil, simerrors.New(simerrors.MalformedMeshError, "mesh reader reports %d nodes", numNodes)
	}
	nodes := make([]*Node, numNodes)
	for i := 0; i < numNodes; i++ {
		row := r.NodeRow(i)
		n := NewNode(i, torus.Point{row.X, row.Y})
		n.IsBoundary = row.IsBoundary
		nodes[i] = n
	}

	numElems := r.NumElements()
	if numElems <= 0 {
		return nil, simerrors.New(simerrors.MalformedMeshError, "mesh reader reports %d elements", numElems)
	}
	elements := make([]*Element, numElems)
	membraneIndex := NoMembrane
	for i := 0; i < numElems; i++ {
		row := r.ElementRow(i)
		for _, ni := range row.NodeIndices {
			if ni < 0 || ni >= numNodes {
				return nil, simerrors.New(simerrors.MalformedMeshError, "element %d references out-of-range node %d", i, ni)
			}
		}
		e := NewElement(i, row.NodeIndices, row.SpringConst, row.RestLength)
		if row.HasAttr {
			e.Attrs["reader"] = row.Attribute
		}
		if row.IsMembrane {
			if membraneIndex != NoMembrane {
				return nil, simerrors.New(simerrors.MalformedMeshError, "more than one element flagged as membrane (%d and %d)", membraneIndex, i)
			}
			membraneIndex = i
		}
		elements[i] = e
	}

	m, err := NewMesh(nodes, elements, membraneIndex)
	if err != nil {
		return nil, err
	}

	nx, ny := r.GridDims()
	if nx <= 0 || ny <= 0 {
		return nil, simerrors.New(simerrors.MalformedMeshError, "mesh reader reports grid dims %d x %d", nx, ny)
	}
	if err := m.SetNumGridPts(nx, ny); err != nil {
		return nil, err
	}
	uRows := r.VelocityRows("u")
	vRows := r.VelocityRows("v")
	if len(uRows) != ny || len(vRows) != ny {
		return nil, simerrors.New(simerrors.MalformedMeshError, "velocity grid row count mismatch: want %d rows, got u=%d v=%d", ny, len(uRows), len(vRows))
	}
	for j := 0; j < ny; j++ {
		if len(uRows[j]) != nx || len(vRows[j]) != nx {
			return nil, simerrors.New(simerrors.MalformedMeshError, "velocity grid row %d column count mismatch: want %d", j, nx)
		}
		copy(m.Grid.U[j], uRows[j])
		copy(m.Grid.V[j], vRows[j])
	}
	return m, nil
}
