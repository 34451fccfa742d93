// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/martinjrobins/ImmersedBoundary/simerrors"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// NoMembrane is the sentinel membrane-element index when no element is
// flagged as the membrane; -1 since elements are indexed with plain
// (signed) ints throughout this package (see DESIGN.md).
const NoMembrane = -1

// Mesh owns the node list, element list, the two fluid-source lists, the
// velocity/force grids, the characteristic node spacing and the membrane
// element index (§3).
type Mesh struct {
	Nodes    []*Node
	Elements []*Element

	ElementSources   []*FluidSource
	BalancingSources []*FluidSource

	Grid *Grid

	MembraneIndex int // NoMembrane if absent

	// DivisionSpacing is the required perpendicular inter-element gap Δ for
	// element division (§4.2.1); must be set to a positive value before any
	// division is attempted (§7 ConfigError).
	DivisionSpacing float64

	meanNodeSpacing float64

	nodeByIndex    map[int]*Node
	elemByIndex    map[int]*Element
	nextNodeIndex  int
	nextElemIndex  int
	nextSourceIdx  int
	warnedSkewness map[int]bool
}

// NewMesh builds a mesh from explicit node and element lists. membraneIndex
// is NoMembrane if there is no basement-lamina element.
func NewMesh(nodes []*Node, elements []*Element, membraneIndex int) (*Mesh, error) {
	m := &Mesh{
		Nodes:          nodes,
		Elements:       elements,
		MembraneIndex:  membraneIndex,
		nodeByIndex:    make(map[int]*Node),
		elemByIndex:    make(map[int]*Element),
		warnedSkewness: make(map[int]bool),
	}
	for _, n := range nodes {
		m.nodeByIndex[n.Index] = n
		if n.Index >= m.nextNodeIndex {
			m.nextNodeIndex = n.Index + 1
		}
	}
	for _, e := range elements {
		m.elemByIndex[e.Index] = e
		if e.Index >= m.nextElemIndex {
			m.nextElemIndex = e.Index + 1
		}
		for _, ni := range e.Nodes {
			nd, ok := m.nodeByIndex[ni]
			if !ok {
				return nil, simerrors.New(simerrors.MalformedMeshError, "element %d references unknown node %d", e.Index, ni)
			}
			nd.Elements[e.Index] = true
		}
	}
	if err := m.rebuildElementSources(); err != nil {
		return nil, err
	}
	m.RecomputeMeanNodeSpacing()
	return m, nil
}

// Node returns the node with the given stable index, or nil
func (m *Mesh) Node(index int) *Node {
	return m.nodeByIndex[index]
}

// Element returns the element with the given stable index, or nil
func (m *Mesh) Element(index int) *Element {
	return m.elemByIndex[index]
}

// IsMembrane reports whether elemIndex is the mesh's membrane element
func (m *Mesh) IsMembrane(elemIndex int) bool {
	return m.MembraneIndex != NoMembrane && elemIndex == m.MembraneIndex
}

// ElementNodes resolves an element's node-index ring into *Node pointers
func (m *Mesh) ElementNodes(e *Element) []*Node {
	out := make([]*Node, len(e.Nodes))
	for i, ni := range e.Nodes {
		out[i] = m.nodeByIndex[ni]
	}
	return out
}

// NodeIsInMembrane reports whether n belongs to the mesh's membrane element
func (m *Mesh) NodeIsInMembrane(n *Node) bool {
	return m.MembraneIndex != NoMembrane && n.Elements[m.MembraneIndex]
}

// PrimaryElementOf returns the lowest-indexed non-membrane element n belongs
// to, or nil if n belongs only to the membrane (or to no element)
func (m *Mesh) PrimaryElementOf(n *Node) *Element {
	best := -1
	for ei := range n.Elements {
		if m.IsMembrane(ei) {
			continue
		}
		if best == -1 || ei < best {
			best = ei
		}
	}
	if best == -1 {
		return nil
	}
	return m.elemByIndex[best]
}

// allocNodeIndex returns a fresh, never-before-used node index
func (m *Mesh) allocNodeIndex() int {
	i := m.nextNodeIndex
	m.nextNodeIndex++
	return i
}

// allocElemIndex returns a fresh, never-before-used element index
func (m *Mesh) allocElemIndex() int {
	i := m.nextElemIndex
	m.nextElemIndex++
	return i
}

// addNode registers a brand new node with the mesh
func (m *Mesh) addNode(n *Node) {
	m.Nodes = append(m.Nodes, n)
	m.nodeByIndex[n.Index] = n
}

// addElement registers a brand new element with the mesh
func (m *Mesh) addElement(e *Element) {
	m.Elements = append(m.Elements, e)
	m.elemByIndex[e.Index] = e
}

// rebuildElementSources re-establishes invariant 3: every non-membrane
// element has exactly one element fluid source, located at its centroid
func (m *Mesh) rebuildElementSources() error {
	m.ElementSources = m.ElementSources[:0]
	for _, e := range m.Elements {
		if m.IsMembrane(e.Index) {
			e.Source = -1
			continue
		}
		c, err := m.CentroidOf(e)
		if err != nil {
			return err
		}
		src := &FluidSource{Index: m.nextSourceIdx, Loc: c, Strength: 0}
		m.nextSourceIdx++
		e.Source = len(m.ElementSources)
		m.ElementSources = append(m.ElementSources, src)
	}
	return nil
}

// refreshElementSource re-centres a single element's fluid source after its
// geometry changed (e.g. after division); it does not reallocate
func (m *Mesh) refreshElementSource(e *Element) error {
	if m.IsMembrane(e.Index) || e.Source < 0 {
		return nil
	}
	c, err := m.CentroidOf(e)
	if err != nil {
		return err
	}
	m.ElementSources[e.Source].Loc = c
	return nil
}

// rebuildBalancingSources lays out the fixed midline (y=0) row of balancing
// sources at spacing 4*Δx (§3), sized to zero net mass injection
func (m *Mesh) rebuildBalancingSources() {
	if m.Grid == nil {
		return
	}
	spacing := 4 * m.Grid.Dx
	n := int(math.Round(1.0 / spacing))
	if n < 1 {
		n = 1
	}
	m.BalancingSources = make([]*FluidSource, n)
	for i := 0; i < n; i++ {
		m.BalancingSources[i] = &FluidSource{
			Index:    m.nextSourceIdx,
			Loc:      torus.Point{float64(i) * spacing, 0},
			Strength: 0,
		}
		m.nextSourceIdx++
	}
}

// SetNumGridPts allocates the Nx x Ny velocity/force grids and rebuilds the
// balancing-source row, per §4.2 "set_num_grid_pts"
func (m *Mesh) SetNumGridPts(nx, ny int) error {
	if nx <= 0 || ny <= 0 || nx%2 != 0 || ny%2 != 0 {
		return simerrors.New(simerrors.ConfigError, "Nx and Ny must be positive even integers, got %d, %d", nx, ny)
	}
	m.Grid = NewGrid(nx, ny)
	m.rebuildBalancingSources()
	return nil
}

// GetSpacingRatio returns mean_node_spacing * Nx, the dimensionless ratio
// controlling spreading quality (§4.2)
func (m *Mesh) GetSpacingRatio() float64 {
	if m.Grid == nil {
		return 0
	}
	return m.meanNodeSpacing * float64(m.Grid.Nx)
}

// MeanNodeSpacing returns the mesh's characteristic node spacing, the mean
// inter-node arclength over all non-membrane elements (§3)
func (m *Mesh) MeanNodeSpacing() float64 {
	return m.meanNodeSpacing
}

// RecomputeMeanNodeSpacing recomputes the characteristic spacing averaged
// over cells (§3): the membrane, if any, is a distinct population from the
// cells and is excluded from the average, so attaching a membrane element
// does not skew MeanNodeSpacing (and therefore GetSpacingRatio and the
// cell-cell force's kEff scaling).
func (m *Mesh) RecomputeMeanNodeSpacing() {
	var sum float64
	var count int
	for _, e := range m.Elements {
		if m.IsMembrane(e.Index) {
			continue
		}
		sum += m.AverageNodeSpacingOf(e, true)
		count++
	}
	if count == 0 {
		m.meanNodeSpacing = 0
		return
	}
	m.meanNodeSpacing = sum / float64(count)
}

// CheckSourceBalance verifies invariant 4: the sum of all active fluid
// source strengths equals the negative sum of balancing-source strengths
// within floating point tolerance
func (m *Mesh) CheckSourceBalance(tol float64) bool {
	var sum float64
	for _, s := range m.ElementSources {
		sum += s.Strength
	}
	var bal float64
	for _, s := range m.BalancingSources {
		bal += s.Strength
	}
	return math.Abs(sum+bal) <= tol
}
