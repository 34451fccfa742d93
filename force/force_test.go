// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package force

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// twoNodeMesh builds a minimal two-element mesh: each of na, nb is the first
// node of its own 2-node element (a companion node gives each element a
// non-zero average node spacing without affecting the force balance check,
// since only na/nb receive interaction-pair forces)
func twoNodeMesh(tst *testing.T, locA, locB torus.Point) (*mesh.Mesh, *mesh.Node, *mesh.Node) {
	na := mesh.NewNode(0, locA)
	naCompanion := mesh.NewNode(1, torus.Add(locA, torus.Point{0.01, 0}))
	nb := mesh.NewNode(2, locB)
	nbCompanion := mesh.NewNode(3, torus.Add(locB, torus.Point{0.01, 0}))
	ea := mesh.NewElement(0, []int{0, 1}, 1.0, 0.1)
	eb := mesh.NewElement(1, []int{2, 3}, 1.0, 0.1)
	m, err := mesh.NewMesh([]*mesh.Node{na, naCompanion, nb, nbCompanion}, []*mesh.Element{ea, eb}, mesh.NoMembrane)
	if err != nil {
		tst.Fatalf("NewMesh failed: %v", err)
	}
	return m, m.Node(0), m.Node(2)
}

func Test_force01_cellcell_symmetry(tst *testing.T) {

	chk.PrintTitle("force01. cell-cell interaction force balance (S5/S6)")

	m, na, nb := twoNodeMesh(tst, torus.Point{0.5, 0.5}, torus.Point{0.55, 0.5})

	cc := NewCellCellInteraction(1.0, false)
	cc.AttachOnce(m)
	cc.AttachOnce(m) // idempotence

	pop := &Population{InteractionDistance: 0.2, IntrinsicSpacing: 0.1}
	pairs := []NodePair{{A: na.Index, B: nb.Index}}
	if err := cc.AddForceContribution(m, pairs, pop); err != nil {
		tst.Fatalf("AddForceContribution failed: %v", err)
	}

	total := [2]float64{na.Force[0] + nb.Force[0], na.Force[1] + nb.Force[1]}
	chk.Scalar(tst, "total Fx (equal spacing => exact cancellation)", 1e-10, total[0], 0)
	chk.Scalar(tst, "total Fy (equal spacing => exact cancellation)", 1e-10, total[1], 0)

	// same-element pairs must be skipped entirely
	na.ClearForce()
	nb.ClearForce()
	samePairs := []NodePair{{A: na.Index, B: na.Index}}
	if err := cc.AddForceContribution(m, samePairs, pop); err != nil {
		tst.Fatalf("AddForceContribution failed: %v", err)
	}
	chk.Scalar(tst, "self-pair produces no force", 1e-12, na.Force[0], 0)
}

func Test_force02_cellcell_attribute_mismatch(tst *testing.T) {

	chk.PrintTitle("force02. attribute length mismatch is a fatal error")

	m, na, nb := twoNodeMesh(tst, torus.Point{0.5, 0.5}, torus.Point{0.52, 0.5})
	cc := NewCellCellInteraction(1.0, false)
	cc.AttachOnce(m)
	na.EnsureAttrs(5) // desync from nb's 3 slots

	pop := &Population{InteractionDistance: 0.2, IntrinsicSpacing: 0.1}
	pairs := []NodePair{{A: na.Index, B: nb.Index}}
	err := cc.AddForceContribution(m, pairs, pop)
	if err == nil {
		tst.Fatalf("expected AttributeMismatch error, got nil")
	}
}

func Test_force03_membrane_spring_relaxed_at_rest_length(tst *testing.T) {

	chk.PrintTitle("force03. membrane spring force vanishes at rest length")

	n := 4
	nodes := make([]*mesh.Node, n)
	idx := make([]int, n)
	rest := 0.1
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		r := rest / (2 * math.Sin(math.Pi/float64(n))) // regular n-gon with edge length == rest
		nodes[i] = mesh.NewNode(i, torus.Point{0.5 + r*math.Cos(theta), 0.5 + r*math.Sin(theta)})
		idx[i] = i
	}
	elem := mesh.NewElement(0, idx, 1.0, rest)
	m, err := mesh.NewMesh(nodes, []*mesh.Element{elem}, mesh.NoMembrane)
	if err != nil {
		tst.Fatalf("NewMesh failed: %v", err)
	}

	mod := NewMembraneElasticity(1.0, rest)
	mod.AttachOnce(m)
	// AttachOnce labels the lowest/highest nodes basal/apical, whose edges
	// use 10x the spring constant and 4x the rest length; relabel every node
	// lateral so each edge's rest length is exactly `rest`
	for _, nd := range m.Nodes {
		nd.Region = mesh.RegionLateral
	}
	if err := mod.AddForceContribution(m, nil, nil); err != nil {
		tst.Fatalf("AddForceContribution failed: %v", err)
	}

	for _, n := range m.Nodes {
		chk.Scalar(tst, "node force magnitude at rest length", 1e-6, math.Hypot(n.Force[0], n.Force[1]), 0)
	}
}

func Test_force05_division_preserves_attrs(tst *testing.T) {

	chk.PrintTitle("force05. cell-cell force survives division after AttachOnce")

	n := 32
	nodes := make([]*mesh.Node, n)
	idx := make([]int, n)
	radius := 0.1
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		nodes[i] = mesh.NewNode(i, torus.Point{0.5 + radius*math.Cos(theta), 0.5 + radius*math.Sin(theta)})
		idx[i] = i
	}
	elem := mesh.NewElement(0, idx, 1.0, 0.1)
	m, err := mesh.NewMesh(nodes, []*mesh.Element{elem}, mesh.NoMembrane)
	if err != nil {
		tst.Fatalf("NewMesh failed: %v", err)
	}
	m.DivisionSpacing = 0.02

	cc := NewCellCellInteraction(1.0, false)
	cc.AttachOnce(m)

	newIdx, err := m.DivideAlongAxis(elem, [2]float64{1, 0}, false)
	if err != nil {
		tst.Fatalf("DivideAlongAxis failed: %v", err)
	}
	newElem := m.Element(newIdx)

	for _, nn := range m.ElementNodes(newElem) {
		if len(nn.Attrs) != numProteins {
			tst.Fatalf("new daughter node %d has %d attrs, want %d", nn.Index, len(nn.Attrs), numProteins)
		}
	}

	pop := &Population{InteractionDistance: 0.2, IntrinsicSpacing: 0.01}
	var pairs []NodePair
	for _, na := range m.ElementNodes(elem) {
		for _, nb := range m.ElementNodes(newElem) {
			pairs = append(pairs, NodePair{A: na.Index, B: nb.Index})
		}
	}
	if err := cc.AddForceContribution(m, pairs, pop); err != nil {
		tst.Fatalf("AddForceContribution after division failed: %v", err)
	}
}

func Test_force04_factory_roundtrip(tst *testing.T) {

	chk.PrintTitle("force04. factory registration round-trip")

	mod := New("membrane")
	if _, ok := mod.(*MembraneElasticity); !ok {
		tst.Fatalf("expected *MembraneElasticity from factory, got %T", mod)
	}

	mod2 := New("cellcell")
	cc, ok := mod2.(*CellCellInteraction)
	if !ok {
		tst.Fatalf("expected *CellCellInteraction from factory, got %T", mod2)
	}
	if err := cc.Restore(ModuleArchive{SpringConstant: 2.5, IsLinear: true}); err != nil {
		tst.Fatalf("Restore failed: %v", err)
	}
	a := cc.Archive()
	chk.Scalar(tst, "spring constant round-trip", 1e-6, a.SpringConstant, 2.5)
}
