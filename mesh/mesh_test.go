// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// regularPolygon builds a single-element mesh approximating a circle of the
// given radius centred at `center`, with n nodes
func regularPolygon(t *testing.T, n int, radius float64, center torus.Point) *Mesh {
	nodes := make([]*Node, n)
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		x := center[0] + radius*math.Cos(theta)
		y := center[1] + radius*math.Sin(theta)
		nodes[i] = NewNode(i, torus.Point{x, y})
		idx[i] = i
	}
	elem := NewElement(0, idx, 1.0, 0.1)
	m, err := NewMesh(nodes, []*Element{elem}, NoMembrane)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}
	return m
}

func Test_mesh01_volume_shoelace(tst *testing.T) {

	chk.PrintTitle("mesh01. volume_of / shoelace consistency")

	m := regularPolygon(tst, 128, 0.1, torus.Point{0.5, 0.5})
	e := m.Element(0)

	want := math.Pi * 0.1 * 0.1
	got := m.VolumeOf(e)
	if math.Abs(got-want)/want > 1e-3 {
		tst.Errorf("area of 128-gon circle approximation: got %v want ~%v", got, want)
	}

	// direct shoelace check (property 4)
	ring := m.localRing(e)
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	chk.Scalar(tst, "area", 1e-12, got, math.Abs(sum)/2)
}

func Test_mesh02_moments_sign_and_elongation(tst *testing.T) {

	chk.PrintTitle("mesh02. moments sign flip and elongation of a circle")

	m := regularPolygon(tst, 128, 0.1, torus.Point{0.4, 0.4})
	e := m.Element(0)

	ixx, _, _ := m.MomentsOf(e)
	if ixx < 0 {
		tst.Errorf("Ixx should be >= 0 after sign flip, got %v", ixx)
	}

	factor := m.ElongationShapeFactor(e)
	if math.Abs(factor-1) > 1e-3 {
		tst.Errorf("elongation_shape_factor of a circle should be ~1, got %v", factor)
	}
}

func Test_mesh03_periodic_wrap(tst *testing.T) {

	chk.PrintTitle("mesh03. volume invariant under periodic translation (S3)")

	m1 := regularPolygon(tst, 32, 0.05, torus.Point{0.02, 0.5})
	v1 := m1.VolumeOf(m1.Element(0))

	m2 := regularPolygon(tst, 32, 0.05, torus.Point{0.52, 0.5})
	v2 := m2.VolumeOf(m2.Element(0))

	chk.Scalar(tst, "volume", 1e-10, v1, v2)
}

func Test_mesh04_division_gap(tst *testing.T) {

	chk.PrintTitle("mesh04. division gap is close to the configured spacing (S4)")

	m := regularPolygon(tst, 64, 0.1, torus.Point{0.5, 0.5})
	m.DivisionSpacing = 0.02
	e := m.Element(0)

	newIdx, err := m.DivideAlongAxis(e, [2]float64{1, 0}, false)
	if err != nil {
		tst.Fatalf("DivideAlongAxis failed: %v", err)
	}
	newElem := m.Element(newIdx)

	if e.NumNodes() != 64 || newElem.NumNodes() != 64 {
		tst.Errorf("expected both daughters to retain 64 nodes, got %d and %d", e.NumNodes(), newElem.NumNodes())
	}

	// closest distance between the two daughter node rings
	minDist := math.Inf(1)
	for _, n1 := range m.ElementNodes(e) {
		for _, n2 := range m.ElementNodes(newElem) {
			d := torus.Distance(n1.Loc, n2.Loc)
			if d < minDist {
				minDist = d
			}
		}
	}
	if minDist < 0.015 || minDist > 0.025 {
		tst.Errorf("closest distance between daughters = %v, want close to 0.02", minDist)
	}
}

func Test_mesh06_division_copies_attrs(tst *testing.T) {

	chk.PrintTitle("mesh06. division copies attribute vectors onto new daughter nodes")

	m := regularPolygon(tst, 64, 0.1, torus.Point{0.5, 0.5})
	m.DivisionSpacing = 0.02
	e := m.Element(0)

	// simulate a force module's one-time attribute-vector extension
	for i, n := range m.ElementNodes(e) {
		n.EnsureAttrs(3)
		n.Attrs[0] = float64(i)
	}

	newIdx, err := m.DivideAlongAxis(e, [2]float64{1, 0}, false)
	if err != nil {
		tst.Fatalf("DivideAlongAxis failed: %v", err)
	}
	newElem := m.Element(newIdx)

	for _, n := range m.ElementNodes(e) {
		if len(n.Attrs) != 3 {
			tst.Errorf("retained node %d: Attrs length = %d, want 3", n.Index, len(n.Attrs))
		}
	}
	for _, n := range m.ElementNodes(newElem) {
		if len(n.Attrs) != 3 {
			tst.Errorf("new daughter node %d: Attrs length = %d, want 3", n.Index, len(n.Attrs))
		}
	}
}

func Test_mesh05_spacing_ratio(tst *testing.T) {

	chk.PrintTitle("mesh05. spacing ratio")

	m := regularPolygon(tst, 64, 0.1, torus.Point{0.5, 0.5})
	err := m.SetNumGridPts(32, 32)
	if err != nil {
		tst.Fatalf("SetNumGridPts failed: %v", err)
	}
	ratio := m.GetSpacingRatio()
	if ratio <= 0 {
		tst.Errorf("spacing ratio should be positive, got %v", ratio)
	}
}
