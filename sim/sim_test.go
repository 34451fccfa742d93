// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/martinjrobins/ImmersedBoundary/force"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

func regularPolygonMesh(tst *testing.T, n int, radius float64, center torus.Point) *mesh.Mesh {
	nodes := make([]*mesh.Node, n)
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		nodes[i] = mesh.NewNode(i, torus.Point{center[0] + radius*math.Cos(theta), center[1] + radius*math.Sin(theta)})
		idx[i] = i
	}
	elem := mesh.NewElement(0, idx, 1.0, 2*math.Pi*radius/float64(n))
	m, err := mesh.NewMesh(nodes, []*mesh.Element{elem}, mesh.NoMembrane)
	if err != nil {
		tst.Fatalf("NewMesh failed: %v", err)
	}
	if err := m.SetNumGridPts(16, 16); err != nil {
		tst.Fatalf("SetNumGridPts failed: %v", err)
	}
	return m
}

func Test_sim01_setup_and_one_step(tst *testing.T) {

	chk.PrintTitle("sim01. SetupSolve then one UpdateAtEndOfTimeStep step")

	m := regularPolygonMesh(tst, 32, 0.1, torus.Point{0.5, 0.5})
	before := make([]torus.Point, len(m.Nodes))
	for i, n := range m.Nodes {
		before[i] = n.Loc
	}

	modules := []force.Module{
		force.NewMembraneElasticity(1e6, 2*math.Pi*0.1/32),
		force.NewCellCellInteraction(1.0, false),
	}
	s := NewSim(m, modules)
	s.Config = Config{
		Nx: 16, Ny: 16, Dt: 0.001, Re: 1e-4,
		InteractionDistance:    0.05,
		IntrinsicSpacing:       0.01,
		ElementDivisionSpacing: 0.01,
	}

	var stepSeen int = -1
	s.OnStepDone = func(step int, mm *mesh.Mesh) { stepSeen = step }

	if err := s.SetupSolve(); err != nil {
		tst.Fatalf("SetupSolve failed: %v", err)
	}
	if err := s.UpdateAtEndOfTimeStep(s.Config.Dt, 0); err != nil {
		tst.Fatalf("UpdateAtEndOfTimeStep failed: %v", err)
	}
	if stepSeen != 0 {
		tst.Errorf("OnStepDone callback not invoked with expected step index, got %d", stepSeen)
	}

	var totalMove float64
	for i, n := range m.Nodes {
		totalMove += torus.Distance(before[i], n.Loc)
	}
	if totalMove < 0 {
		tst.Errorf("unexpected negative total movement")
	}
}

func Test_sim02_setup_rejects_bad_config(tst *testing.T) {

	chk.PrintTitle("sim02. SetupSolve rejects an invalid configuration")

	m := regularPolygonMesh(tst, 16, 0.1, torus.Point{0.5, 0.5})
	s := NewSim(m, nil)
	s.Config = Config{Nx: 15, Ny: 16, Dt: 0.001, Re: 1e-4, InteractionDistance: 0.05, IntrinsicSpacing: 0.01, ElementDivisionSpacing: 0.01}
	if err := s.SetupSolve(); err == nil {
		tst.Fatalf("expected ConfigError for odd Nx")
	}
}

func Test_sim03_dump_params_and_archive_roundtrip(tst *testing.T) {

	chk.PrintTitle("sim03. DumpParams format and Archive/Restore round-trip")

	m := regularPolygonMesh(tst, 16, 0.1, torus.Point{0.5, 0.5})
	modules := []force.Module{force.NewMembraneElasticity(3.0, 0.2)}
	s := NewSim(m, modules)

	var buf bytes.Buffer
	if err := s.DumpParams(&buf); err != nil {
		tst.Fatalf("DumpParams failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<SpringConstant>3</SpringConstant>") {
		tst.Errorf("expected SpringConstant tag in dump, got:\n%s", buf.String())
	}

	a := s.Archive()
	a.Modules[0].SpringConstant = 99
	if err := s.Restore(a); err != nil {
		tst.Fatalf("Restore failed: %v", err)
	}
	got := s.Archive()
	chk.Scalar(tst, "restored spring constant", 1e-9, got.Modules[0].SpringConstant, 99)
}
