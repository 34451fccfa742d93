// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ibcore is a thin smoke-test CLI: it builds a single circular-cell mesh,
// runs a handful of simulation steps, and prints a one-line progress
// message per step. It is not a general-purpose driver; a real driver is
// an external collaborator (§1).
package main

import (
	"flag"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/martinjrobins/ImmersedBoundary/force"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/sim"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	nx := flag.Int("nx", 32, "number of grid points in x")
	ny := flag.Int("ny", 32, "number of grid points in y")
	nnodes := flag.Int("nnodes", 64, "number of membrane nodes on the demo cell")
	radius := flag.Float64("radius", 0.1, "demo cell radius")
	steps := flag.Int("steps", 10, "number of steps to run")
	dt := flag.Float64("dt", 0.001, "time step")
	re := flag.Float64("re", 1e-4, "Reynolds number")
	flag.Parse()

	io.PfWhite("\nibcore -- Immersed Boundary core smoke test\n\n")

	m := buildDemoMesh(*nnodes, *radius)
	if err := m.SetNumGridPts(*nx, *ny); err != nil {
		chk.Panic("%v", err)
	}

	modules := []force.Module{
		force.NewMembraneElasticity(1e6, 2*math.Pi*(*radius)/float64(*nnodes)),
		force.NewCellCellInteraction(1.0, false),
	}
	s := sim.NewSim(m, modules)
	s.Config = sim.Config{
		Nx: *nx, Ny: *ny, Dt: *dt, Re: *re,
		InteractionDistance:    4 * m.MeanNodeSpacing(),
		IntrinsicSpacing:       m.MeanNodeSpacing(),
		ElementDivisionSpacing: m.MeanNodeSpacing(),
	}
	s.OnStepDone = func(step int, mm *mesh.Mesh) {
		e := mm.Element(0)
		io.Pf("step %3d: volume=%.6e  elongation=%.4f\n", step, mm.VolumeOf(e), mm.ElongationShapeFactor(e))
	}

	if err := s.SetupSolve(); err != nil {
		chk.Panic("SetupSolve failed: %v", err)
	}
	for step := 0; step < *steps; step++ {
		if err := s.UpdateAtEndOfTimeStep(*dt, step); err != nil {
			chk.Panic("step %d failed: %v", step, err)
		}
	}
	io.Pf("\ndone.\n")
}

// buildDemoMesh builds a single regular n-gon cell centred on the torus
func buildDemoMesh(n int, radius float64) *mesh.Mesh {
	nodes := make([]*mesh.Node, n)
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		nodes[i] = mesh.NewNode(i, torus.Point{0.5 + radius*math.Cos(theta), 0.5 + radius*math.Sin(theta)})
		idx[i] = i
	}
	elem := mesh.NewElement(0, idx, 1.0, 2*math.Pi*radius/float64(n))
	m, err := mesh.NewMesh(nodes, []*mesh.Element{elem}, mesh.NoMembrane)
	if err != nil {
		chk.Panic("%v", err)
	}
	return m
}
