// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"io"

	"github.com/martinjrobins/ImmersedBoundary/fluid"
	"github.com/martinjrobins/ImmersedBoundary/force"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/neighbour"
	"github.com/martinjrobins/ImmersedBoundary/simerrors"
	"github.com/martinjrobins/ImmersedBoundary/spread"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// Sim mirrors fem.Domain/fem.Main's split between static configuration
// (Config) and per-stage solution state (Mesh, the fluid solver, the
// neighbour-box collection, the attached force modules): a one-time
// SetupSolve builds the latter from the former, and
// UpdateAtEndOfTimeStep is called once per tick thereafter (§6 "Driver
// contract").
type Sim struct {
	Config Config
	Mesh   *mesh.Mesh

	Modules    []force.Module
	Population force.Population

	fluidSolver *fluid.Solver
	neighbours  *neighbour.Collection
	step        int

	// OnStepDone is the per-step callback hook named in §1 as an external
	// collaborator seam; the core never calls it itself beyond invoking it
	// at the end of every UpdateAtEndOfTimeStep, if set.
	OnStepDone func(step int, m *mesh.Mesh)
}

// NewSim builds a Sim over an already-constructed mesh and force module
// list; Config must still be set and SetupSolve called before the first
// UpdateAtEndOfTimeStep.
func NewSim(m *mesh.Mesh, modules []force.Module) *Sim {
	return &Sim{Mesh: m, Modules: modules}
}

// SetupSolve performs the core's one-time setup (§6 "Driver contract"):
// validates Config, builds the fluid solver and neighbour-box collection,
// wires the division spacing into the mesh, attaches every force module,
// and performs the initial neighbour-pair build.
func (s *Sim) SetupSolve() error {
	s.Config.SetDefault()
	if err := s.Config.Validate(); err != nil {
		return err
	}
	if s.Mesh == nil {
		return simerrors.New(simerrors.ConfigError, "Sim.Mesh must be set before SetupSolve")
	}

	solver, err := fluid.NewSolver(s.Config.Re, s.Config.FftThreads)
	if err != nil {
		return err
	}
	s.fluidSolver = solver

	coll, err := neighbour.NewCollection(s.Config.InteractionDistance)
	if err != nil {
		return err
	}
	s.neighbours = coll

	s.Mesh.DivisionSpacing = s.Config.ElementDivisionSpacing
	s.Population = force.Population{
		InteractionDistance: s.Config.InteractionDistance,
		IntrinsicSpacing:    s.Config.IntrinsicSpacing,
	}

	for _, mod := range s.Modules {
		mod.AttachOnce(s.Mesh)
	}

	s.neighbours.Rebuild(s.Mesh.Nodes)
	s.step = 0
	return nil
}

// UpdateAtEndOfTimeStep advances the simulation by one tick, in the exact
// order of §4.7:
//  1. refresh neighbour pairs on cadence
//  2. zero every node force and the two grid force arrays
//  3. invoke every registered force module
//  4. spread node forces to the grid
//  5. advance the fluid in place
//  6. interpolate new node velocities
//  7. advect every node and wrap into [0,1)^2
func (s *Sim) UpdateAtEndOfTimeStep(dt float64, stepIndex int) error {
	if s.fluidSolver == nil {
		return simerrors.New(simerrors.ConfigError, "SetupSolve must be called before UpdateAtEndOfTimeStep")
	}

	if stepIndex%s.Config.NodeNeighbourUpdateFrequency == 0 {
		s.neighbours.Rebuild(s.Mesh.Nodes)
	}

	for _, n := range s.Mesh.Nodes {
		n.ClearForce()
	}
	s.Mesh.Grid.ClearForce()

	pairs := make([]force.NodePair, len(s.neighbours.Pairs))
	for i, p := range s.neighbours.Pairs {
		pairs[i] = force.NodePair{A: p.A, B: p.B}
	}
	for _, mod := range s.Modules {
		if err := mod.AddForceContribution(s.Mesh, pairs, &s.Population); err != nil {
			return err
		}
	}

	dl := s.Mesh.MeanNodeSpacing()
	for _, n := range s.Mesh.Nodes {
		spread.Spread(s.Mesh.Grid, n.Loc[0], n.Loc[1], n.Force[0], n.Force[1], dl)
	}

	if err := s.fluidSolver.Step(s.Mesh.Grid, dt); err != nil {
		return err
	}

	velocities := make([]torus.Point, len(s.Mesh.Nodes))
	for i, n := range s.Mesh.Nodes {
		u, v := spread.Interpolate(s.Mesh.Grid, n.Loc[0], n.Loc[1])
		velocities[i] = torus.Point{u, v}
	}
	for i, n := range s.Mesh.Nodes {
		n.Loc = torus.Add(n.Loc, torus.Point{dt * velocities[i][0], dt * velocities[i][1]})
	}

	s.step = stepIndex
	if s.OnStepDone != nil {
		s.OnStepDone(stepIndex, s.Mesh)
	}
	return nil
}

// TryDivide wires the core's external division trigger to
// mesh.DivideAlongAxis, implementing the per-element state machine of
// §4.7: (Active) -> (Dividing) -> (Active, Active) on success, or
// (Active, unchanged) with the underlying error on failure.
func (s *Sim) TryDivide(elem *mesh.Element, axis [2]float64, placeOriginalBelow bool) (int, error) {
	return s.Mesh.DivideAlongAxis(elem, axis, placeOriginalBelow)
}

// DumpParams writes every attached force module's ordered parameter
// sequence as "<Name>value</Name>" lines (§6 "Parameter dump format")
func (s *Sim) DumpParams(w io.Writer) error {
	for _, mod := range s.Modules {
		for _, p := range mod.ParamsDump() {
			if _, err := fmt.Fprintf(w, "<%s>%v</%s>\n", p.N, p.V, p.N); err != nil {
				return err
			}
		}
	}
	return nil
}

// Archive is the §6 "Persisted state" snapshot of every attached force
// module, in Modules order
type Archive struct {
	Modules []force.ModuleArchive
}

// Archive returns a persisted-state snapshot of every attached force module
func (s *Sim) Archive() Archive {
	a := Archive{Modules: make([]force.ModuleArchive, len(s.Modules))}
	for i, mod := range s.Modules {
		a.Modules[i] = mod.Archive()
	}
	return a
}

// Restore re-establishes every attached force module's state from a in a
// prior Archive snapshot; a must have been produced by a Sim with the same
// Modules order.
func (s *Sim) Restore(a Archive) error {
	if len(a.Modules) != len(s.Modules) {
		return simerrors.New(simerrors.ConfigError, "archive has %d modules, Sim has %d", len(a.Modules), len(s.Modules))
	}
	for i, mod := range s.Modules {
		if err := mod.Restore(a.Modules[i]); err != nil {
			return err
		}
	}
	return nil
}
