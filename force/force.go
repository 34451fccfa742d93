// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package force implements the core's abstract force-module capability
// (§4.3): membrane elasticity and cell-cell interaction, plus the
// registration factory new modules are discovered through.
package force

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
)

// NodePair is one candidate interaction pair produced by the neighbour search
type NodePair struct {
	A, B int
}

// Population carries the cell-population-level scalars a force module needs
// but does not itself own: the interaction radius and intrinsic spacing of
// §4.3's cell-cell formulas.
type Population struct {
	InteractionDistance float64 // r_int
	IntrinsicSpacing    float64 // s_0
}

// ModuleArchive is the persisted-state shape of §6 "Persisted state /
// archive format": spring constant, rest length (or multiplier), and the
// two mutually-exclusive cell-cell interaction-law flags (unused by the
// membrane module).
type ModuleArchive struct {
	SpringConstant float64
	RestLength     float64
	IsLinear       bool
	IsMorse        bool
}

// Module is the abstract capability every force module implements: one
// operation adding vectors into each node's applied-force accumulator, plus
// the dump/archive contracts of §6.
type Module interface {
	// AttachOnce performs any one-time setup against the mesh (region
	// classification, attribute-vector extension); repeated calls after the
	// first must be no-ops.
	AttachOnce(m *mesh.Mesh)

	// AddForceContribution adds this module's force vectors into the nodes
	// named by pairs (or, for per-element modules, every element's nodes).
	AddForceContribution(m *mesh.Mesh, pairs []NodePair, pop *Population) error

	// ParamsDump returns this module's ordered parameter sequence (§6
	// "Parameter dump format").
	ParamsDump() dbf.Params

	// Archive returns this module's persisted-state snapshot.
	Archive() ModuleArchive

	// Restore re-establishes state from a prior Archive snapshot.
	Restore(a ModuleArchive) error
}

// AllocatorFunc builds a fresh, unconfigured Module instance
type AllocatorFunc func() Module

// allocators holds all registered module allocators, keyed by name
var allocators = make(map[string]AllocatorFunc)

// Register adds a new module allocator to the factory. Mirrors the
// SetAllocator/SetInfoFunc pattern: panics on duplicate registration of the
// same name, since that signals a wiring mistake, not a runtime condition.
func Register(name string, alloc AllocatorFunc) {
	if _, ok := allocators[name]; ok {
		chk.Panic("cannot register force module allocator for %q because it exists already", name)
	}
	allocators[name] = alloc
}

// New builds a fresh Module instance from the factory
func New(name string) Module {
	alloc, ok := allocators[name]
	if !ok {
		chk.Panic("cannot find force module allocator for %q", name)
	}
	return alloc()
}

func init() {
	Register("membrane", func() Module { return NewMembraneElasticity(0, 0) })
	Register("cellcell", func() Module { return NewCellCellInteraction(0, false) })
}
