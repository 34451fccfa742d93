// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package force

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/simerrors"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// protein attribute slots appended to every node's attribute vector on the
// cell-cell module's first call (§4.3)
const (
	numProteins  = 3
	attrECad     = 0
	attrPCad     = 1
	attrIntegrin = 2
)

// ProteinInitPolicy resolves Open Question (b): whether newly-attached
// protein levels should distinguish membrane nodes from cell nodes.
type ProteinInitPolicy int

const (
	// SameForAll assigns E-cadherin=1 to every node regardless of whether it
	// belongs to the membrane element, reproducing the original's literal
	// behaviour (see DESIGN.md: "bug or simplification" left unresolved by
	// the distilled spec, exposed here as a named, default choice).
	SameForAll ProteinInitPolicy = iota
	// MembraneZero assigns E-cadherin=1 only to non-membrane-element nodes,
	// leaving membrane nodes at 0.
	MembraneZero
)

// CellCellInteraction implements §4.3's "Cell-cell interaction" force
// module: a protein-weighted linear spring or Morse potential between
// nearby nodes belonging to different elements.
type CellCellInteraction struct {
	SpringConstant float64
	UseMorse       bool // false => linear spring, true => Morse potential

	InitPolicy ProteinInitPolicy

	attached bool
}

// NewCellCellInteraction builds a cell-cell interaction module with the
// given spring constant and interaction law (linear if useMorse is false)
func NewCellCellInteraction(springConstant float64, useMorse bool) *CellCellInteraction {
	return &CellCellInteraction{SpringConstant: springConstant, UseMorse: useMorse, InitPolicy: SameForAll}
}

// AttachOnce extends every node's attribute vector with the three protein
// slots and initialises E-cadherin per InitPolicy; P-cadherin and Integrin
// start at 0 for every node (no initial value is specified for them).
// Repeated calls are no-ops.
func (o *CellCellInteraction) AttachOnce(m *mesh.Mesh) {
	if o.attached {
		return
	}
	o.attached = true
	for _, n := range m.Nodes {
		n.EnsureAttrs(numProteins)
		switch o.InitPolicy {
		case MembraneZero:
			if !m.NodeIsInMembrane(n) {
				n.Attrs[attrECad] = 1
			}
		default: // SameForAll
			n.Attrs[attrECad] = 1
		}
	}
}

// UpdateProteinLevels is an explicit seam (Open Question (a)) for a future
// biological model to adjust protein levels between steps; the core itself
// never calls it.
func (o *CellCellInteraction) UpdateProteinLevels(m *mesh.Mesh) {
}

// AddForceContribution iterates the supplied candidate pairs, skipping any
// that share an element, and for pairs within the interaction radius adds
// a protein-weighted linear-spring or Morse force (§4.3).
func (o *CellCellInteraction) AddForceContribution(m *mesh.Mesh, pairs []NodePair, pop *Population) error {
	meanSpacing := m.MeanNodeSpacing()
	for _, pr := range pairs {
		a, b := m.Node(pr.A), m.Node(pr.B)
		if a == nil || b == nil {
			continue
		}
		if sharesElement(a, b) {
			continue
		}
		if len(a.Attrs) != len(b.Attrs) {
			return simerrors.New(simerrors.AttributeMismatch,
				"cell-cell force: nodes %d and %d have attribute vectors of length %d and %d", a.Index, b.Index, len(a.Attrs), len(b.Attrs))
		}

		r := torus.Distance(a.Loc, b.Loc)
		if r <= 0 || r >= pop.InteractionDistance {
			continue
		}

		ea, eb := m.PrimaryElementOf(a), m.PrimaryElementOf(b)
		if ea == nil || eb == nil {
			continue
		}
		sa := m.AverageNodeSpacingOf(ea, false)
		sb := m.AverageNodeSpacingOf(eb, false)
		if sa <= 0 || sb <= 0 {
			continue
		}

		kEff := o.SpringConstant * (sa + sb) / 2 / pop.IntrinsicSpacing
		p := math.Min(a.Attrs[attrECad], b.Attrs[attrECad]) +
			math.Min(a.Attrs[attrPCad], b.Attrs[attrPCad]) +
			math.Max(a.Attrs[attrIntegrin], b.Attrs[attrIntegrin])

		w := 0.25 * pop.InteractionDistance
		l := 0.25 * pop.InteractionDistance

		var mag float64
		if o.UseMorse {
			expTerm := math.Exp((l - r) / w)
			mag = 2 * w * kEff * p * expTerm * (1 - expTerm)
		} else {
			mag = kEff * p * (r - l)
		}

		v := torus.VectorFrom(a.Loc, b.Loc)
		rhat := [2]float64{v[0] / r, v[1] / r}

		a.AddForce(mag*rhat[0]*meanSpacing/sa, mag*rhat[1]*meanSpacing/sa)
		b.AddForce(-mag*rhat[0]*meanSpacing/sb, -mag*rhat[1]*meanSpacing/sb)
	}
	return nil
}

// sharesElement reports whether nodes a and b have any containing element
// in common
func sharesElement(a, b *mesh.Node) bool {
	for ei := range a.Elements {
		if b.Elements[ei] {
			return true
		}
	}
	return false
}

// ParamsDump emits (SpringConst, RestLength, NumProteins, LinearSpring,
// Morse) per §6. RestLength is always 0 here: the module's actual rest
// length is 0.25*r_int, a population-level scalar only known at call time,
// not a value this module owns.
func (o *CellCellInteraction) ParamsDump() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "SpringConst", V: o.SpringConstant},
		&dbf.P{N: "RestLength", V: 0},
		&dbf.P{N: "NumProteins", V: float64(numProteins)},
		&dbf.P{N: "LinearSpring", V: boolToFloat(!o.UseMorse)},
		&dbf.P{N: "Morse", V: boolToFloat(o.UseMorse)},
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Archive returns the persisted-state snapshot: spring constant and the two
// mutually-exclusive interaction-law flags
func (o *CellCellInteraction) Archive() ModuleArchive {
	return ModuleArchive{SpringConstant: o.SpringConstant, IsLinear: !o.UseMorse, IsMorse: o.UseMorse}
}

// Restore re-establishes state from a prior Archive snapshot, requiring
// exactly one of IsLinear/IsMorse to be set (§6)
func (o *CellCellInteraction) Restore(a ModuleArchive) error {
	if a.IsLinear == a.IsMorse {
		return simerrors.New(simerrors.ConfigError, "cell-cell archive must set exactly one of (is_linear, is_morse), got %v, %v", a.IsLinear, a.IsMorse)
	}
	o.SpringConstant = a.SpringConstant
	o.UseMorse = a.IsMorse
	return nil
}
