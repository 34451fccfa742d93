// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/martinjrobins/ImmersedBoundary/simerrors"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// arcLength returns the total Euclidean length of an open polyline expressed
// in one common local (already-unwrapped) frame
func arcLength(path []torus.Point) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		dx := path[i+1][0] - path[i][0]
		dy := path[i+1][1] - path[i][1]
		total += math.Hypot(dx, dy)
	}
	return total
}

// resamplePolyline resamples an open local-frame polyline to exactly n
// equally arc-length-spaced points, starting at path[0] (§4.2.1 step 5)
func resamplePolyline(path []torus.Point, n int) []torus.Point {
	total := arcLength(path)
	out := make([]torus.Point, n)
	if total <= 0 || n == 0 {
		for i := range out {
			out[i] = path[0]
		}
		return out
	}
	step := total / float64(n)
	seg := 0
	segStart := 0.0
	for i := 0; i < n; i++ {
		target := float64(i) * step
		for seg+1 < len(path)-1 {
			dx := path[seg+1][0] - path[seg][0]
			dy := path[seg+1][1] - path[seg][1]
			segLen := math.Hypot(dx, dy)
			if segStart+segLen >= target-1e-12 {
				break
			}
			segStart += segLen
			seg++
		}
		dx := path[seg+1][0] - path[seg][0]
		dy := path[seg+1][1] - path[seg][1]
		segLen := math.Hypot(dx, dy)
		var t float64
		if segLen > 0 {
			t = (target - segStart) / segLen
		}
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		out[i] = torus.Point{path[seg][0] + t*dx, path[seg][1] + t*dy}
	}
	return out
}

// arcFrontier walks `path` (an ordered slice of local-frame points paired
// with their perp-axis coordinate value) from its first entry outward,
// returning the index of the first point whose |value| >= halfGap, with that
// point snapped exactly onto the +/-halfGap offset plane (its perp component
// replaced; its axis component preserved). sign is +1 or -1, the side this
// arc lives on.
func arcFrontier(path []torus.Point, vals []float64, halfGap float64, sign float64, axis, perp [2]float64) (idx int, snapped torus.Point, ok bool) {
	for i, v := range vals {
		if sign*v >= halfGap {
			axisComp := path[i][0]*axis[0] + path[i][1]*axis[1]
			snapped = torus.Point{axisComp*axis[0] + sign*halfGap*perp[0], axisComp*axis[1] + sign*halfGap*perp[1]}
			return i, snapped, true
		}
	}
	return 0, torus.Point{}, false
}

// DivideAlongAxis implements §4.2.1: it splits elem into two daughters along
// the line through its centroid in direction axis, snapping the frontier
// nodes onto planes offset +/- Mesh.DivisionSpacing/2 from the centroid along
// axis's perpendicular, so as to leave a perpendicular inter-element gap of
// exactly Mesh.DivisionSpacing between daughters. If placeOriginalBelow is
// true, elem keeps the identity of the daughter on the negative-perp side;
// otherwise it keeps the positive-perp side. Returns the new daughter
// element's index.
func (m *Mesh) DivideAlongAxis(elem *Element, axis [2]float64, placeOriginalBelow bool) (int, error) {
	if m.DivisionSpacing <= 0 {
		return 0, simerrors.New(simerrors.ConfigError, "element_division_spacing must be set (positive) before any division")
	}
	norm := math.Hypot(axis[0], axis[1])
	if norm == 0 {
		return 0, simerrors.New(simerrors.GeometryError, "division axis must be non-zero")
	}
	ax := [2]float64{axis[0] / norm, axis[1] / norm}
	perp := [2]float64{-ax[1], ax[0]}
	halfGap := m.DivisionSpacing / 2

	ring := m.localRing(elem)
	c := m.localCentroidOffset(elem, ring)
	n := len(ring)

	// displacement of each node from the centroid, and its perp-axis value
	d := make([]torus.Point, n)
	val := make([]float64, n)
	for i, p := range ring {
		d[i] = torus.Point{p[0] - c[0], p[1] - c[1]}
		val[i] = d[i][0]*perp[0] + d[i][1]*perp[1]
	}

	// step 1: find the two crossing edges
	var crossings []int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if (val[i] >= 0) != (val[j] >= 0) {
			crossings = append(crossings, i)
		}
	}
	if len(crossings) != 2 {
		return 0, simerrors.New(simerrors.GeometryError, "division axis crosses element %d boundary %d times, expected 2", elem.Index, len(crossings))
	}
	e1, e2 := crossings[0], crossings[1]
	// orient the crossings so that arcA (the nodes after e1) is the
	// positive-perp side, whichever side the ring happens to start on
	if val[(e1+1)%n] < 0 {
		e1, e2 = e2, e1
	}

	// the two arcs between the crossing edges
	arcA := ringSlice(n, e1+1, e2)   // nodes strictly between crossing e1 and e2 (inclusive)
	arcB := ringSlice(n, e2+1, e1)   // the other half, wrapping through 0

	buildStencil := func(arc []int, sign float64) ([]torus.Point, error) {
		pts := make([]torus.Point, len(arc))
		vs := make([]float64, len(arc))
		for i, idx := range arc {
			pts[i] = d[idx]
			vs[i] = val[idx]
		}
		startIdx, startPt, ok := arcFrontier(pts, vs, halfGap, sign, ax, perp)
		if !ok {
			return nil, simerrors.New(simerrors.DivisionSpacingError, "no node on element %d reaches the requested division spacing on one side", elem.Index)
		}
		revPts := make([]torus.Point, len(pts))
		revVs := make([]float64, len(vs))
		for i := range pts {
			revPts[i] = pts[len(pts)-1-i]
			revVs[i] = vs[len(vs)-1-i]
		}
		endIdxRev, endPt, ok := arcFrontier(revPts, revVs, halfGap, sign, ax, perp)
		if !ok {
			return nil, simerrors.New(simerrors.DivisionSpacingError, "no node on element %d reaches the requested division spacing on one side", elem.Index)
		}
		endIdx := len(pts) - 1 - endIdxRev
		if endIdx < startIdx {
			// arc too short to hold both frontiers distinctly; fall back to
			// the single extremal node
			startIdx, endIdx = 0, len(pts)-1
			startPt, endPt = pts[0], pts[len(pts)-1]
		}
		stencil := append([]torus.Point{startPt}, pts[startIdx+1:endIdx]...)
		stencil = append(stencil, endPt)
		return stencil, nil
	}

	stencilA, err := buildStencil(arcA, 1)
	if err != nil {
		return 0, err
	}
	stencilB, err := buildStencil(arcB, -1)
	if err != nil {
		return 0, err
	}

	numNodes := elem.NumNodes()
	samplesA := resamplePolyline(stencilA, numNodes)
	samplesB := resamplePolyline(stencilB, numNodes)

	// place_original_below: false => original keeps the positive-perp
	// (arcA, "above") daughter; true => original keeps arcB ("below")
	origSamples, newSamples := samplesA, samplesB
	if placeOriginalBelow {
		origSamples, newSamples = samplesB, samplesA
	}

	p0 := m.ElementNodes(elem)[0].Loc
	centroidPoint := torus.Add(p0, torus.Point{c[0], c[1]})

	// elemNodesOrig[i] is the node that contributed ring[i]/d[i]/val[i]
	// above; newSamples[i] is its new-daughter counterpart, so this is the
	// correspondence used to copy attribute vectors below (§4.2.1 step 6).
	elemNodesOrig := append([]*Node(nil), m.ElementNodes(elem)...)

	// move the original element's nodes onto origSamples; these are the
	// same *Node objects as elemNodesOrig, so their Attrs are untouched and
	// need no copying
	for i, ni := range elem.Nodes {
		m.nodeByIndex[ni].Loc = torus.Add(centroidPoint, origSamples[i])
	}
	elem.invalidateSpacing()

	// allocate fresh nodes for the new daughter, copying each one's
	// attribute vector from its pre-division counterpart so that a force
	// module's AttachOnce extension (e.g. CellCellInteraction's protein
	// slots) survives division instead of leaving the new nodes at
	// zero-length Attrs (mesh invariant 5)
	newNodeIdx := make([]int, numNodes)
	for i := 0; i < numNodes; i++ {
		idx := m.allocNodeIndex()
		nn := NewNode(idx, torus.Add(centroidPoint, newSamples[i]))
		nn.Region = RegionNone
		if src := elemNodesOrig[i]; len(src.Attrs) > 0 {
			nn.EnsureAttrs(len(src.Attrs))
			copy(nn.Attrs, src.Attrs)
		}
		m.addNode(nn)
		newNodeIdx[i] = idx
	}

	newElem := NewElement(m.allocElemIndex(), newNodeIdx, elem.SpringConstant, elem.RestLength)
	for k, v := range elem.Attrs {
		newElem.Attrs[k] = v
	}
	newElem.Corners = elem.Corners
	for _, ni := range newNodeIdx {
		m.nodeByIndex[ni].Elements[newElem.Index] = true
	}
	m.addElement(newElem)

	if err := m.refreshElementSource(elem); err != nil {
		return 0, err
	}
	c2, err := m.CentroidOf(newElem)
	if err != nil {
		return 0, err
	}
	src := &FluidSource{Index: m.nextSourceIdx, Loc: c2, Strength: 0}
	m.nextSourceIdx++
	newElem.Source = len(m.ElementSources)
	m.ElementSources = append(m.ElementSources, src)

	m.RecomputeMeanNodeSpacing()
	return newElem.Index, nil
}

// DivideAlongShortAxis divides elem along its own short axis (§4.2)
func (m *Mesh) DivideAlongShortAxis(elem *Element, placeOriginalBelow bool) (int, error) {
	axis := m.ShortAxisOf(elem)
	return m.DivideAlongAxis(elem, axis, placeOriginalBelow)
}

// ringSlice returns the ring indices from `from` to `to` inclusive, wrapping
// modulo n if to < from
func ringSlice(n, from, to int) []int {
	from = wrapIndex(from, n)
	to = wrapIndex(to, n)
	var out []int
	i := from
	for {
		out = append(out, i)
		if i == to {
			break
		}
		i = wrapIndex(i+1, n)
	}
	return out
}
