// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// NoCorner marks an unused corner-node slot
const NoCorner = -1

// Element is a closed ordered polygon over nodes (or, for the one mesh-wide
// membrane element, a non-closed polyline). Traversal order of Nodes defines
// positive orientation (§3).
type Element struct {
	Index          int     // stable identifier
	Nodes          []int   // ordered node indices
	SpringConstant float64 // membrane spring constant
	RestLength     float64 // membrane rest length
	Source         int     // index into Mesh.ElementSources, or -1 if none (membrane)
	Corners        [4]int  // up to four corner-node markers, NoCorner if unused
	Attrs          map[string]float64

	spacingCached bool
	spacing       float64 // average_node_spacing_of cache
}

// NewElement builds an element with the given ordered node indices
func NewElement(index int, nodes []int, springConstant, restLength float64) *Element {
	e := &Element{
		Index:          index,
		Nodes:          nodes,
		SpringConstant: springConstant,
		RestLength:     restLength,
		Source:         -1,
		Attrs:          make(map[string]float64),
	}
	e.Corners = [4]int{NoCorner, NoCorner, NoCorner, NoCorner}
	return e
}

// NumNodes returns the number of nodes in the element's ring
func (e *Element) NumNodes() int {
	return len(e.Nodes)
}

// invalidateSpacing marks the cached average node spacing stale; called
// whenever the element's node set or positions materially change (division)
func (e *Element) invalidateSpacing() {
	e.spacingCached = false
}
