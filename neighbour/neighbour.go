// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package neighbour implements the periodic uniform box/bin candidate-pair
// search of §4.6: a scoped resource rebuilt at cadence boundaries, not a
// per-step allocation.
package neighbour

import (
	"math"

	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/simerrors"
)

// Pair is one candidate (a,b) node-index pair produced by a Rebuild
type Pair struct {
	A, B int
}

// halfOffsets is the "half" selection of the 9-box (self + 8 neighbours)
// Moore neighbourhood that visits every unordered box-pair exactly once:
// the self box plus the four boxes "ahead" in box-traversal order.
var halfOffsets = [5][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {-1, 1}}

// Collection is the box tiling of the torus at a fixed side length (the
// population's interaction radius). It is rebuilt wholesale by Rebuild, not
// incrementally updated.
type Collection struct {
	Side       float64
	Nx, Ny     int
	Pairs      []Pair
	Neighbours map[int][]int // optional per-node candidate set

	boxOf   map[int][2]int
	members map[[2]int][]int
}

// NewCollection builds an (empty, unrebuilt) box collection with the given
// box side length (the population's interaction radius, §4.6)
func NewCollection(side float64) (*Collection, error) {
	if side <= 0 {
		return nil, simerrors.New(simerrors.ConfigError, "neighbour box side (interaction_distance) must be positive, got %v", side)
	}
	n := int(math.Floor(1.0 / side))
	if n < 1 {
		n = 1
	}
	return &Collection{Side: side, Nx: n, Ny: n}, nil
}

// Rebuild re-tiles the torus and recomputes every candidate pair from
// scratch against the given node set (§4.6; §5 "rebuilt at cadence
// boundaries").
func (c *Collection) Rebuild(nodes []*mesh.Node) {
	c.boxOf = make(map[int][2]int, len(nodes))
	c.members = make(map[[2]int][]int)
	for _, n := range nodes {
		key := c.boxIndex(n.Loc[0], n.Loc[1])
		c.boxOf[n.Index] = key
		c.members[key] = append(c.members[key], n.Index)
	}

	c.Pairs = c.Pairs[:0]
	c.Neighbours = make(map[int][]int, len(nodes))

	visited := make(map[[2][2]int]bool)
	for key, here := range c.members {
		for _, off := range halfOffsets {
			okey := [2]int{wrapIdx(key[0]+off[0], c.Nx), wrapIdx(key[1]+off[1], c.Ny)}
			if off != [2]int{0, 0} && okey == key {
				// box grid too coarse for this offset to reach a distinct
				// box (Nx or Ny == 1); skip to avoid re-visiting the self
				// box and manufacturing a self-pair.
				continue
			}
			if off == [2]int{0, 0} {
				for i := 0; i < len(here); i++ {
					for j := i + 1; j < len(here); j++ {
						c.addPair(here[i], here[j])
					}
				}
				continue
			}
			// on a grid only 2 boxes wide, two offsets (or both boxes of a
			// pair) can reach the same neighbouring box; visit each
			// unordered box pair once
			bp := [2][2]int{key, okey}
			if okey[0] < key[0] || (okey[0] == key[0] && okey[1] < key[1]) {
				bp = [2][2]int{okey, key}
			}
			if visited[bp] {
				continue
			}
			visited[bp] = true
			there := c.members[okey]
			for _, a := range here {
				for _, b := range there {
					c.addPair(a, b)
				}
			}
		}
	}
}

func (c *Collection) addPair(a, b int) {
	c.Pairs = append(c.Pairs, Pair{A: a, B: b})
	c.Neighbours[a] = append(c.Neighbours[a], b)
	c.Neighbours[b] = append(c.Neighbours[b], a)
}

// boxIndex returns the box containing (x, y)
func (c *Collection) boxIndex(x, y float64) [2]int {
	bx := wrapIdx(int(math.Floor(x*float64(c.Nx))), c.Nx)
	by := wrapIdx(int(math.Floor(y*float64(c.Ny))), c.Ny)
	return [2]int{bx, by}
}

func wrapIdx(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
