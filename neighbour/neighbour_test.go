// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neighbour

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/martinjrobins/ImmersedBoundary/mesh"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

func Test_neighbour01_close_pair_found(tst *testing.T) {

	chk.PrintTitle("neighbour01. two close nodes produce a candidate pair")

	nodes := []*mesh.Node{
		mesh.NewNode(0, torus.Point{0.5, 0.5}),
		mesh.NewNode(1, torus.Point{0.51, 0.5}),
		mesh.NewNode(2, torus.Point{0.01, 0.01}),
	}

	c, err := NewCollection(0.1)
	if err != nil {
		tst.Fatalf("NewCollection failed: %v", err)
	}
	c.Rebuild(nodes)

	found := false
	for _, p := range c.Pairs {
		if (p.A == 0 && p.B == 1) || (p.A == 1 && p.B == 0) {
			found = true
		}
		if p.A == p.B {
			tst.Errorf("self-pair produced: %v", p)
		}
	}
	if !found {
		tst.Errorf("expected a candidate pair between nodes 0 and 1, got %v", c.Pairs)
	}

	// node 2 is far from both 0 and 1; it must not pair with either
	for _, p := range c.Pairs {
		if p.A == 2 || p.B == 2 {
			tst.Errorf("unexpected pair involving isolated node 2: %v", p)
		}
	}
}

func Test_neighbour02_no_duplicate_pairs(tst *testing.T) {

	chk.PrintTitle("neighbour02. each unordered pair is produced at most once")

	nodes := make([]*mesh.Node, 0, 20)
	idx := 0
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			nodes = append(nodes, mesh.NewNode(idx, torus.Point{float64(i) * 0.05, float64(j) * 0.05}))
			idx++
		}
	}

	c, err := NewCollection(0.2)
	if err != nil {
		tst.Fatalf("NewCollection failed: %v", err)
	}
	c.Rebuild(nodes)

	seen := make(map[[2]int]bool)
	for _, p := range c.Pairs {
		key := [2]int{p.A, p.B}
		if p.A > p.B {
			key = [2]int{p.B, p.A}
		}
		if seen[key] {
			tst.Errorf("duplicate pair %v", p)
		}
		seen[key] = true
	}
}

func Test_neighbour03_rejects_nonpositive_side(tst *testing.T) {

	chk.PrintTitle("neighbour03. NewCollection rejects non-positive side length")

	if _, err := NewCollection(0); err == nil {
		tst.Fatalf("expected ConfigError for side=0")
	}
}
