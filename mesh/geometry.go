// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
	"github.com/martinjrobins/ImmersedBoundary/torus"
)

// localRing returns the element's node locations expressed as shortest-vector
// displacements from node 0 (§4.2 "relative to node 0"); ring[0] is always
// (0,0).
func (m *Mesh) localRing(e *Element) []torus.Point {
	nodes := m.ElementNodes(e)
	ring := make([]torus.Point, len(nodes))
	p0 := nodes[0].Loc
	for i, n := range nodes {
		v := torus.VectorFrom(p0, n.Loc)
		ring[i] = torus.Point{v[0], v[1]}
	}
	return ring
}

// shoelaceSigned returns twice the signed shoelace area of a closed ring
// already expressed in a common local frame
func shoelaceSigned(ring []torus.Point) float64 {
	n := len(ring)
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum
}

// VolumeOf returns the element's (polygon) area: the absolute shoelace sum
// over shortest-vector edges from node 0 (§4.2 volume_of)
func (m *Mesh) VolumeOf(e *Element) float64 {
	if m.IsMembrane(e.Index) {
		return 0
	}
	ring := m.localRing(e)
	return math.Abs(shoelaceSigned(ring)) / 2
}

// SurfaceAreaOf returns the sum of torus distances between consecutive nodes
// (§4.2 surface_area_of). Closed for ordinary elements, open (no wrap-around
// edge) for the membrane polyline.
func (m *Mesh) SurfaceAreaOf(e *Element) float64 {
	nodes := m.ElementNodes(e)
	n := len(nodes)
	if n < 2 {
		return 0
	}
	var total float64
	limit := n
	if m.IsMembrane(e.Index) {
		limit = n - 1
	}
	for i := 0; i < limit; i++ {
		j := (i + 1) % n
		total += torus.Distance(nodes[i].Loc, nodes[j].Loc)
	}
	return total
}

// AverageNodeSpacingOf returns surface_area / num_nodes, cached on the
// element unless recompute is true (§4.2)
func (m *Mesh) AverageNodeSpacingOf(e *Element, recompute bool) float64 {
	if !recompute && e.spacingCached {
		return e.spacing
	}
	n := e.NumNodes()
	if n == 0 {
		e.spacing = 0
	} else {
		e.spacing = m.SurfaceAreaOf(e) / float64(n)
	}
	e.spacingCached = true
	return e.spacing
}

// CentroidOf returns the element's centroid mapped back into [0,1)^2
// (§4.2). Returns (0,0) for the membrane element.
func (m *Mesh) CentroidOf(e *Element) (torus.Point, error) {
	if m.IsMembrane(e.Index) {
		return torus.Point{0, 0}, nil
	}
	nodes := m.ElementNodes(e)
	p0 := nodes[0].Loc
	ring := m.localRing(e)
	n := len(ring)
	a2 := shoelaceSigned(ring) // = 2*signed area
	if math.Abs(a2) < 1e-300 {
		return p0, nil
	}
	var cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
		cx += (ring[i][0] + ring[j][0]) * cross
		cy += (ring[i][1] + ring[j][1]) * cross
	}
	cx /= 3 * a2
	cy /= 3 * a2
	return torus.Add(p0, torus.Point{cx, cy}), nil
}

// localCentroidOffset returns the element's centroid expressed in the same
// local (node-0-relative) frame as localRing, without wrapping
func (m *Mesh) localCentroidOffset(e *Element, ring []torus.Point) torus.Point {
	n := len(ring)
	a2 := shoelaceSigned(ring)
	if math.Abs(a2) < 1e-300 {
		return torus.Point{0, 0}
	}
	var cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
		cx += (ring[i][0] + ring[j][0]) * cross
		cy += (ring[i][1] + ring[j][1]) * cross
	}
	return torus.Point{cx / (3 * a2), cy / (3 * a2)}
}

// MomentsOf returns the element's second moments (Ixx, Iyy, Ixy) about its
// centroid, signed so that Ixx >= 0 (§4.2)
func (m *Mesh) MomentsOf(e *Element) (ixx, iyy, ixy float64) {
	ring := m.localRing(e)
	c := m.localCentroidOffset(e, ring)
	n := len(ring)
	d := make([]torus.Point, n)
	for i, p := range ring {
		d[i] = torus.Point{p[0] - c[0], p[1] - c[1]}
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := d[i][0]*d[j][1] - d[j][0]*d[i][1]
		ixx += cross * (d[i][1]*d[i][1] + d[i][1]*d[j][1] + d[j][1]*d[j][1])
		iyy += cross * (d[i][0]*d[i][0] + d[i][0]*d[j][0] + d[j][0]*d[j][0])
		ixy += cross * (d[i][0]*d[j][1] + 2*d[i][0]*d[i][1] + 2*d[j][0]*d[j][1] + d[j][0]*d[i][1])
	}
	ixx /= 12
	iyy /= 12
	ixy /= 24
	if ixx < 0 {
		ixx, iyy, ixy = -ixx, -iyy, -ixy
	}
	return
}

// eigSym2x2 returns the eigenvalues (lo <= hi) and the unit eigenvector
// associated with hi, for the symmetric 2x2 matrix [[a,b],[b,c]]
func eigSym2x2(a, b, c float64) (lo, hi float64, vec [2]float64) {
	tr := a + c
	disc := (a-c)*(a-c) + 4*b*b
	sq := math.Sqrt(math.Max(disc, 0))
	lo = (tr - sq) / 2
	hi = (tr + sq) / 2
	if disc < 1e-10 {
		theta := rnd.Float64(0, 2*math.Pi)
		return lo, hi, [2]float64{math.Cos(theta), math.Sin(theta)}
	}
	if b != 0 {
		vec = [2]float64{hi - c, b}
	} else if a >= c {
		vec = [2]float64{1, 0}
	} else {
		vec = [2]float64{0, 1}
	}
	norm := math.Hypot(vec[0], vec[1])
	if norm > 0 {
		vec[0] /= norm
		vec[1] /= norm
	}
	return
}

// ShortAxisOf returns the eigenvector of the inertia matrix [[Ixx,Ixy],[Ixy,Iyy]]
// associated with its larger eigenvalue (§4.2); for a near-circular element
// (discriminant < 1e-10) it returns a unit vector drawn uniformly at random.
func (m *Mesh) ShortAxisOf(e *Element) [2]float64 {
	ixx, iyy, ixy := m.MomentsOf(e)
	_, _, vec := eigSym2x2(ixx, ixy, iyy)
	return vec
}

// ElongationShapeFactor returns sqrt(lambda_max/lambda_min) of the inertia
// matrix (§4.2); 1 for a perfect circle.
func (m *Mesh) ElongationShapeFactor(e *Element) float64 {
	ixx, iyy, ixy := m.MomentsOf(e)
	lo, hi, _ := eigSym2x2(ixx, ixy, iyy)
	if lo <= 0 {
		return 1
	}
	return math.Sqrt(hi / lo)
}

// Tortuosity returns total_centroid_path / straight_centroid_distance along
// the sequence of non-membrane element centroids (§4.2)
func (m *Mesh) Tortuosity() (float64, error) {
	var centroids []torus.Point
	for _, e := range m.Elements {
		if m.IsMembrane(e.Index) {
			continue
		}
		c, err := m.CentroidOf(e)
		if err != nil {
			return 0, err
		}
		centroids = append(centroids, c)
	}
	if len(centroids) < 2 {
		return 1, nil
	}
	var path float64
	for i := 0; i+1 < len(centroids); i++ {
		path += torus.Distance(centroids[i], centroids[i+1])
	}
	d := torus.Distance(centroids[0], centroids[len(centroids)-1])
	straight := math.Max(d, 1-d)
	if straight <= 0 {
		return 1, nil
	}
	return path / straight, nil
}

// BoundingBox returns the element's axis-aligned bounding box as (min,max)
// offsets relative to node 0, computed via shortest-vector displacements
// (§4.2)
func (m *Mesh) BoundingBox(e *Element) (min, max [2]float64) {
	ring := m.localRing(e)
	min = ring[0]
	max = ring[0]
	for _, p := range ring[1:] {
		if p[0] < min[0] {
			min[0] = p[0]
		}
		if p[1] < min[1] {
			min[1] = p[1]
		}
		if p[0] > max[0] {
			max[0] = p[0]
		}
		if p[1] > max[1] {
			max[1] = p[1]
		}
	}
	return
}

// momentIntegral returns the exact integral of x^k * w(x) dx over [x0,x1]
// where w is linear with w(x0)=w0, w(x1)=w1
func momentIntegral(x0, w0, x1, w1 float64, k int) float64 {
	if x1 == x0 {
		return 0
	}
	b := (w1 - w0) / (x1 - x0)
	a := w0 - b*x0
	kf := float64(k)
	return a*(math.Pow(x1, kf+1)-math.Pow(x0, kf+1))/(kf+1) + b*(math.Pow(x1, kf+2)-math.Pow(x0, kf+2))/(kf+2)
}

// SkewnessOfMassDistribution rotates the polygon so axis becomes vertical,
// builds the piecewise-linear mass pdf by vertical slicing, and returns the
// third standardised moment of that pdf (§4.2)
func (m *Mesh) SkewnessOfMassDistribution(e *Element, axis [2]float64) float64 {
	ring := m.localRing(e)
	c := m.localCentroidOffset(e, ring)
	n := len(ring)

	norm := math.Hypot(axis[0], axis[1])
	ax := [2]float64{axis[0] / norm, axis[1] / norm}
	perp := [2]float64{-ax[1], ax[0]}

	// rotate so axis is vertical: x' = dot(perp, d), y' = dot(axis, d)
	xp := make([]float64, n)
	for i := 0; i < n; i++ {
		dx, dy := ring[i][0]-c[0], ring[i][1]-c[1]
		xp[i] = dx*perp[0] + dy*perp[1]
	}

	// station x-values: every node's rotated x-coordinate, sorted+unique
	stations := append([]float64(nil), xp...)
	sort.Float64s(stations)
	uniq := stations[:0]
	for i, s := range stations {
		if i == 0 || s-uniq[len(uniq)-1] > 1e-14 {
			uniq = append(uniq, s)
		}
	}
	stations = uniq
	if len(stations) < 2 {
		return 0
	}

	width := make([]float64, len(stations))
	nonConvex := false
	for si, x := range stations {
		var ys []float64
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			dxi, dyi := ring[i][0]-c[0], ring[i][1]-c[1]
			dxj, dyj := ring[j][0]-c[0], ring[j][1]-c[1]
			xi := dxi*perp[0] + dyi*perp[1]
			xj := dxj*perp[0] + dyj*perp[1]
			yi := dxi*ax[0] + dyi*ax[1]
			yj := dxj*ax[0] + dyj*ax[1]
			lo, hi := xi, xj
			if lo > hi {
				lo, hi = hi, lo
			}
			if x < lo-1e-12 || x > hi+1e-12 || hi-lo < 1e-14 {
				continue
			}
			t := (x - xi) / (xj - xi)
			ys = append(ys, yi+t*(yj-yi))
		}
		if len(ys) < 2 {
			width[si] = 0
			continue
		}
		if len(ys) > 2 {
			nonConvex = true
		}
		sort.Float64s(ys)
		width[si] = ys[len(ys)-1] - ys[0]
	}
	if nonConvex && !m.warnedSkewness[e.Index] {
		io.Pfyel("WARNING: skewness_of_mass_distribution: element %d is non-convex along the chosen axis; falling back to outermost intersections\n", e.Index)
		m.warnedSkewness[e.Index] = true
	}

	var m0, m1 float64
	for i := 0; i+1 < len(stations); i++ {
		m0 += momentIntegral(stations[i], width[i], stations[i+1], width[i+1], 0)
		m1 += momentIntegral(stations[i], width[i], stations[i+1], width[i+1], 1)
	}
	if m0 <= 0 {
		return 0
	}
	mean := m1 / m0

	shifted := make([]float64, len(stations))
	for i, s := range stations {
		shifted[i] = s - mean
	}
	var m0s, m2s, m3s float64
	for i := 0; i+1 < len(shifted); i++ {
		m0s += momentIntegral(shifted[i], width[i], shifted[i+1], width[i+1], 0)
		m2s += momentIntegral(shifted[i], width[i], shifted[i+1], width[i+1], 2)
		m3s += momentIntegral(shifted[i], width[i], shifted[i+1], width[i+1], 3)
	}
	if math.Abs(m0s/m0-1) > 1e-6 && !m.warnedSkewness[e.Index] {
		io.Pfyel("WARNING: skewness_of_mass_distribution: normalisation check failed for element %d (E[x^0]=%v)\n", e.Index, m0s/m0)
	}
	variance := m2s / m0
	if variance <= 0 {
		return 0
	}
	return (m3s / m0) / math.Pow(variance, 1.5)
}
