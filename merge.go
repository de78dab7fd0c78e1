//  Copyright (c) 2025 Couchbase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// 		http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package polybuild

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// disjointSet is a union-find structure over dense integer ids, with
// path compression and union by rank.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// union merges the sets containing x and y and reports whether they were
// distinct.
func (d *disjointSet) union(x, y int) bool {
	rx, ry := d.find(x), d.find(y)
	if rx == ry {
		return false
	}
	if d.rank[rx] < d.rank[ry] {
		rx, ry = ry, rx
	}
	d.parent[ry] = rx
	if d.rank[rx] == d.rank[ry] {
		d.rank[rx]++
	}
	return true
}

// mergeMap maps a vertex to its cluster representative. Vertices that are
// their own representative are omitted.
type mergeMap map[s2.Point]s2.Point

// buildMergeMap clusters the current edge endpoints so that sites within
// the merge radius share a representative. Clustering is single-link
// within the radius, run to a fixed point: after each round of unions the
// representative of every cluster is recomputed as the unit-normalized
// mean of its member sites and the representatives are re-indexed, since
// moving representatives can bring previously separated clusters within
// range of each other. The round count is bounded because the number of
// distinct representatives never increases.
func (b *Builder) buildMergeMap() mergeMap {
	sites := b.distinctVertices()
	if len(sites) < 2 {
		return nil
	}
	siteID := make(map[s2.Point]int, len(sites))
	for i, s := range sites {
		siteID[s] = i
	}

	d := newDisjointSet(len(sites))
	radius := b.opts.VertexMergeRadius

	// position holds each cluster's representative point, keyed by the
	// cluster's root site.
	position := make([]s2.Point, len(sites))
	copy(position, sites)

	for {
		// Index one entry per cluster, ordered by lowest member id so the
		// round is deterministic.
		roots := make([]int, 0, len(sites))
		seen := make(map[int]bool, len(sites))
		for i := range sites {
			r := d.find(i)
			if !seen[r] {
				seen[r] = true
				roots = append(roots, r)
			}
		}

		index := newPointIndex()
		for _, r := range roots {
			index.insert(position[r], r)
		}

		merged := false
		for _, r := range roots {
			for _, hit := range index.search(position[r], radius) {
				if d.union(r, hit.data) {
					merged = true
				}
			}
		}
		if !merged {
			break
		}

		// Recompute each cluster's representative as the unit-normalized
		// mean of its member sites.
		sums := make(map[int]r3.Vector, len(roots))
		for i, s := range sites {
			r := d.find(i)
			sums[r] = sums[r].Add(s.Vector)
		}
		for r, sum := range sums {
			position[r] = s2.Point{Vector: sum.Normalize()}
		}
	}

	m := make(mergeMap)
	for i, s := range sites {
		rep := position[d.find(i)]
		if rep != s {
			m[s] = rep
		}
	}
	return m
}

// moveVertices rewrites every edge so that both endpoints are cluster
// representatives. Edges are replayed through the canonical insertion
// path, so edges that collapse to a point are consumed and pairs that
// come to coincide are cancelled again under XOR.
func (b *Builder) moveVertices(m mergeMap) {
	if len(m) == 0 {
		return
	}
	rep := func(v s2.Point) s2.Point {
		if r, ok := m[v]; ok {
			return r
		}
		return v
	}
	edges := b.logicalEdges()
	b.edges = newEdgeSet()
	for _, e := range edges {
		b.addEdge(rep(e.V0), rep(e.V1))
	}
}
