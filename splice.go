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

import "github.com/golang/geo/s2"

// spliceEdges inserts every vertex into any non-incident edge passing
// within the splice radius, subdividing that edge. Subdivided halves can
// in turn pass near other vertices, so passes repeat until none splits.
// Termination: an edge can absorb each vertex at most once, and no new
// vertices are created.
func (b *Builder) spliceEdges() {
	radius := b.opts.SpliceRadius()
	vertices := b.distinctVertices()

	index := newEdgeIndex()
	for _, e := range b.logicalEdges() {
		index.insert(e)
	}

	for spliced := true; spliced; {
		spliced = false
		for _, v := range vertices {
			for _, e := range index.search(v, radius) {
				if v == e.V0 || v == e.V1 {
					continue
				}
				// XOR during earlier splits may have cancelled this edge;
				// drop the stale entry.
				if !b.edges.contains(e.V0, e.V1) {
					index.remove(e)
					continue
				}
				b.splitEdge(e, v, index)
				spliced = true
			}
		}
	}
}

// splitEdge replaces every occurrence of edge e with the pair (V0,v),
// (v,V1). Replacement goes through the canonical insertion path so that
// sibling pairs and XOR cancellation are honored.
func (b *Builder) splitEdge(e Edge, v s2.Point, index *edgeIndex) {
	n := b.edges.countOf(e.V0, e.V1)
	for i := 0; i < n; i++ {
		b.eraseEdge(e.V0, e.V1)
	}
	index.remove(e)

	for i := 0; i < n; i++ {
		b.addEdge(e.V0, v)
		b.addEdge(v, e.V1)
	}
	for _, sub := range []Edge{{e.V0, v}, {v, e.V1}} {
		if b.edges.contains(sub.V0, sub.V1) {
			index.insert(sub)
		}
	}
}
