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
	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// arcEntry wraps an indexed geodesic arc for R-tree storage. Every point
// of the arc lies within angle L/2 of the arc midpoint, where L is the
// arc length, so the cube of half-width chord(L/2) around the midpoint
// bounds the whole arc.
type arcEntry struct {
	edge Edge
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *arcEntry) Bounds() rtreego.Rect {
	return e.rect
}

// edgeIndex answers fixed-radius queries over geodesic arcs: which arcs
// pass within a given angular distance of a query point. Entries are
// keyed by directed edge; inserting a present key or removing an absent
// one is a no-op.
type edgeIndex struct {
	tree    *rtreego.Rtree
	entries map[Edge]*arcEntry
}

func newEdgeIndex() *edgeIndex {
	return &edgeIndex{
		tree:    rtreego.NewTree(3, 5, 10),
		entries: make(map[Edge]*arcEntry),
	}
}

func (x *edgeIndex) insert(e Edge) {
	if _, ok := x.entries[e]; ok {
		return
	}
	mid := s2.Interpolate(0.5, e.V0, e.V1)
	entry := &arcEntry{
		edge: e,
		rect: cubeAround(mid, chordLength(e.V0.Distance(e.V1)/2)),
	}
	x.entries[e] = entry
	x.tree.Insert(entry)
}

func (x *edgeIndex) remove(e Edge) {
	entry, ok := x.entries[e]
	if !ok {
		return
	}
	delete(x.entries, e)
	x.tree.Delete(entry)
}

// search returns the indexed arcs whose distance from p is at most the
// given angular radius. Chord lengths are subadditive in the angle, so
// the box query (query half-width chord(r), entry half-width chord(L/2))
// cannot miss an arc within range; hits are filtered exactly.
func (x *edgeIndex) search(p s2.Point, radius s1.Angle) []Edge {
	query := cubeAround(p, chordLength(radius))
	var out []Edge
	for _, spatial := range x.tree.SearchIntersect(query) {
		entry := spatial.(*arcEntry)
		if s2.DistanceFromSegment(p, entry.edge.V0, entry.edge.V1) <= radius {
			out = append(out, entry.edge)
		}
	}
	return out
}
