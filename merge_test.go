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
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

func TestDisjointSet(t *testing.T) {
	d := newDisjointSet(5)
	for i := 0; i < 5; i++ {
		if got := d.find(i); got != i {
			t.Errorf("find(%d) = %d, want %d", i, got, i)
		}
	}

	if !d.union(0, 1) {
		t.Error("union(0, 1) = false, want true")
	}
	if d.union(1, 0) {
		t.Error("union(1, 0) = true for joined sets")
	}
	d.union(2, 3)
	d.union(0, 3)

	if d.find(1) != d.find(2) {
		t.Error("1 and 2 not in the same set after unions")
	}
	if d.find(4) == d.find(0) {
		t.Error("4 joined without a union")
	}
}

// repsOf returns the set of distinct representatives the merge map sends
// the given vertices to.
func repsOf(m mergeMap, vertices []s2.Point) []s2.Point {
	seen := make(map[s2.Point]bool)
	var reps []s2.Point
	for _, v := range vertices {
		rep := v
		if r, ok := m[v]; ok {
			rep = r
		}
		if !seen[rep] {
			seen[rep] = true
			reps = append(reps, rep)
		}
	}
	return reps
}

func TestBuildMergeMapSingleLink(t *testing.T) {
	// 0:0 and 0:0.5 chain into one cluster; 0:1.2 is out of range of both
	// sites and of their representative.
	b, err := New(Options{VertexMergeRadius: s1.Angle(0.6) * s1.Degree})
	if err != nil {
		t.Fatal(err)
	}
	b.AddPolyline(parsePoints("0:0, 0:0.5, 0:1.2, 3:0, 3:0.4, 10:10"))

	vertices := b.distinctVertices()
	m := b.buildMergeMap()
	reps := repsOf(m, vertices)
	if got, want := len(reps), 4; got != want {
		t.Fatalf("got %d clusters, want %d (reps: %v)", got, want, pointsToString(reps))
	}

	// No two distinct representatives may remain within the merge radius.
	for i := 0; i < len(reps); i++ {
		for j := i + 1; j < len(reps); j++ {
			if d := reps[i].Distance(reps[j]); d <= b.opts.VertexMergeRadius {
				t.Errorf("representatives %v and %v are %v apart, within the merge radius",
					reps[i], reps[j], d)
			}
		}
	}
}

func TestBuildMergeMapIterates(t *testing.T) {
	// No site of the triangle {2:0, -2:0, 0:-1} is within range of 0:2,
	// but after the triangle collapses, its representative (near 0:-0.33)
	// is. A single union pass would leave two clusters; the fixed point
	// has one.
	b, err := New(Options{VertexMergeRadius: s1.Angle(2.5) * s1.Degree})
	if err != nil {
		t.Fatal(err)
	}
	b.AddPolyline(parsePoints("2:0, -2:0"))
	b.AddPolyline(parsePoints("0:-1, 0:2"))

	vertices := b.distinctVertices()
	if got := len(vertices); got != 4 {
		t.Fatalf("got %d vertices, want 4", got)
	}
	reps := repsOf(b.buildMergeMap(), vertices)
	if len(reps) != 1 {
		t.Fatalf("got %d clusters, want 1 (reps: %v)", len(reps), pointsToString(reps))
	}
	if d := reps[0].Distance(parsePoint("0:0.25")); d > s1.Angle(0.3)*s1.Degree {
		t.Errorf("representative %v is %v from the centroid of all sites",
			pointsToString(reps), d)
	}
}

func TestMoveVerticesConsumesCollapsedEdges(t *testing.T) {
	// Both endpoints cluster together, so the edge degenerates and is
	// consumed rather than reported unused.
	b, err := New(Options{VertexMergeRadius: s1.Degree})
	if err != nil {
		t.Fatal(err)
	}
	b.AddPolyline(parsePoints("0:0, 0:0.1"))

	loops, unused, ok := b.AssembleLoops()
	if len(loops) != 0 || len(unused) != 0 || !ok {
		t.Errorf("AssembleLoops() = %d loops, %d unused, ok=%t; want 0, 0, true",
			len(loops), len(unused), ok)
	}
	if got := b.edges.numEdges(); got != 0 {
		t.Errorf("%d edges left after assembly, want 0", got)
	}
}

func TestMoveVerticesRewritesEndpoints(t *testing.T) {
	b, err := New(Options{VertexMergeRadius: s1.Degree})
	if err != nil {
		t.Fatal(err)
	}
	// Two chains that meet only after their endpoints merge.
	b.AddPolyline(parsePoints("0:0, 0:10"))
	b.AddPolyline(parsePoints("0:10.1, 10:5"))

	b.prepare()

	var vertices []s2.Point
	seen := make(map[s2.Point]bool)
	b.edges.forEach(func(v0, v1 s2.Point) {
		for _, v := range []s2.Point{v0, v1} {
			if !seen[v] {
				seen[v] = true
				vertices = append(vertices, v)
			}
		}
	})
	if got, want := len(vertices), 3; got != want {
		t.Fatalf("got %d distinct endpoints after merging, want %d", got, want)
	}
	merged := parsePoint("0:10.05")
	found := false
	for _, v := range vertices {
		if v.Distance(merged) < s1.Angle(0.01)*s1.Degree {
			found = true
		}
	}
	if !found {
		t.Errorf("no endpoint near %v after merging; endpoints: %v",
			merged, pointsToString(vertices))
	}
}
