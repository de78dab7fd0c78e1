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

// Edge is a directed geodesic edge between two points on the unit sphere.
type Edge struct {
	V0, V1 s2.Point
}

// edgeSet is a multiset of directed edges indexed by outgoing vertex.
// Sources are remembered in first-occurrence order and destinations in
// insertion order, so enumeration (and therefore loop assembly) is
// reproducible for a given input order.
type edgeSet struct {
	edges map[s2.Point][]s2.Point
	// order holds sources in the order they first appeared. Sources whose
	// bag has drained are kept; scans skip them.
	order []s2.Point
	count int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{edges: make(map[s2.Point][]s2.Point)}
}

func (e *edgeSet) add(v0, v1 s2.Point) {
	bag, ok := e.edges[v0]
	if !ok {
		e.order = append(e.order, v0)
	}
	e.edges[v0] = append(bag, v1)
	e.count++
}

// erase removes one occurrence of (v0,v1), preserving the order of the
// remaining destinations. It reports whether an occurrence was found.
func (e *edgeSet) erase(v0, v1 s2.Point) bool {
	bag := e.edges[v0]
	for i, d := range bag {
		if d == v1 {
			e.edges[v0] = append(bag[:i:i], bag[i+1:]...)
			e.count--
			return true
		}
	}
	return false
}

func (e *edgeSet) contains(v0, v1 s2.Point) bool {
	for _, d := range e.edges[v0] {
		if d == v1 {
			return true
		}
	}
	return false
}

// countOf returns the number of occurrences of the directed edge (v0,v1).
func (e *edgeSet) countOf(v0, v1 s2.Point) int {
	n := 0
	for _, d := range e.edges[v0] {
		if d == v1 {
			n++
		}
	}
	return n
}

// outgoing returns the destinations reachable from v0 in insertion order.
// The returned slice is the live bag; callers must not retain it across
// mutations.
func (e *edgeSet) outgoing(v0 s2.Point) []s2.Point {
	return e.edges[v0]
}

func (e *edgeSet) numEdges() int {
	return e.count
}

// sources returns the outgoing vertices in first-occurrence order,
// including ones whose bags have drained.
func (e *edgeSet) sources() []s2.Point {
	return e.order
}

// forEach visits every directed edge in deterministic order: sources in
// first-occurrence order, destinations in insertion order. The set must
// not be mutated during the walk.
func (e *edgeSet) forEach(fn func(v0, v1 s2.Point)) {
	for _, v0 := range e.order {
		for _, v1 := range e.edges[v0] {
			fn(v0, v1)
		}
	}
}
