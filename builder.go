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
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// degenerateTolerance is the angular separation below which two endpoints
// are considered the same vertex, and above pi minus which they are
// considered antipodal. Antipodal endpoints do not determine a geodesic.
const degenerateTolerance = s1.Angle(1e-15)

// Builder assembles simple loops from an unordered multiset of geodesic
// edges. A Builder is not safe for concurrent use, and is single use:
// adding edges after assembly has run yields undefined results.
type Builder struct {
	opts     Options
	edges    *edgeSet
	prepared bool
}

// New returns a Builder with the given options, or a configuration error.
func New(opts Options) (*Builder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Builder{opts: opts, edges: newEdgeSet()}, nil
}

// Options returns the options the builder was constructed with.
func (b *Builder) Options() Options {
	return b.opts
}

// AddEdge adds a directed edge from v0 to v1. Degenerate edges, whose
// endpoints coincide or are antipodal, are dropped silently. Under
// UndirectedEdges the sibling edge (v1,v0) is added as well; under
// XorEdges a present reverse edge cancels instead of inserting.
func (b *Builder) AddEdge(v0, v1 s2.Point) {
	b.addEdge(v0, v1)
}

func (b *Builder) addEdge(v0, v1 s2.Point) {
	if degenerateEdge(v0, v1) {
		return
	}
	if b.opts.XorEdges && b.edges.contains(v1, v0) {
		b.eraseEdge(v1, v0)
		return
	}
	b.edges.add(v0, v1)
	if b.opts.UndirectedEdges {
		b.edges.add(v1, v0)
	}
}

// eraseEdge removes one occurrence of (v0,v1), and of its sibling under
// UndirectedEdges.
func (b *Builder) eraseEdge(v0, v1 s2.Point) {
	b.edges.erase(v0, v1)
	if b.opts.UndirectedEdges {
		b.edges.erase(v1, v0)
	}
}

func degenerateEdge(v0, v1 s2.Point) bool {
	if v0 == v1 {
		return true
	}
	d := v0.Distance(v1)
	return d < degenerateTolerance || d > s1.Angle(math.Pi)-degenerateTolerance
}

// AddLoop adds the boundary of the loop through the given vertices,
// closing the last vertex back to the first. Fewer than three vertices
// add nothing.
func (b *Builder) AddLoop(vertices []s2.Point) {
	n := len(vertices)
	if n < 3 {
		return
	}
	for i := 0; i < n; i++ {
		b.addEdge(vertices[i], vertices[(i+1)%n])
	}
}

// AddPolyline adds the edges of an open chain through the given vertices.
func (b *Builder) AddPolyline(vertices []s2.Point) {
	for i := 0; i+1 < len(vertices); i++ {
		b.addEdge(vertices[i], vertices[i+1])
	}
}

// AddPolygon adds the boundary of every loop of the polygon. Holes are
// traversed in reverse so the polygon interior is always to the left of
// the added edges.
func (b *Builder) AddPolygon(p *s2.Polygon) {
	for k := 0; k < p.NumLoops(); k++ {
		l := p.Loop(k)
		if l.IsEmpty() || l.IsFull() {
			continue
		}
		sign := 1
		if l.IsHole() {
			sign = -1
		}
		for i := l.NumVertices(); i > 0; i-- {
			b.addEdge(l.Vertex(i), l.Vertex(i+sign))
		}
	}
}

// distinctVertices returns every vertex incident to an edge, in
// deterministic first-appearance order.
func (b *Builder) distinctVertices() []s2.Point {
	var out []s2.Point
	seen := make(map[s2.Point]bool)
	b.edges.forEach(func(v0, v1 s2.Point) {
		if !seen[v0] {
			seen[v0] = true
			out = append(out, v0)
		}
		if !seen[v1] {
			seen[v1] = true
			out = append(out, v1)
		}
	})
	return out
}

// logicalEdges returns the edges of the multiset in deterministic order.
// Under UndirectedEdges each sibling pair contributes one edge, in the
// direction that forEach visits first.
func (b *Builder) logicalEdges() []Edge {
	var out []Edge
	if !b.opts.UndirectedEdges {
		b.edges.forEach(func(v0, v1 s2.Point) {
			out = append(out, Edge{v0, v1})
		})
		return out
	}
	skip := make(map[Edge]int)
	b.edges.forEach(func(v0, v1 s2.Point) {
		e := Edge{v0, v1}
		if skip[e] > 0 {
			skip[e]--
			return
		}
		out = append(out, e)
		skip[Edge{v1, v0}]++
	})
	return out
}

// snapVertices rewrites every endpoint to the center of the cell
// containing it at the given level.
func (b *Builder) snapVertices(level int) {
	snap := func(p s2.Point) s2.Point {
		return s2.CellFromPoint(p).ID().Parent(level).Point()
	}
	edges := b.logicalEdges()
	b.edges = newEdgeSet()
	for _, e := range edges {
		b.addEdge(snap(e.V0), snap(e.V1))
	}
}

// prepare runs the snapping, clustering and splicing stages once.
func (b *Builder) prepare() {
	if b.prepared {
		return
	}
	b.prepared = true
	if level := b.opts.SnapLevel(); level != NoSnapLevel {
		b.snapVertices(level)
	}
	if b.opts.VertexMergeRadius > 0 {
		b.moveVertices(b.buildMergeMap())
		if b.opts.EdgeSpliceFraction > 0 {
			b.spliceEdges()
		}
	}
}

// startingVertices returns the source scan order for assembly, rotated
// by the configured starting edge rotation.
func (b *Builder) startingVertices() []s2.Point {
	order := b.edges.sources()
	n := len(order)
	if n == 0 {
		return nil
	}
	rot := ((b.opts.StartingEdgeRotation % n) + n) % n
	out := make([]s2.Point, 0, n)
	out = append(out, order[rot:]...)
	out = append(out, order[:rot]...)
	return out
}

// assembleLoop walks forward from the directed edge (v0,v1), always
// taking the leftmost outgoing edge, until a vertex repeats (closing a
// cycle) or the walk dead-ends. Dead-end edges are erased into the
// unused list and the walk backtracks; when nothing is left to backtrack
// to, nil is returned. On success the closed cycle is returned and any
// prefix leading into it stays in the multiset.
func (b *Builder) assembleLoop(v0, v1 s2.Point, unused *[]Edge) []s2.Point {
	path := []s2.Point{v0, v1}
	// index maps a vertex to its position in path. path[0] is deliberately
	// absent: a walk arriving back at the start continues through it and
	// closes on path[1] one step later.
	index := map[s2.Point]int{v1: 1}

	for len(path) >= 2 {
		prev := path[len(path)-2]
		cur := path[len(path)-1]

		var next s2.Point
		found := false
		for _, c := range b.edges.outgoing(cur) {
			// Prefer the leftmost outgoing edge, ignoring the immediate
			// reverse edge.
			if c == prev {
				continue
			}
			if !found || s2.OrderedCCW(prev, next, c, cur) {
				next = c
			}
			found = true
		}

		if !found {
			*unused = append(*unused, Edge{prev, cur})
			b.eraseEdge(prev, cur)
			delete(index, cur)
			path = path[:len(path)-1]
			continue
		}

		if pos, ok := index[next]; ok {
			cycle := append([]s2.Point(nil), path[pos:]...)
			// With undirected edges the walk may have traced the reverse
			// winding, enclosing more than half the sphere. Reassembling
			// from the reversed first edge yields a loop interior to this
			// one, so the recursion terminates.
			if b.opts.UndirectedEdges && !cycleIsNormalized(cycle) {
				return b.assembleLoop(cycle[1], cycle[0], unused)
			}
			return cycle
		}

		index[next] = len(path)
		path = append(path, next)
	}
	return nil
}

// cycleIsNormalized reports whether the cycle encloses at most half the
// sphere.
func cycleIsNormalized(cycle []s2.Point) bool {
	pts := append([]s2.Point(nil), cycle...)
	return s2.LoopFromPoints(pts).Area() <= 2*math.Pi
}

// AssembleLoops runs the snapping, clustering and splicing stages, then
// extracts simple loops until no more can be formed. It returns the
// loops, the edges that could not be placed into any simple loop, and
// whether that list is empty. The builder must not be used afterwards.
func (b *Builder) AssembleLoops() ([]*s2.Loop, []Edge, bool) {
	b.prepare()

	var loops []*s2.Loop
	unused := []Edge{}
	emitted := make(map[string]bool)

	starts := b.startingVertices()
	for i := 0; i < len(starts); {
		v0 := starts[i]
		out := b.edges.outgoing(v0)
		if len(out) == 0 {
			i++
			continue
		}
		cycle := b.assembleLoop(v0, out[0], &unused)
		if cycle == nil {
			continue
		}
		b.eraseCycle(cycle)

		key := b.cycleKey(cycle)
		if emitted[key] {
			// The same loop was already produced from another starting
			// edge; duplicating it in the output would be invalid.
			unused = append(unused, cycleEdges(cycle)...)
			continue
		}

		if b.opts.Validate {
			if err := validateCycle(cycle); err != nil {
				log.Printf("polybuild: rejecting invalid loop: %v", err)
				unused = append(unused, cycleEdges(cycle)...)
				continue
			}
		}
		emitted[key] = true
		loops = append(loops, s2.LoopFromPoints(cycle))
	}
	return loops, unused, len(unused) == 0
}

// AssemblePolygon assembles loops and nests them into a polygon with
// containment-derived orientation: loops at odd containment depth are
// holes and wind clockwise. With Validate on, an invalid polygon is
// dropped and all its edges are reported unused.
func (b *Builder) AssemblePolygon() (*s2.Polygon, []Edge, bool) {
	loops, unused, ok := b.AssembleLoops()
	if len(loops) == 0 {
		return s2.PolygonFromLoops(nil), unused, ok
	}

	// Normalize so every loop encloses at most half the sphere before
	// asking the containment oracle about nesting.
	for _, l := range loops {
		if l.Area() > 2*math.Pi {
			l.Invert()
		}
	}
	depths := make([]int, len(loops))
	for i, l := range loops {
		for j, o := range loops {
			if i != j && o.Contains(l) {
				depths[i]++
			}
		}
	}
	for i, l := range loops {
		if depths[i]%2 == 1 {
			l.Invert()
		}
	}

	poly := s2.PolygonFromOrientedLoops(loops)
	if b.opts.Validate {
		if err := poly.Validate(); err != nil {
			log.Printf("polybuild: rejecting invalid polygon: %v", err)
			for _, l := range loops {
				unused = append(unused, cycleEdges(l.Vertices())...)
			}
			return s2.PolygonFromLoops(nil), unused, false
		}
	}
	return poly, unused, ok
}

// validateCycle reports whether the cycle is a valid output loop: at
// least three vertices and no crossing between non-adjacent edges.
// Edges that merely share a vertex do not count as crossing.
func validateCycle(cycle []s2.Point) error {
	n := len(cycle)
	if n < 3 {
		return fmt.Errorf("loop has %d vertices, need at least 3", n)
	}
	for i := 0; i < n; i++ {
		a, b := cycle[i], cycle[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			c, d := cycle[j], cycle[(j+1)%n]
			if s2.CrossingSign(a, b, c, d) == s2.Cross {
				return fmt.Errorf("edge %d crosses edge %d", i, j)
			}
		}
	}
	return nil
}

// eraseCycle removes the cycle's edges (and their siblings, under
// UndirectedEdges) from the multiset.
func (b *Builder) eraseCycle(cycle []s2.Point) {
	for i, v := range cycle {
		b.eraseEdge(v, cycle[(i+1)%len(cycle)])
	}
}

func cycleEdges(cycle []s2.Point) []Edge {
	out := make([]Edge, 0, len(cycle))
	for i, v := range cycle {
		out = append(out, Edge{v, cycle[(i+1)%len(cycle)]})
	}
	return out
}

// cycleKey is a canonical form for duplicate-loop detection: the cycle
// rotated to start at its lexicographically smallest vertex and, under
// UndirectedEdges, the smaller of the two traversal directions.
func (b *Builder) cycleKey(cycle []s2.Point) string {
	key := rotatedKey(cycle)
	if b.opts.UndirectedEdges {
		rev := make([]s2.Point, len(cycle))
		for i, v := range cycle {
			rev[len(cycle)-1-i] = v
		}
		if rk := rotatedKey(rev); rk < key {
			key = rk
		}
	}
	return key
}

func rotatedKey(cycle []s2.Point) string {
	start := 0
	for i, v := range cycle {
		if pointLess(v, cycle[start]) {
			start = i
		}
	}
	var sb strings.Builder
	for i := range cycle {
		p := cycle[(start+i)%len(cycle)]
		fmt.Fprintf(&sb, "%v,%v,%v;", p.X, p.Y, p.Z)
	}
	return sb.String()
}

func pointLess(a, b s2.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
