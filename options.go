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
	"errors"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/google/go-units/unit"

	"github.com/blevesearch/polybuild/earth"
)

var (
	// ErrMergeRadius is returned by New when the vertex merge radius is
	// negative.
	ErrMergeRadius = errors.New("polybuild: vertex merge radius must be non-negative")

	// ErrRobustnessRadius is returned by New when the robustness radius is
	// negative.
	ErrRobustnessRadius = errors.New("polybuild: robustness radius must be non-negative")

	// ErrSpliceFraction is returned by New when the edge splice fraction is
	// neither zero nor within [sqrt(2)/2, 1].
	ErrSpliceFraction = errors.New("polybuild: edge splice fraction must be 0 or in [sqrt(2)/2, 1]")
)

// minSpliceFraction is the smallest usable non-zero edge splice fraction.
// Below sqrt(2)/2 the triangle inequality no longer keeps a spliced vertex
// at least a merge radius away from the unsplit remainder of the edge, and
// splicing could cascade without bound. The bound assumes non-incident
// edges are well separated; configurations below it are rejected.
const minSpliceFraction = math.Sqrt2 / 2

// NoSnapLevel is the sentinel returned by Options.SnapLevel when vertices
// are not snapped to cell centers.
const NoSnapLevel = -1

// Options configures a Builder. The zero value assembles directed edges
// with no merging, splicing, cancellation or snapping.
type Options struct {
	// UndirectedEdges treats every input edge (a,b) as the sibling pair of
	// directed edges (a,b) and (b,a). Internally the builder always works
	// with directed edges; siblings are inserted and retired together.
	UndirectedEdges bool

	// XorEdges makes duplicate edges cancel pairwise, giving the symmetric
	// difference of loop interiors. An added directed edge cancels a
	// present reverse edge; two loops traversing a shared boundary segment
	// with the same winding erase that segment. This is the mode to use
	// when assembling polygons from possibly-overlapping regions.
	XorEdges bool

	// Validate runs loop validity checks on every assembled loop (and on
	// the assembled polygon). Invalid output is dropped and its edges are
	// reported as unused, with a diagnostic logged.
	Validate bool

	// VertexMergeRadius is the angular radius within which distinct input
	// vertices may be clustered into a single representative. Zero
	// disables clustering.
	VertexMergeRadius s1.Angle

	// EdgeSpliceFraction scales VertexMergeRadius to obtain the splice
	// radius: a vertex passing within that distance of a non-incident edge
	// is inserted into it. Zero disables splicing; non-zero values must be
	// in [sqrt(2)/2, 1].
	EdgeSpliceFraction float64

	// SnapToCellCenters snaps every vertex to the center of the CellID
	// cell containing it, at the level selected by SnapLevel, before
	// clustering.
	SnapToCellCenters bool

	// RobustnessRadius is the maximum displacement snapping may introduce,
	// used to select the snap level.
	RobustnessRadius s1.Angle

	// StartingEdgeRotation rotates the deterministic order in which
	// starting edges are tried during assembly. The set of assembled loops
	// does not depend on it; it exists so tests can exercise different
	// assembly orders.
	StartingEdgeRotation int
}

// DirectedXorOptions returns options for assembling directed edges with
// symmetric-difference semantics.
func DirectedXorOptions() Options {
	return Options{XorEdges: true}
}

// UndirectedXorOptions returns options for assembling undirected edges
// with symmetric-difference semantics.
func UndirectedXorOptions() Options {
	return Options{UndirectedEdges: true, XorEdges: true}
}

func (o *Options) validate() error {
	if o.VertexMergeRadius < 0 {
		return ErrMergeRadius
	}
	if o.RobustnessRadius < 0 {
		return ErrRobustnessRadius
	}
	if f := o.EdgeSpliceFraction; f != 0 && (f < minSpliceFraction || f > 1) {
		return ErrSpliceFraction
	}
	return nil
}

// SpliceRadius returns the angular radius within which a vertex is
// spliced into a non-incident edge.
func (o *Options) SpliceRadius() s1.Angle {
	return s1.Angle(o.EdgeSpliceFraction) * o.VertexMergeRadius
}

// SnapLevel returns the cell level vertices are snapped to, or
// NoSnapLevel when snapping is disabled or no level keeps the snap
// displacement (half the maximum cell diagonal) within RobustnessRadius.
// The coarsest acceptable level is chosen; every deeper level would also
// respect the budget but snap less aggressively.
func (o *Options) SnapLevel() int {
	if !o.SnapToCellCenters {
		return NoSnapLevel
	}
	level := s2.MaxDiagMetric.MinLevel(2 * o.RobustnessRadius.Radians())
	if s2.MaxDiagMetric.Value(level) > 2*o.RobustnessRadius.Radians() {
		return NoSnapLevel
	}
	return level
}

// SetVertexMergeRadiusLength sets VertexMergeRadius from a distance on
// the spherical earth's surface.
func (o *Options) SetVertexMergeRadiusLength(d unit.Length) {
	o.VertexMergeRadius = earth.AngleFromLength(d)
}

// SetRobustnessRadiusLength sets RobustnessRadius from a distance on the
// spherical earth's surface.
func (o *Options) SetRobustnessRadiusLength(d unit.Length) {
	o.RobustnessRadius = earth.AngleFromLength(d)
}
