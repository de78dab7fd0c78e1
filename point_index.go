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
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// rectPadding keeps R-tree rectangles non-degenerate; rtreego requires
// every dimension to have positive length.
const rectPadding = 1e-9

// chordLength returns the 3-space distance between two unit vectors
// separated by the given angle.
func chordLength(a s1.Angle) float64 {
	theta := math.Min(math.Max(a.Radians(), 0), math.Pi)
	return 2 * math.Sin(theta/2)
}

// cubeAround returns the axis-aligned cube of the given half-width
// centered on a unit vector.
func cubeAround(p s2.Point, halfWidth float64) rtreego.Rect {
	w := halfWidth + rectPadding
	corner := rtreego.Point{p.X - w, p.Y - w, p.Z - w}
	rect, err := rtreego.NewRect(corner, []float64{2 * w, 2 * w, 2 * w})
	if err != nil {
		// Lengths are always positive, so this cannot happen.
		panic(err)
	}
	return rect
}

// pointEntry wraps an indexed point for R-tree storage.
type pointEntry struct {
	pt   s2.Point
	data int
}

// Bounds implements rtreego.Spatial.
func (e *pointEntry) Bounds() rtreego.Rect {
	return cubeAround(e.pt, 0)
}

// pointIndex answers fixed-radius queries over points on the sphere. The
// R-tree works on 3-space bounding boxes; angular radii are converted to
// chord lengths for the box query and hits are filtered by exact angular
// distance.
type pointIndex struct {
	tree *rtreego.Rtree
}

func newPointIndex() *pointIndex {
	return &pointIndex{tree: rtreego.NewTree(3, 5, 10)}
}

func (x *pointIndex) insert(p s2.Point, data int) {
	x.tree.Insert(&pointEntry{pt: p, data: data})
}

// search returns the indexed points within the given angular radius of p.
func (x *pointIndex) search(p s2.Point, radius s1.Angle) []*pointEntry {
	query := cubeAround(p, chordLength(radius))
	var out []*pointEntry
	for _, spatial := range x.tree.SearchIntersect(query) {
		entry := spatial.(*pointEntry)
		if p.Distance(entry.pt) <= radius {
			out = append(out, entry)
		}
	}
	return out
}
