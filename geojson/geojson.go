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

// Package geojson feeds GeoJSON geometry into a polybuild.Builder.
package geojson

import (
	"fmt"

	"github.com/golang/geo/s2"
	jsoniter "github.com/json-iterator/go"

	"github.com/blevesearch/polybuild"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type geometry struct {
	Type        string                `json:"type"`
	Coordinates jsoniter.RawMessage   `json:"coordinates"`
	Geometries  []jsoniter.RawMessage `json:"geometries"`
}

// AddGeometry decodes a GeoJSON geometry object and adds its edges to
// the builder. Polygon rings become closed loops (exterior rings
// counter-clockwise and interior rings clockwise per RFC 7946, which
// keeps the interior on the left of every edge), line strings become
// open chains. Supported types: Polygon, MultiPolygon, LineString,
// MultiLineString and GeometryCollection.
func AddGeometry(b *polybuild.Builder, data []byte) error {
	var g geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("geojson: decoding geometry: %w", err)
	}

	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return fmt.Errorf("geojson: decoding %s coordinates: %w", g.Type, err)
		}
		addPolygonRings(b, rings)
	case "MultiPolygon":
		var polygons [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polygons); err != nil {
			return fmt.Errorf("geojson: decoding %s coordinates: %w", g.Type, err)
		}
		for _, rings := range polygons {
			addPolygonRings(b, rings)
		}
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(g.Coordinates, &line); err != nil {
			return fmt.Errorf("geojson: decoding %s coordinates: %w", g.Type, err)
		}
		b.AddPolyline(points(line))
	case "MultiLineString":
		var lines [][][]float64
		if err := json.Unmarshal(g.Coordinates, &lines); err != nil {
			return fmt.Errorf("geojson: decoding %s coordinates: %w", g.Type, err)
		}
		for _, line := range lines {
			b.AddPolyline(points(line))
		}
	case "GeometryCollection":
		for _, member := range g.Geometries {
			if err := AddGeometry(b, member); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("geojson: unsupported geometry type %q", g.Type)
	}
	return nil
}

func addPolygonRings(b *polybuild.Builder, rings [][][]float64) {
	for _, ring := range rings {
		// GeoJSON rings repeat the first position at the end; AddLoop
		// closes the loop itself.
		if n := len(ring); n > 1 && samePosition(ring[0], ring[n-1]) {
			ring = ring[:n-1]
		}
		b.AddLoop(points(ring))
	}
}

func points(positions [][]float64) []s2.Point {
	out := make([]s2.Point, 0, len(positions))
	for _, pos := range positions {
		if len(pos) < 2 {
			continue
		}
		// GeoJSON positions are [longitude, latitude].
		out = append(out, s2.PointFromLatLng(s2.LatLngFromDegrees(pos[1], pos[0])))
	}
	return out
}

func samePosition(a, b []float64) bool {
	return len(a) >= 2 && len(b) >= 2 && a[0] == b[0] && a[1] == b[1]
}
