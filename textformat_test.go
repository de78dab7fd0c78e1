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

// This file holds helpers for writing test geometry in a human-readable
// format: a comma separated list of latitude:longitude coordinates in
// degrees, e.g. "-20:150, 10:-120, 0.123:-170.652". The format is not
// precision preserving and is only for tests.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// parseLatLngs returns the values in the input string as LatLngs.
func parseLatLngs(s string) []s2.LatLng {
	var lls []s2.LatLng
	for _, piece := range strings.Split(s, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		p := strings.Split(piece, ":")
		if len(p) != 2 {
			panic(fmt.Sprintf("invalid input string for parseLatLngs: %q", piece))
		}

		lat, err := strconv.ParseFloat(p[0], 64)
		if err != nil {
			panic(fmt.Sprintf("invalid float in parseLatLngs: %q, err: %v", p[0], err))
		}

		lng, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			panic(fmt.Sprintf("invalid float in parseLatLngs: %q, err: %v", p[1], err))
		}

		lls = append(lls, s2.LatLngFromDegrees(lat, lng))
	}
	return lls
}

// parsePoints returns the values in the input string as Points.
func parsePoints(s string) []s2.Point {
	lls := parseLatLngs(s)
	points := make([]s2.Point, len(lls))
	for i, ll := range lls {
		points[i] = s2.PointFromLatLng(ll)
	}
	return points
}

// parsePoint returns a Point from the given string. If more than one
// value is given, only the first is used.
func parsePoint(s string) s2.Point {
	p := parsePoints(s)
	if len(p) == 0 {
		panic(fmt.Sprintf("no point in input string %q", s))
	}
	return p[0]
}

// pointsToString returns a string representation suitable for
// reconstruction by parsePoints.
func pointsToString(points []s2.Point) string {
	var sb strings.Builder
	for i, pt := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		ll := s2.LatLngFromPoint(pt)
		fmt.Fprintf(&sb, "%.15g:%.15g", ll.Lat.Degrees(), ll.Lng.Degrees())
	}
	return sb.String()
}
