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

// Package earth converts between angles on the unit sphere and lengths on
// the surface of the Earth modeled as a sphere. It lets callers express
// builder tolerances in metric units instead of angles.
package earth

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/google/go-units/unit"
)

// Radius is the Earth's mean radius, the radius of the equivalent sphere
// with the same surface area. According to NASA this value is
// 6371.01 +/- 0.02 km. The same constant is used by the S2 libraries in
// other languages so conversions stay consistent across them.
const Radius = 6371.01 * unit.Kilometer

// AngleFromLength returns the angle subtended by a distance on the
// spherical earth's surface.
func AngleFromLength(d unit.Length) s1.Angle {
	return s1.Angle(float64(d/Radius)) * s1.Radian
}

// LengthFromAngle returns the distance on the spherical earth's surface
// subtended by the given angle.
func LengthFromAngle(a s1.Angle) unit.Length {
	return unit.Length(a.Radians()) * Radius
}

// LengthFromPoints returns the distance between two points on the
// spherical earth's surface.
func LengthFromPoints(a, b s2.Point) unit.Length {
	return LengthFromAngle(a.Distance(b))
}

// LengthFromLatLngs returns the distance on the spherical earth's surface
// between two LatLngs.
func LengthFromLatLngs(a, b s2.LatLng) unit.Length {
	return LengthFromAngle(a.Distance(b))
}
