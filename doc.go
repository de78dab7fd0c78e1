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

/*
Package polybuild assembles simple, non-crossing loops on the unit sphere
from an unordered collection of geodesic edges.

The input may be numerically inexact: vertices closer than a configurable
merge radius are clustered into a single representative, vertices passing
near an edge can be spliced into it, duplicate edges can cancel pairwise
(symmetric difference), and endpoints can optionally be snapped to CellID
centers at a level derived from a robustness budget.

A Builder is single use. Edges are accumulated with AddEdge, AddLoop,
AddPolyline or AddPolygon, and consumed by AssembleLoops or
AssemblePolygon. Edges that cannot be placed into any simple loop are
returned to the caller rather than reported as errors.
*/
package polybuild
