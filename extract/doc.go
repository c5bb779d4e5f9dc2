// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package extract turns raw text dumps into canonical mappings.
//
// A dump line carries pairs written as
//
//	<phone>----<uid>
//
// The pattern is digits, exactly four hyphens, digits. Pairs and Scanner
// yield the two sides as core.RawPair in the order they appear; Remap turns
// a RawPair into a core.Mapping keyed by the right-hand side.
//
// # Field order
//
// The left token is the attribute value and the right token is the primary
// key. Remap is the only place that knows this. Swapping the two produces
// well-formed rows with every key wrong and no error anywhere, so the
// fixture in remap_test.go pins the order.
//
// # Decoding
//
// Input is treated as UTF-8. Ill-formed byte sequences are dropped rather
// than reported (see Decode), so a partly corrupt dump still yields every
// pair that survives decoding.
package extract
