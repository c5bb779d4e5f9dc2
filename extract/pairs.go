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


package extract

import (
	"iter"
	"regexp"

	"github.com/poiesic/uidmap/core"
)

// Delimiter separates the two digit tokens of a pair.
const Delimiter = "----"

// ASCII digits only: \d in RE2 is already [0-9], spelled out for clarity.
var pairPattern = regexp.MustCompile(`([0-9]+)` + Delimiter + `([0-9]+)`)

// Pairs returns every non-overlapping match in text, left to right.
// The sequence is lazy and can be ranged over any number of times.
func Pairs(text string) iter.Seq[core.RawPair] {
	return func(yield func(core.RawPair) bool) {
		rest := text
		for {
			loc := pairPattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			pair := core.RawPair{
				Left:  rest[loc[2]:loc[3]],
				Right: rest[loc[4]:loc[5]],
			}
			if !yield(pair) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// appendPairs appends all pairs found in text to dst.
func appendPairs(dst []core.RawPair, text string) []core.RawPair {
	for _, m := range pairPattern.FindAllStringSubmatch(text, -1) {
		dst = append(dst, core.RawPair{Left: m[1], Right: m[2]})
	}
	return dst
}
