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


// Package lookup answers read-only queries against a populated mapping
// store.
//
// An identifier is first tried as a primary key. When no mapping has that
// key, it is tried as an attribute value through the secondary index, so a
// phone number resolves to every account that uses it:
//
//	r, _ := lookup.NewResolver(store)
//	res, err := r.Resolve(ctx, "13800000000")
//	if errors.Is(err, lookup.ErrNotFound) { ... }
//
// ResolveAll spreads several lookups over a worker pool. Lookups never
// write and are not meant to run during an import.
package lookup
