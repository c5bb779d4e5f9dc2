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


// Package storage provides the storage abstraction layer for uidmap.
//
// MappingStore is a keyed table of core.Mapping rows: the primary key is
// unique, and a secondary index over the attribute value is kept in step with
// the table by the store itself, inside the same transaction as every write.
//
// Three backends implement it:
//
//   - sqlite: a single database file with a user_mapping table and an
//     idx_phone_number index
//   - badger: a BadgerDB directory with prefixed primary and index keys
//   - bolt: a single bbolt file with one bucket per table and index
//
// # Upsert semantics
//
// UpsertBatch applies a whole batch in one transaction. A record whose
// primary key already exists replaces the stored attribute value, and the
// index entry for the old value is removed. Records inside one batch are
// applied in order, so the last occurrence of a key wins. A failure aborts
// the whole batch; nothing from it is visible afterwards.
//
// # Ownership
//
// A MappingStore holds a single connection. It is opened once by the owner,
// shared with nothing else, and closed by the owner on every exit path.
package storage
