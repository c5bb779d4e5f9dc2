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


// Package ingestion loads dump files into a storage.MappingStore.
//
// A Driver discovers files, streams each one through the extract package
// and hands the canonical mappings to an Accumulator, which commits them in
// fixed-size batches. Everything runs on the calling goroutine: one file is
// finished before the next is opened, and the store sees one writer.
//
// # States
//
//	Idle -> SchemaReady -> { Reading -> Extracting <-> Batching }* -> Flushing -> Done
//
// Any step can move to Failed. A run that finds no input files ends in Done
// with zero records.
//
// # Errors
//
// Store errors end the run. A file that cannot be opened or read is logged
// and skipped; any records read from it before the failure stay queued and
// are committed with the rest. Undecodable bytes inside a file are dropped
// silently by the extractor.
//
// # Ordering
//
// Files are processed in lexical path order and records in file order, so
// for a key that appears more than once the last occurrence in that order
// is the one stored.
package ingestion
