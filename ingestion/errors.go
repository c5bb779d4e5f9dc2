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


package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrConfigRequired is returned when a config is not provided.
	ErrConfigRequired = errors.New("config required")

	// ErrInvalidBatchSize is returned for a batch size below 1.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrSourceDirMissing is returned when the source directory does not
	// exist and the working directory fallback is disabled.
	ErrSourceDirMissing = errors.New("source directory not found")

	// ErrSourceNotDirectory is returned when the source path is not a directory.
	ErrSourceNotDirectory = errors.New("source path is not a directory")

	// ErrAlreadyRan is returned when Run is called a second time.
	ErrAlreadyRan = errors.New("ingestion driver already ran")

	// ErrFileUnreadable marks a per-file open or read failure. The driver
	// skips such files.
	ErrFileUnreadable = errors.New("file unreadable")
)
