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


package lookup

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrInvalidID is returned for identifiers that are empty or not all
	// digits.
	ErrInvalidID = errors.New("identifier must be digits")

	// ErrNotFound is returned when an identifier matches neither a primary
	// key nor an attribute value.
	ErrNotFound = errors.New("identifier not found")

	// ErrInvalidPoolSize is returned for a worker pool size below 1.
	ErrInvalidPoolSize = errors.New("pool size must be greater than 0")
)
