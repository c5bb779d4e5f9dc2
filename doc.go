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


// Package uidmap loads "<phone>----<uid>" dump files into an indexed
// mapping store and answers lookups against it.
//
// Import is the one-call entry point used by the import command:
//
//	cfg := config.NewConfig(config.WithSourceDir("data"))
//	report, err := uidmap.Import(ctx, cfg)
//
// Longer-lived callers open a Database and create drivers and resolvers
// from it. The store backend (sqlite, badger or bolt) is chosen by
// config.Config.Backend.
package uidmap
