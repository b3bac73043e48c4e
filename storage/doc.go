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


// Package storage defines the prompt registry interfaces and serialization.
//
// The search engine only depends on PromptSource, the read-only corpus
// snapshot. PromptRepository adds the library-management operations the
// CLI and ingestion pipeline need. The Badger-backed implementation lives
// in storage/badger; StaticSource serves a fixed in-memory corpus.
//
// Storage persists the corpus, never the search index. The engine rebuilds
// its index from a fresh snapshot after every reset.
package storage
