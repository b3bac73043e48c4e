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


// Package search orchestrates prompt retrieval.
//
// The Engine composes the tokenizer, synonym expander, BM25 index, and
// optional semantic reranker into one pipeline:
//
//	query -> tokenize -> expand -> BM25 (untruncated) -> rerank ->
//	category/tag filters -> limit -> field highlighting
//
// Filtering always runs before the limit so a filtered-out candidate can
// never occupy a slot a qualifying lower-ranked prompt should fill.
// Highlighting runs only on the final page to avoid wasted work on
// discarded candidates.
//
// The index builds lazily on first query from a corpus snapshot and is
// cached for the engine's lifetime; ResetIndex drops it so the next query
// rebuilds from the current corpus. Concurrent first queries share a
// single build via singleflight.
package search
