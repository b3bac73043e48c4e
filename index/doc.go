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


// Package index implements an in-memory inverted index over a fixed prompt
// corpus, scored with Okapi BM25.
//
// An Index is built once from a corpus snapshot and is immutable
// afterwards: document lengths, the average document length, and all
// postings are fixed at build time. Search never truncates its result
// list; downstream filtering must run before any result-count limit is
// applied, so the index returns every document with a nonzero score.
package index
