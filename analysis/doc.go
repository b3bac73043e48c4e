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


// Package analysis provides text normalization for indexing and querying.
//
// Tokenize turns raw text into a normalized token sequence: lowercased,
// split on anything outside [a-z0-9], duplicates preserved. The same
// function runs at index-build time and at query time so both sides agree
// on term boundaries.
//
// Expander enriches a query token sequence with synonyms from a small,
// hand-curated table. The table is deliberately high-precision: repeated
// synonym tokens raise the effective query term frequency, so a noisy
// table would distort ranking rather than improve recall.
package analysis
