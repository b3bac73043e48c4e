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


// Package rerank reorders lexical search candidates by vector similarity.
//
// A Reranker embeds the query and each candidate text through an
// ai.Embedder and blends cosine similarity into the lexical score. The
// configured backend may be a real embedding service; when it fails the
// reranker silently degrades to the deterministic hash embedder, so
// reranking always produces a result for a valid candidate list.
package rerank
