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


// Package ai defines the embedding seam used by the semantic reranker.
//
// The Embedder interface is the stable contract between the search core
// and whatever produces vectors: the deterministic hash embedder in
// ai/hash (the mandatory fallback), the OpenAI-compatible backend in
// ai/openai, or the test double in ai/mock. The reranker must not assume
// which backend is active beyond this contract.
package ai
