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


// Package ingestion loads prompts into a repository and precomputes
// their embeddings.
//
// The Pipeline validates incoming prompts, assigns content-based IDs,
// stores them, and then embeds each prompt's text on a worker pool so
// the reranker can reuse stored vectors instead of embedding at query
// time. Embedding failures are logged, not fatal: a prompt without a
// vector is still searchable and gets embedded on the fly during
// reranking.
//
// LoadSeedFile reads the YAML seed format used by cmd/seeder.
package ingestion
