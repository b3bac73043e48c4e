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


package storage

import (
	"github.com/poiesic/promptsearch/core"
)

// MarshalPrompt serializes a Prompt to bytes.
func MarshalPrompt(prompt *core.Prompt) []byte {
	buf := make([]byte, core.PromptMUS.Size(*prompt))
	core.PromptMUS.Marshal(*prompt, buf)
	return buf
}

// UnmarshalPrompt deserializes a Prompt from bytes.
func UnmarshalPrompt(data []byte) (*core.Prompt, error) {
	prompt, _, err := core.PromptMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}
