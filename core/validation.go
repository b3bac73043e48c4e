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


package core

import "fmt"

// ValidatePrompt validates a Prompt according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Content must not be empty
//   - Category must be one of the closed category set
//
// NOT validated (populated elsewhere):
//   - Id ("" is valid; the ingestion pipeline assigns a content-based ID)
//   - Vector (can be empty until the embedding pass runs)
//   - Description and Tags (optional)
func ValidatePrompt(prompt *Prompt) error {
	if prompt == nil {
		return fmt.Errorf("%w: prompt is nil", ErrInvalidPrompt)
	}

	if prompt.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrEmptyTitle)
	}

	if prompt.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrEmptyContent)
	}

	if err := ValidateCategory(prompt.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrompt, err)
	}

	return nil
}

// ValidateCategory validates that a Category belongs to the closed set.
func ValidateCategory(category Category) error {
	for _, c := range Categories {
		if category == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
}
