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

import "errors"

var (
	// ErrNotFound is returned when a requested prompt does not exist.
	ErrNotFound = errors.New("prompt not found")

	// ErrDuplicateID is returned when adding a prompt whose ID is already stored.
	ErrDuplicateID = errors.New("duplicate prompt id")

	// ErrEmptyLibrary is returned when an operation needs at least one stored prompt.
	ErrEmptyLibrary = errors.New("prompt library is empty")
)
