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


package registry

import "errors"

var (
	// ErrNotFound indicates no record exists for the given document id.
	ErrNotFound = errors.New("document not found")

	// ErrEmptyID indicates an empty document id was supplied.
	ErrEmptyID = errors.New("document id is empty")

	// ErrKeywordComma rejects keywords containing commas: the registry
	// stores keyword lists comma-joined, and such a keyword would not
	// survive the round trip.
	ErrKeywordComma = errors.New("keyword contains a comma")
)
