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


package parse

import (
	"context"

	"github.com/poiesic/docproc/core"
)

// ParseRequest carries one document through parsing. MaxPages limits
// extraction to the leading pages when positive; it is a per-call
// parameter, never shared parser state. TextOnly skips the structural
// pass (markdown, tables, page records) and returns plain text only.
type ParseRequest struct {
	Data     []byte
	Filename string
	MaxPages int
	TextOnly bool
}

// Parser turns raw document bytes into a ParsedDocument.
type Parser interface {
	Parse(ctx context.Context, req ParseRequest) (*core.ParsedDocument, error)
}
