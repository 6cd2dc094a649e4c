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


package jobs

import (
	"time"

	"github.com/poiesic/docproc/core"
)

// JobType tags the kind of work a parse job performs.
type JobType string

const (
	JobTypeDocumentParse         JobType = "document_parse"
	JobTypeDocumentParseTextOnly JobType = "document_parse_text_only"
)

// jobRef echoes the caller's own job identity back to it.
type jobRef struct {
	ID   string  `json:"id"`
	Type JobType `json:"type"`
}

// EnvelopeResult carries the parse output on completion.
type EnvelopeResult struct {
	ParseResponse *core.ParsedDocument `json:"parse_response"`
}

// Envelope is the callback POST body. The field names are a stable wire
// contract with the orchestrating service and must not change.
type Envelope struct {
	JobID       string          `json:"python_job_id"`
	CallerJobID string          `json:"go_job_id,omitempty"`
	Job         *jobRef         `json:"job,omitempty"`
	JobType     JobType         `json:"job_type"`
	Status      core.JobStatus  `json:"status"`
	Message     string          `json:"message"`
	Result      *EnvelopeResult `json:"result,omitempty"`
	Timestamp   string          `json:"timestamp"`
}

// newEnvelope builds a callback envelope. The job block is present only
// when the caller supplied its own job id.
func newEnvelope(jobID, callerJobID string, jobType JobType, status core.JobStatus, message string, result *EnvelopeResult) Envelope {
	env := Envelope{
		JobID:       jobID,
		CallerJobID: callerJobID,
		JobType:     jobType,
		Status:      status,
		Message:     message,
		Result:      result,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if callerJobID != "" {
		env.Job = &jobRef{ID: callerJobID, Type: jobType}
	}
	return env
}
