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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docproc/core"
	"github.com/poiesic/docproc/parse"
)

const (
	// callbackTimeout bounds each callback POST. Delivery is
	// fire-and-forget: a timeout is logged and dropped like any other
	// failure, never retried.
	callbackTimeout = 15 * time.Second

	defaultPoolSize = 8
)

// SubmitRequest describes one parse job. JobID pins the job identifier
// when the caller manages ids itself; left empty, one is generated.
// ExtractMetadata gates the structural payload of the parse response
// (pages, tables, figures, document metadata); text and markdown are
// always included.
type SubmitRequest struct {
	Data            []byte
	Filename        string
	CallbackURL     string
	JobID           string
	CallerJobID     string
	MaxPages        int
	TextOnly        bool
	ExtractMetadata bool
}

// Accepted is the immediate response for an asynchronous submission.
type Accepted struct {
	JobID  string         `json:"job_id"`
	Status core.JobStatus `json:"status"`
}

// Runner executes parse jobs. Without a callback URL the parse runs
// inline and the result is returned directly. With one, the job is
// handed to a worker pool and the caller gets an acknowledgment before
// any parsing starts; progress flows back through callback POSTs with
// at-most-once delivery.
type Runner struct {
	parser parse.Parser
	pool   *ants.Pool
	client *http.Client
	logger *slog.Logger
}

// NewRunner creates a job runner with the given worker pool size.
func NewRunner(parser parse.Parser, poolSize int) (*Runner, error) {
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Runner{
		parser: parser,
		pool:   pool,
		client: &http.Client{Timeout: callbackTimeout},
		logger: slog.Default().With("component", "job-runner"),
	}, nil
}

// Close releases the worker pool. In-flight jobs finish first.
func (r *Runner) Close() {
	r.pool.Release()
}

// Submit runs a parse job. Exactly one of the two results is set: the
// parsed document for synchronous calls, the acknowledgment for
// asynchronous ones.
func (r *Runner) Submit(ctx context.Context, req SubmitRequest) (*Accepted, *core.ParsedDocument, error) {
	if req.CallbackURL == "" {
		doc, err := r.runParse(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		return nil, shapeResponse(doc, req.ExtractMetadata), nil
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	if err := r.pool.Submit(func() { r.run(jobID, req) }); err != nil {
		return nil, nil, err
	}

	r.logger.Info("parse job accepted",
		"job_id", jobID, "caller_job_id", req.CallerJobID, "filename", req.Filename)
	return &Accepted{JobID: jobID, Status: core.JobAccepted}, nil, nil
}

// run executes one background job. Envelope order per job is guaranteed
// because everything happens on this one goroutine: processing always
// precedes completed or failed.
func (r *Runner) run(jobID string, req SubmitRequest) {
	jobType := JobTypeDocumentParse
	if req.TextOnly {
		jobType = JobTypeDocumentParseTextOnly
	}

	status := core.JobAccepted
	advance := func(next core.JobStatus) {
		if !status.CanTransition(next) {
			r.logger.Error("illegal job transition",
				"job_id", jobID, "from", string(status), "to", string(next))
			return
		}
		status = next
	}

	advance(core.JobProcessing)
	r.postCallback(req.CallbackURL, newEnvelope(
		jobID, req.CallerJobID, jobType, core.JobProcessing, "document parsing started", nil))

	doc, err := r.runParse(context.Background(), req)
	if err != nil {
		advance(core.JobFailed)
		r.logger.Error("parse job failed", "job_id", jobID, "err", err)
		r.postCallback(req.CallbackURL, newEnvelope(
			jobID, req.CallerJobID, jobType, core.JobFailed, err.Error(), nil))
		return
	}

	advance(core.JobCompleted)
	r.postCallback(req.CallbackURL, newEnvelope(
		jobID, req.CallerJobID, jobType, core.JobCompleted, "document parsing completed",
		&EnvelopeResult{ParseResponse: shapeResponse(doc, req.ExtractMetadata)}))
	r.logger.Info("parse job completed", "job_id", jobID, "pages", doc.Metadata.PageCount)
}

// runParse executes the parse itself. A parser panic is converted into
// an error so the job still reaches a terminal state and the failed
// callback goes out; the worker pool would otherwise swallow it.
func (r *Runner) runParse(ctx context.Context, req SubmitRequest) (doc *core.ParsedDocument, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return r.parser.Parse(ctx, parse.ParseRequest{
		Data:     req.Data,
		Filename: req.Filename,
		MaxPages: req.MaxPages,
		TextOnly: req.TextOnly,
	})
}

// shapeResponse applies the extract_metadata contract: when false, the
// structural payload (pages, tables, figures, title, author, creation
// date, page count) is omitted and only the extracted text, markdown
// and file identity remain.
func shapeResponse(doc *core.ParsedDocument, extractMetadata bool) *core.ParsedDocument {
	if extractMetadata {
		return doc
	}
	out := *doc
	out.Pages = nil
	out.Tables = nil
	out.Figures = nil
	out.Metadata.Title = ""
	out.Metadata.Author = ""
	out.Metadata.CreatedAt = time.Time{}
	out.Metadata.PageCount = 0
	return &out
}

// postCallback delivers one envelope with a single attempt. Failures
// are logged and dropped; the caller polls or re-submits if it needs
// stronger guarantees.
func (r *Runner) postCallback(url string, env Envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("callback encoding failed", "job_id", env.JobID, "err", err)
		return
	}

	resp, err := r.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		r.logger.Warn("callback delivery failed",
			"job_id", env.JobID, "status", string(env.Status), "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		r.logger.Warn("callback rejected",
			"job_id", env.JobID, "status", string(env.Status), "http_status", resp.StatusCode)
	}
}
