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


package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/docproc/jobs"
)

// ParseHandler serves the document parsing endpoints.
type ParseHandler struct {
	runner *jobs.Runner
}

// parseForm pulls the shared multipart fields out of a parse request.
func parseForm(c echo.Context) (jobs.SubmitRequest, error) {
	var req jobs.SubmitRequest

	fh, err := c.FormFile("file")
	if err != nil {
		return req, NewBadRequestError("missing file upload", err)
	}
	f, err := fh.Open()
	if err != nil {
		return req, NewBadRequestError("unreadable file upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return req, NewInternalError("reading file upload", err)
	}

	req.Data = data
	req.Filename = fh.Filename
	req.CallbackURL = c.FormValue("callback_url")
	req.JobID = c.FormValue("python_job_id")
	req.CallerJobID = c.FormValue("go_job_id")

	req.ExtractMetadata = true
	if raw := c.FormValue("extract_metadata"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return req, NewBadRequestError("extract_metadata must be a boolean", err)
		}
		req.ExtractMetadata = v
	}

	if raw := c.FormValue("max_pages"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, NewBadRequestError("max_pages must be a non-negative integer", err)
		}
		req.MaxPages = n
	}
	return req, nil
}

// ParseDocument handles POST /parse/document: full layout-aware parsing,
// synchronous or callback-driven depending on callback_url.
func (h *ParseHandler) ParseDocument(c echo.Context) error {
	return h.submit(c, false)
}

// ParseText handles POST /parse/text: plain text extraction only, no
// layout analysis or table detection.
func (h *ParseHandler) ParseText(c echo.Context) error {
	return h.submit(c, true)
}

// Health handles GET /parse/health.
func (h *ParseHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "engine": "tabula"})
}

func (h *ParseHandler) submit(c echo.Context, textOnly bool) error {
	req, err := parseForm(c)
	if err != nil {
		return err
	}
	req.TextOnly = textOnly

	ack, doc, err := h.runner.Submit(c.Request().Context(), req)
	if err != nil {
		return err
	}
	if ack != nil {
		return c.JSON(http.StatusAccepted, ack)
	}
	return c.JSON(http.StatusOK, doc)
}
