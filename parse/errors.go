package parse

import "errors"

var (
	// ErrEmptyFile indicates the uploaded file had no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrParseFailed wraps engine-level extraction failures after all
	// fallbacks were exhausted.
	ErrParseFailed = errors.New("document parsing failed")
)
