// Package api exposes the HTTP surface: parsing, chunking, metadata
// extraction, embedding, document processing, search and health.
package api
