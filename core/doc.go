// Package core defines the domain model for the document processing
// service: parsed documents, text chunks, chunking strategies and the
// asynchronous job lifecycle, together with their validation rules.
//
// Types in this package are plain data. Parsing, chunking, enrichment
// and persistence live in their own packages and depend on core, never
// the other way around.
package core
