// Package parse converts uploaded document bytes into structured
// ParsedDocument values: plain text, a markdown rendering, page records
// and extracted tables.
package parse
