// Package enrich derives chunk metadata (document title, keywords,
// questions) from LLM completions, with defensive parsing of the
// uncontrolled model output. Enrichment failures never propagate to the
// chunking pipeline.
package enrich
