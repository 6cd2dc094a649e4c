// Package mock provides deterministic test doubles for the ai package
// interfaces. Mock embeddings are hash-derived so identical texts always
// produce identical vectors.
package mock
