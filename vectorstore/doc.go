// Package vectorstore defines the vector persistence and similarity
// search interface. The qdrant subpackage talks to a Qdrant instance
// over its REST API; the memory subpackage is a brute-force in-process
// fallback.
package vectorstore
