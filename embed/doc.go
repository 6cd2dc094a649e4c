// Package embed layers a TTL cache over the embedding service so
// repeated texts hit the model at most once per cache window.
package embed
