// Package jobs runs document parses either inline or as background jobs
// reporting progress to a caller-supplied callback URL. Callbacks are
// delivered at most once, in order per job.
package jobs
