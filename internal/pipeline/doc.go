// Package pipeline runs one separation from a resolved RunConfig: separate,
// compose the output plan, then write it.
//
// Run is the single error boundary for processing. Whatever fails inside a
// stage comes back as a services.ProcessingError carrying the underlying
// message; nothing is retried and no stage recovers locally.
//
// Progress lines ("Processing: ...", "Saved: ...", "Processing complete!")
// go to the configured writer, normally stdout. Structured logs go to the
// logger, normally stderr.
package pipeline
