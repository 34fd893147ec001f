// Package services defines shared utilities consumed by the separation
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - The coarse error taxonomy: ValidationError for input rejected up front
//     and ProcessingError for everything that fails once separation starts,
//     plus marker sentinels and the Wrap helper for tool failures.
//
// Keep the taxonomy coarse. Callers distinguish only "bad input" from
// "processing failed"; finer classification belongs in the message.
package services
