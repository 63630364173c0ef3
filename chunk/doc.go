// Package chunk splits parsed documents into bounded, overlapping text
// chunks ready for embedding.
//
// Chunks are produced page by page so every chunk carries the page it came
// from, with indices assigned contiguously across the whole document.
// Splitting is deterministic: the same parsed document and configuration
// always yield the same chunks, which keeps chunk identifiers stable across
// repeated ingestion runs.
package chunk
