// Package reembed provides functionality for re-embedding stored embedding
// records with a new or updated embedding model.
//
// This package supports batch processing of embedding records per document,
// progress tracking, retry logic with exponential backoff, and vector
// normalization to ensure compatibility with cosine similarity search.
package reembed
