// Package ingest provides pipeline orchestration for processing source
// documents into stored embedding records.
//
// The Orchestrator type drives each document through a fixed sequence of
// stages: download, parse, optional markdown upload, chunk, embed, store.
// Document state is persisted after every successful stage, so a restarted
// run resumes where the previous one left off. Processing is idempotent by
// content hash: an unchanged document that already reached the stored state
// is a recorded no-op, while a changed document re-runs all stages and
// replaces its prior vector records.
//
// Batch processing runs one pipeline per document concurrently on a worker
// pool; one document's failure never affects another.
package ingest
