// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docflow/ai"
	"github.com/poiesic/docflow/chunk"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/markdown"
	"github.com/poiesic/docflow/storage"
)

// EventSink receives status transition events. Sinks must be fast; they are
// called synchronously on the processing goroutine.
type EventSink func(event core.StatusEvent)

// Orchestrator drives source documents through the ingestion pipeline.
// It owns the per-document status state machine and persists state after
// each successful stage.
type Orchestrator struct {
	documents      storage.DocumentRepository
	objects        storage.ObjectStore
	vectors        storage.VectorStore
	parser         markdown.Parser
	builder        *chunk.Builder
	embedder       ai.Embedder
	pool           *ants.Pool
	uploadMarkdown bool
	eventSink      EventSink
	logger         *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithUploadMarkdown toggles the optional markdown upload stage. When
// disabled the pipeline advances directly from parsed to chunked and the
// markdown artifact exists only in memory for the run.
func WithUploadMarkdown(enabled bool) Option {
	return func(o *Orchestrator) error {
		o.uploadMarkdown = enabled
		return nil
	}
}

// WithEventSink registers a sink for status transition events.
func WithEventSink(sink EventSink) Option {
	return func(o *Orchestrator) error {
		o.eventSink = sink
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(
	documents storage.DocumentRepository,
	objects storage.ObjectStore,
	vectors storage.VectorStore,
	parser markdown.Parser,
	builder *chunk.Builder,
	embedder ai.Embedder,
	opts ...Option,
) (*Orchestrator, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if objects == nil {
		return nil, ErrObjectStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		documents: documents,
		objects:   objects,
		vectors:   vectors,
		parser:    parser,
		builder:   builder,
		embedder:  embedder,
		pool:      pool,
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Release frees the worker pool. The orchestrator should not be used after
// calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// Process runs the ingestion pipeline for one document. The document's
// state row is persisted after every successful stage, so re-calling
// Process after a failure or restart resumes rather than repeating
// completed work. Processing an unchanged, already stored document is a
// no-op; changed content re-runs every stage and replaces the document's
// prior vector records.
func (o *Orchestrator) Process(ctx context.Context, ref DocumentRef) (*Result, error) {
	start := time.Now()

	if ref.FileID == "" {
		return nil, core.ErrEmptyFileID
	}
	if ref.Source == "" {
		return nil, core.ErrEmptySource
	}

	doc, err := o.documents.Get(ctx, ref.FileID)
	if errors.Is(err, storage.ErrNotFound) {
		doc = &core.SourceDocument{
			FileID: ref.FileID,
			Name:   ref.Name,
			Source: ref.Source,
			Status: core.StatusPending,
		}
	} else if err != nil {
		return nil, err
	}

	// Download. Failure here never touches persisted state: a brand-new
	// document stays pending and an in-flight one keeps its last status.
	data, err := o.objects.Get(ctx, ref.Source)
	if err != nil {
		stageErr := o.stageError(doc, core.StageDownload, ErrDownload, err)
		return o.result(doc, start, stageErr), stageErr
	}

	hash := core.HashBytes(data)

	if doc.Status == core.StatusStored && doc.ContentHash == hash {
		o.logger.Debug("document unchanged, skipping", "fileID", doc.FileID)
		result := o.result(doc, start, nil)
		result.NoOp = true
		return result, nil
	}

	if doc.ContentHash != "" && doc.ContentHash != hash {
		o.logger.Info("document content changed, re-running pipeline",
			"fileID", doc.FileID)

		removed, delErr := o.vectors.DeleteByFile(ctx, doc.FileID)
		if delErr != nil {
			return o.fail(ctx, doc, start, core.StageStore, ErrStore, delErr)
		}
		if removed > 0 {
			o.logger.Debug("removed stale embedding records",
				"fileID", doc.FileID, "count", removed)
		}

		o.emit(doc, core.StatusPending, core.StageDownload)
		o.resetProgress(doc)
	}

	if doc.Status == core.StatusFailed {
		// Retry the failed run from the top; completed stages are
		// idempotent, so re-running them is safe.
		o.resetProgress(doc)
	}

	doc.ContentHash = hash
	doc.Name = ref.Name
	doc.Source = ref.Source

	if !doc.Status.AtLeast(core.StatusDownloaded) {
		if err := o.transition(ctx, doc, core.StatusDownloaded, core.StageDownload); err != nil {
			stageErr := o.stageError(doc, core.StageDownload, ErrDownload, err)
			return o.result(doc, start, stageErr), stageErr
		}
	}

	// Parse, reusing the uploaded markdown artifact when resuming past the
	// parsed stage with uploads enabled.
	parsed, err := o.parseDocument(ctx, doc, ref, data)
	if err != nil {
		return o.fail(ctx, doc, start, core.StageParse, ErrParse, err)
	}
	doc.PageCount = parsed.PageCount()

	if !doc.Status.AtLeast(core.StatusParsed) {
		if err := o.transition(ctx, doc, core.StatusParsed, core.StageParse); err != nil {
			return o.fail(ctx, doc, start, core.StageParse, ErrParse, err)
		}
	}

	if o.uploadMarkdown && !doc.Status.AtLeast(core.StatusUploaded) {
		key, err := o.objects.Put(ctx, markdownKey(doc.FileID), []byte(parsed.Markdown))
		if err != nil {
			return o.fail(ctx, doc, start, core.StageUpload, ErrUpload, err)
		}
		doc.MarkdownKey = key

		if err := o.transition(ctx, doc, core.StatusUploaded, core.StageUpload); err != nil {
			return o.fail(ctx, doc, start, core.StageUpload, ErrUpload, err)
		}
	}

	// Chunk. Chunks are memory-only, so resumed runs re-derive them; the
	// deterministic splitter yields the same chunks and IDs every time.
	chunks, err := o.builder.Build(parsed)
	if err != nil {
		return o.fail(ctx, doc, start, core.StageChunk, ErrChunk, err)
	}
	doc.ChunkCount = len(chunks)

	if !doc.Status.AtLeast(core.StatusChunked) {
		if err := o.transition(ctx, doc, core.StatusChunked, core.StageChunk); err != nil {
			return o.fail(ctx, doc, start, core.StageChunk, ErrChunk, err)
		}
	}

	// Embed.
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := o.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return o.fail(ctx, doc, start, core.StageEmbed, ErrEmbed, err)
	}
	if len(vectors) != len(chunks) {
		mismatch := fmt.Errorf("expected %d vectors, got %d", len(chunks), len(vectors))
		return o.fail(ctx, doc, start, core.StageEmbed, ErrEmbed, mismatch)
	}

	if !doc.Status.AtLeast(core.StatusEmbedded) {
		if err := o.transition(ctx, doc, core.StatusEmbedded, core.StageEmbed); err != nil {
			return o.fail(ctx, doc, start, core.StageEmbed, ErrEmbed, err)
		}
	}

	// Store.
	records := make([]*core.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		records[i] = &core.EmbeddingRecord{
			Id:         c.ID(),
			FileID:     c.FileID,
			ChunkIndex: c.Index,
			Page:       c.Page,
			Text:       c.Text,
			Vector:     vectors[i],
		}
	}

	if err := o.vectors.Upsert(ctx, records...); err != nil {
		return o.fail(ctx, doc, start, core.StageStore, ErrStore, err)
	}

	if err := o.transition(ctx, doc, core.StatusStored, core.StageStore); err != nil {
		return o.fail(ctx, doc, start, core.StageStore, ErrStore, err)
	}

	o.logger.Info("document ingested",
		"fileID", doc.FileID,
		"pages", doc.PageCount,
		"chunks", doc.ChunkCount,
		"duration", time.Since(start))

	return o.result(doc, start, nil), nil
}

// ProcessAll runs one pipeline per document concurrently on the worker
// pool. Results are returned in input order; per-document failures are
// reported in each Result and never affect other documents.
func (o *Orchestrator) ProcessAll(ctx context.Context, refs []DocumentRef) []*Result {
	results := make([]*Result, len(refs))

	done := make(chan int, len(refs))
	for i, ref := range refs {
		i, ref := i, ref
		err := o.pool.Submit(func() {
			defer func() { done <- i }()
			result, processErr := o.Process(ctx, ref)
			if result == nil {
				result = &Result{FileID: ref.FileID, Err: processErr}
			}
			results[i] = result
		})
		if err != nil {
			results[i] = &Result{FileID: ref.FileID, Err: err}
			done <- i
		}
	}

	for range refs {
		<-done
	}
	return results
}

// parseDocument produces the parsed document, loading the stored markdown
// artifact when the parse stage already completed in a previous run.
func (o *Orchestrator) parseDocument(ctx context.Context, doc *core.SourceDocument, ref DocumentRef, data []byte) (*core.ParsedDocument, error) {
	if doc.Status.AtLeast(core.StatusParsed) && doc.MarkdownKey != "" {
		stored, err := o.objects.Get(ctx, doc.MarkdownKey)
		if err == nil {
			md := string(stored)
			return &core.ParsedDocument{
				FileID:   doc.FileID,
				Name:     doc.Name,
				Source:   doc.Source,
				Pages:    markdown.SplitByPages(md),
				Markdown: md,
			}, nil
		}
		o.logger.Warn("stored markdown unavailable, re-parsing",
			"fileID", doc.FileID, "key", doc.MarkdownKey, "err", err)
	}

	return o.parser.Parse(ctx, ref.FileID, ref.Name, ref.Source, data)
}

// transition advances the document's status, persists the state row, and
// emits a status event. One atomic save per transition.
func (o *Orchestrator) transition(ctx context.Context, doc *core.SourceDocument, to core.Status, stage core.Stage) error {
	from := doc.Status
	doc.Status = to
	if err := o.documents.Save(ctx, doc); err != nil {
		doc.Status = from
		return err
	}

	o.logger.Debug("status transition",
		"fileID", doc.FileID, "from", from, "to", to, "stage", stage)
	o.emitFrom(doc.FileID, from, to, stage)
	return nil
}

// fail marks the document failed at the given stage, persists it, and
// returns the result plus the typed stage error.
func (o *Orchestrator) fail(ctx context.Context, doc *core.SourceDocument, start time.Time, stage core.Stage, kind, cause error) (*Result, error) {
	stageErr := o.stageError(doc, stage, kind, cause)

	from := doc.Status
	doc.Status = core.StatusFailed
	doc.FailedStage = stage
	doc.FailureReason = cause.Error()

	if saveErr := o.documents.Save(ctx, doc); saveErr != nil {
		o.logger.Error("failed to persist failure state",
			"fileID", doc.FileID, "stage", stage, "err", saveErr)
	} else {
		o.emitFrom(doc.FileID, from, core.StatusFailed, stage)
	}

	o.logger.Error("stage failed",
		"fileID", doc.FileID, "stage", stage, "err", cause)

	return o.result(doc, start, stageErr), stageErr
}

func (o *Orchestrator) stageError(doc *core.SourceDocument, stage core.Stage, kind, cause error) *StageError {
	return &StageError{
		FileID: doc.FileID,
		Stage:  stage,
		Err:    fmt.Errorf("%w: %w", kind, cause),
	}
}

// resetProgress rewinds the state row to pending for a fresh run.
func (o *Orchestrator) resetProgress(doc *core.SourceDocument) {
	doc.Status = core.StatusPending
	doc.FailedStage = 0
	doc.FailureReason = ""
	doc.MarkdownKey = ""
	doc.PageCount = 0
	doc.ChunkCount = 0
}

func (o *Orchestrator) result(doc *core.SourceDocument, start time.Time, err error) *Result {
	return &Result{
		FileID:      doc.FileID,
		Status:      doc.Status,
		FailedStage: doc.FailedStage,
		Pages:       doc.PageCount,
		Chunks:      doc.ChunkCount,
		Duration:    time.Since(start),
		Err:         err,
	}
}

func (o *Orchestrator) emit(doc *core.SourceDocument, to core.Status, stage core.Stage) {
	o.emitFrom(doc.FileID, doc.Status, to, stage)
}

func (o *Orchestrator) emitFrom(fileID string, from, to core.Status, stage core.Stage) {
	if o.eventSink == nil {
		return
	}
	o.eventSink(core.StatusEvent{
		EventID: uuid.NewString(),
		FileID:  fileID,
		From:    from,
		To:      to,
		Stage:   stage,
		At:      time.Now().UTC(),
	})
}

// markdownKey is the object store key of a document's markdown artifact.
func markdownKey(fileID string) string {
	return fmt.Sprintf("markdown/%s.md", fileID)
}

// RawKey is the object store key where a document's raw bytes are staged.
func RawKey(fileID string) string {
	return fmt.Sprintf("raw/%s", fileID)
}
