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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/docflow"
	"github.com/poiesic/docflow/ai"
	"github.com/poiesic/docflow/ai/mock"
	"github.com/poiesic/docflow/ai/openai"
	"github.com/poiesic/docflow/chunk"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/ingest"
	"github.com/poiesic/docflow/reembed"
	"github.com/poiesic/docflow/search"
	"github.com/poiesic/docflow/storage/badger"
	"github.com/urfave/cli/v2"
)

// fileEntry is one document in the --files JSON list.
type fileEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

func parseFileEntries(raw string) ([]fileEntry, error) {
	var entries []fileEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("invalid files JSON: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("files list is empty")
	}
	for i, entry := range entries {
		if entry.ID == "" || entry.Path == "" {
			return nil, fmt.Errorf("files[%d]: id and path are required", i)
		}
	}
	return entries, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	entries, err := parseFileEntries(c.String("files"))
	if err != nil {
		return err
	}

	boundary, err := chunk.ParseBoundary(c.String("chunk-boundary"))
	if err != nil {
		return err
	}
	chunkConfig := chunk.Config{
		MaxSize:  c.Int("chunk-size"),
		Overlap:  c.Int("chunk-overlap"),
		Boundary: boundary,
	}
	if err := chunkConfig.Validate(); err != nil {
		return err
	}

	opts := []docflow.PipelineOption{
		docflow.WithChunkConfig(chunkConfig),
	}
	if c.Bool("mock-ai") {
		opts = append(opts, docflow.WithProvider(mock.NewMockProvider()))
	} else {
		opts = append(opts, docflow.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithDescriberModel(c.String("describer-model")),
		)))
	}

	pipeline, err := docflow.NewPipeline(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open pipeline: %w", err)
	}
	defer pipeline.Close()

	// Stage local files into the object store before processing
	refs := make([]ingest.DocumentRef, len(entries))
	for i, entry := range entries {
		data, readErr := os.ReadFile(entry.Path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Path, readErr)
		}

		key := ingest.RawKey(entry.ID)
		if _, putErr := pipeline.ObjectStore().Put(ctx, key, data); putErr != nil {
			return fmt.Errorf("failed to stage %s: %w", entry.Path, putErr)
		}

		name := entry.Name
		if name == "" {
			name = entry.Path
		}
		refs[i] = ingest.DocumentRef{FileID: entry.ID, Name: name, Source: key}
	}

	orch, err := pipeline.NewOrchestrator(
		ingest.WithPoolSize(c.Int("workers")),
		ingest.WithUploadMarkdown(c.Bool("upload-markdown")),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orch.Release()

	results := orch.ProcessAll(ctx, refs)

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%-20s FAILED (%s): %v\n", result.FileID, result.FailedStage, result.Err)
			continue
		}
		verb := "ingested"
		if result.NoOp {
			verb = "unchanged"
		}
		fmt.Printf("%-20s %s: %d pages, %d chunks (%v)\n",
			result.FileID, verb, result.Pages, result.Chunks, result.Duration.Round(time.Millisecond))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(results))
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	documents := badger.NewDocumentRepository(backend)

	docs, err := documents.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No documents found")
		return nil
	}

	fmt.Printf("%-20s %-24s %-10s %-6s %-6s %s\n", "FILE ID", "NAME", "STATUS", "PAGES", "CHUNKS", "DETAIL")
	for _, doc := range docs {
		detail := ""
		if doc.Status == core.StatusFailed {
			detail = fmt.Sprintf("%s: %s", doc.FailedStage, doc.FailureReason)
		}
		fmt.Printf("%-20s %-24s %-10s %-6d %-6d %s\n",
			doc.FileID, doc.Name, doc.Status, doc.PageCount, doc.ChunkCount, detail)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	documents := badger.NewDocumentRepository(backend)
	vectors := badger.NewVectorStore(backend)

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	searcher, err := search.NewSearcher(documents, vectors, embedder)
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(ctx, c.String("query"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. [%.3f] %s (page %d, chunk %d)\n%s\n\n",
			i+1, result.Score, result.Name, result.Page, result.ChunkIndex, result.Text)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	documents := badger.NewDocumentRepository(backend)
	vectors := badger.NewVectorStore(backend)

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	reembedder := reembed.NewReembedder(documents, vectors, embedder, reembedConfig, os.Stderr)
	return reembedder.Run(ctx)
}
