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


package docflow

import (
	"io"
	"log/slog"

	"github.com/poiesic/docflow/ai"
	"github.com/poiesic/docflow/ai/openai"
	"github.com/poiesic/docflow/chunk"
	"github.com/poiesic/docflow/ingest"
	"github.com/poiesic/docflow/markdown"
	"github.com/poiesic/docflow/reembed"
	"github.com/poiesic/docflow/search"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
)

// Pipeline wires the storage backend, AI provider, parser, and chunker into
// a ready-to-use ingestion system.
type Pipeline struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	vectors   storage.VectorStore
	objects   storage.ObjectStore
	provider  ai.Provider
	converter *markdown.Converter
	builder   *chunk.Builder
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	aiConfig    *ai.Config
	chunkConfig chunk.Config
	provider    ai.Provider
	inMemory    bool
}

// WithAIConfig sets the AI service configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) PipelineOption {
	return func(o *pipelineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithChunkConfig sets the chunking configuration.
func WithChunkConfig(config chunk.Config) PipelineOption {
	return func(o *pipelineOptions) {
		o.chunkConfig = config
	}
}

// WithProvider supplies a pre-built AI provider, bypassing the default
// OpenAI-compatible one. Useful for tests with mock providers.
func WithProvider(provider ai.Provider) PipelineOption {
	return func(o *pipelineOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the storage backend in memory, discarding all data on
// close.
func WithInMemory() PipelineOption {
	return func(o *pipelineOptions) {
		o.inMemory = true
	}
}

// NewPipeline opens the storage backend at filePath and wires all
// components.
func NewPipeline(filePath string, opts ...PipelineOption) (*Pipeline, error) {
	// Apply options
	options := &pipelineOptions{
		aiConfig:    ai.DefaultConfig(), // Default if not provided
		chunkConfig: chunk.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documents := badger.NewDocumentRepository(backend)
	vectors := badger.NewVectorStore(backend)
	objects := badger.NewObjectStore(backend)

	// AI provider: injected or OpenAI-compatible by configuration
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	converter, err := markdown.NewConverter(
		markdown.WithImageDescriber(provider.ImageDescriber()),
	)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	builder, err := chunk.NewBuilder(options.chunkConfig)
	if err != nil {
		converter.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Pipeline{
		backend:   backend,
		documents: documents,
		vectors:   vectors,
		objects:   objects,
		provider:  provider,
		converter: converter,
		builder:   builder,
		logger:    slog.Default(),
	}, nil
}

// Close releases the AI provider, converter, and storage backend.
func (p *Pipeline) Close() error {
	if err := p.provider.Close(); err != nil {
		p.logger.Error("error closing AI provider", "err", err)
	}

	p.converter.Release()

	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the per-document state store.
func (p *Pipeline) DocumentRepository() storage.DocumentRepository {
	return p.documents
}

// VectorStore returns the embedding record store.
func (p *Pipeline) VectorStore() storage.VectorStore {
	return p.vectors
}

// ObjectStore returns the raw/artifact object store.
func (p *Pipeline) ObjectStore() storage.ObjectStore {
	return p.objects
}

// Provider returns the AI service provider.
func (p *Pipeline) Provider() ai.Provider {
	return p.provider
}

// NewOrchestrator creates an ingestion orchestrator over the pipeline's
// components.
func (p *Pipeline) NewOrchestrator(opts ...ingest.Option) (*ingest.Orchestrator, error) {
	return ingest.NewOrchestrator(
		p.documents, p.objects, p.vectors,
		p.converter, p.builder, p.provider.Embedder(),
		opts...)
}

// NewSearcher creates a semantic searcher over the pipeline's stores.
func (p *Pipeline) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(p.documents, p.vectors, p.provider.Embedder(), opts...)
}

// NewReembedder creates a reembedder that rewrites stored embedding records
// with the pipeline's embedder. Progress is written to the given writer.
func (p *Pipeline) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(p.documents, p.vectors, p.provider.Embedder(), config, progress)
}
