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


package chunk

import (
	"iter"
	"strings"

	"github.com/poiesic/docflow/core"
	"github.com/tmc/langchaingo/textsplitter"
)

// Builder splits parsed documents into chunks carrying file, page, and
// index metadata.
type Builder struct {
	config   Config
	splitter textsplitter.TextSplitter
}

// NewBuilder creates a chunk builder with the given configuration.
func NewBuilder(config Config) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Builder{
		config:   config,
		splitter: newSplitter(config),
	}, nil
}

// newSplitter builds the text splitter for the configured boundary.
func newSplitter(config Config) textsplitter.TextSplitter {
	switch config.Boundary {
	case BoundaryParagraph:
		return textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(config.MaxSize),
			textsplitter.WithChunkOverlap(config.Overlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		)
	case BoundarySentence:
		return textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(config.MaxSize),
			textsplitter.WithChunkOverlap(config.Overlap),
			textsplitter.WithSeparators([]string{". ", "! ", "? ", "\n", " ", ""}),
		)
	default:
		return textsplitter.NewMarkdownTextSplitter(
			textsplitter.WithChunkSize(config.MaxSize),
			textsplitter.WithChunkOverlap(config.Overlap),
		)
	}
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config {
	return b.config
}

// Chunks returns a lazy sequence over the document's chunks, page by page.
// Chunk indices are contiguous and zero-based across the whole document.
// Iteration stops at the first splitting error, which is yielded with a
// zero-value chunk.
func (b *Builder) Chunks(doc *core.ParsedDocument) iter.Seq2[core.Chunk, error] {
	return func(yield func(core.Chunk, error) bool) {
		if doc == nil {
			yield(core.Chunk{}, core.ErrInvalidSourceDocument)
			return
		}

		index := 0
		for _, page := range doc.Pages {
			pieces, err := b.splitter.SplitText(page.Markdown)
			if err != nil {
				yield(core.Chunk{}, err)
				return
			}

			for _, piece := range pieces {
				text := strings.TrimSpace(piece)
				if text == "" {
					continue
				}

				chunk := core.Chunk{
					FileID: doc.FileID,
					Index:  index,
					Page:   page.Number,
					Text:   text,
				}
				index++

				if !yield(chunk, nil) {
					return
				}
			}
		}
	}
}

// Build splits the document eagerly and returns all chunks.
func (b *Builder) Build(doc *core.ParsedDocument) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for chunk, err := range b.Chunks(doc) {
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
