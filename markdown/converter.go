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


package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docflow/ai"
	"github.com/poiesic/docflow/core"
)

// Parser converts raw document bytes into a structured parsed document.
type Parser interface {
	// Parse converts the raw bytes of the named document into per-page
	// markdown. It returns ErrEmptyDocument or ErrInvalidEncoding when the
	// input cannot be interpreted.
	Parse(ctx context.Context, fileID, name, source string, data []byte) (*core.ParsedDocument, error)
}

// Converter implements Parser for markdown documents with page-break
// placeholders and embedded base64 images.
type Converter struct {
	describer    ai.ImageDescriber
	pool         *ants.Pool
	contextLines int
	logger       *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter) error

// WithImageDescriber enables image description. Embedded images are replaced
// with generated descriptions; without a describer they are left in place.
func WithImageDescriber(describer ai.ImageDescriber) Option {
	return func(c *Converter) error {
		c.describer = describer
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent image description.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Converter) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithContextLines sets how many lines before and after an image are passed
// to the describer as surrounding context. Default is 5.
func WithContextLines(lines int) Option {
	return func(c *Converter) error {
		if lines < 0 {
			lines = 0
		}
		c.contextLines = lines
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewConverter creates a markdown converter.
func NewConverter(opts ...Option) (*Converter, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Converter{
		pool:         pool,
		contextLines: 5,
		logger:       slog.Default().With("component", "markdown-converter"),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	return c, nil
}

// Release frees the worker pool. The converter must not be used afterwards.
func (c *Converter) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// Parse converts raw markdown bytes into a parsed document with per-page
// content. When an image describer is configured, embedded base64 images
// are described concurrently and replaced with their descriptions before
// page splitting.
func (c *Converter) Parse(ctx context.Context, fileID, name, source string, data []byte) (*core.ParsedDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, name)
	}

	markdown := ReplacePageBreaks(string(data), 1)

	if c.describer != nil {
		described, err := c.describeImages(ctx, markdown)
		if err != nil {
			return nil, err
		}
		markdown = described
	}

	pages := SplitByPages(markdown)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	c.logger.Debug("parsed document",
		"fileID", fileID,
		"name", name,
		"pages", len(pages))

	return &core.ParsedDocument{
		FileID:   fileID,
		Name:     name,
		Source:   source,
		Pages:    pages,
		Markdown: markdown,
	}, nil
}

// describeImages generates descriptions for all embedded images concurrently
// and returns the markdown with images replaced. Describer failures degrade
// to a placeholder description rather than failing the parse.
func (c *Converter) describeImages(ctx context.Context, markdown string) (string, error) {
	images := ExtractImages(markdown)
	if len(images) == 0 {
		return markdown, nil
	}

	c.logger.Debug("describing embedded images", "count", len(images))

	var wg sync.WaitGroup
	for _, img := range images {
		img := img
		contextText := ContextAroundImage(markdown, img, c.contextLines, c.contextLines)

		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()

			description, describeErr := c.describer.DescribeImage(ctx, ai.Image{
				Format: img.Format,
				Data:   img.Data,
			}, contextText)
			if describeErr != nil {
				c.logger.Warn("failed to describe image",
					"index", img.Index,
					"format", img.Format,
					"err", describeErr)
				description = "Error generating description for image"
			}
			img.Description = description
		})
		if err != nil {
			wg.Done()
			return "", err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return ReplaceImagesWithDescriptions(markdown, images), nil
}
