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
	"errors"
	"fmt"
)

// Boundary selects the splitting strategy used when a page exceeds the
// chunk size.
type Boundary int

const (
	// BoundaryMarkdown splits on markdown structure (headings, code fences,
	// paragraphs) before falling back to finer separators.
	BoundaryMarkdown Boundary = iota + 1
	// BoundaryParagraph splits on blank lines, then single newlines.
	BoundaryParagraph
	// BoundarySentence splits on sentence-ending punctuation.
	BoundarySentence
)

// String returns the boundary name.
func (b Boundary) String() string {
	switch b {
	case BoundaryMarkdown:
		return "markdown"
	case BoundaryParagraph:
		return "paragraph"
	case BoundarySentence:
		return "sentence"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// Valid reports whether the boundary is a known value.
func (b Boundary) Valid() bool {
	return b >= BoundaryMarkdown && b <= BoundarySentence
}

// ParseBoundary converts a boundary name into its Boundary value.
func ParseBoundary(name string) (Boundary, error) {
	switch name {
	case "markdown":
		return BoundaryMarkdown, nil
	case "paragraph":
		return BoundaryParagraph, nil
	case "sentence":
		return BoundarySentence, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidBoundary, name)
	}
}

var (
	// ErrInvalidBoundary indicates an unknown boundary name or value.
	ErrInvalidBoundary = errors.New("invalid chunk boundary")

	// ErrInvalidChunkSize indicates a non-positive maximum chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap indicates an overlap that is negative or not smaller
	// than the chunk size.
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")
)

// Config holds chunking parameters.
type Config struct {
	// MaxSize is the maximum chunk length in characters.
	MaxSize int
	// Overlap is how many characters consecutive chunks share.
	Overlap int
	// Boundary selects the splitting strategy.
	Boundary Boundary
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:  3000,
		Overlap:  500,
		Boundary: BoundaryMarkdown,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.MaxSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.MaxSize {
		return fmt.Errorf("%w: overlap %d, size %d", ErrInvalidOverlap, c.Overlap, c.MaxSize)
	}
	if !c.Boundary.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidBoundary, int(c.Boundary))
	}
	return nil
}
