package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docflow/ai"
	"github.com/poiesic/docflow/storage"
)

// Result is one ranked search hit joined with its source document metadata.
type Result struct {
	// FileID is the document the chunk belongs to.
	FileID string
	// Name is the document's human-readable name.
	Name string
	// Page is the page the chunk came from.
	Page int
	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int
	// Text is the chunk text.
	Text string
	// Score is the final relevance score.
	Score float32
}

// Searcher provides semantic search over stored document chunks.
type Searcher struct {
	documents storage.DocumentRepository
	vectors   storage.VectorStore
	embedder  ai.Embedder
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	documents storage.DocumentRepository,
	vectors storage.VectorStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		documents: documents,
		vectors:   vectors,
		embedder:  embedder,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for chunks similar to the query.
// Returns up to maxHits results, ranked by relevance score. Chunks that
// contain every query word verbatim get a fixed score boost.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits <= 0 {
		maxHits = 10
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.vectors.Query(ctx, embedding, maxHits)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidQuery) {
			return []*Result{}, nil
		}
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	// Join matches with document metadata. Missing state rows degrade to a
	// result without a name rather than failing the search.
	names := make(map[string]string)
	results := make([]*Result, 0, len(matches))
	for _, match := range matches {
		record := match.Record

		name, seen := names[record.FileID]
		if !seen {
			doc, getErr := s.documents.Get(ctx, record.FileID)
			if getErr != nil {
				s.logger.Warn("no state row for search hit", "fileID", record.FileID, "err", getErr)
			} else {
				name = doc.Name
			}
			names[record.FileID] = name
		}

		score := match.Score
		if containsAllQueryWords(record.Text, query) {
			score += 0.3
		}

		results = append(results, &Result{
			FileID:     record.FileID,
			Name:       name,
			Page:       record.Page,
			ChunkIndex: record.ChunkIndex,
			Text:       record.Text,
			Score:      score,
		})
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}

	return results, nil
}
