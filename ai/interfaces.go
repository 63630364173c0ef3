package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Image is an embedded document image awaiting description.
type Image struct {
	// Format is the image format, e.g. "png" or "jpeg".
	// Must match one of the supported image formats.
	Format string

	// Data is the decoded image bytes.
	Data []byte
}

// ImageDescriber produces a textual description of a document image so the
// image can be replaced by searchable text before chunking and embedding.
// Implementations must be thread-safe for concurrent use.
type ImageDescriber interface {
	// DescribeImage generates a detailed description of the image.
	// contextText carries surrounding document text and may be empty;
	// when present it is used to ground the description.
	// Returns an error if description generation fails.
	DescribeImage(ctx context.Context, img Image, contextText string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and ImageDescriber instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ImageDescriber returns the image description service.
	// The returned ImageDescriber is safe for concurrent use.
	ImageDescriber() ImageDescriber

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
