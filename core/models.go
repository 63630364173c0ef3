package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical
// content always produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentHash is a fingerprint of a document's raw bytes, used to detect
// content changes between ingestion runs.
type ContentHash string

// HashBytes computes the BLAKE2b-256 content hash of raw document bytes.
func HashBytes(data []byte) ContentHash {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return ContentHash(hex.EncodeToString(h.Sum(nil)))
}

// Status identifies how far a source document has advanced through the
// ingestion pipeline. The values form a strict order: each status may only
// be reached from its predecessor, except Failed which may follow any
// in-flight status.
type Status int

const (
	// StatusPending means the document has been discovered but not yet fetched.
	StatusPending Status = iota + 1
	// StatusDownloaded means raw bytes have been fetched and hashed.
	StatusDownloaded
	// StatusParsed means the document has been converted to markdown pages.
	StatusParsed
	// StatusUploaded means the markdown artifact was written to the object store.
	StatusUploaded
	// StatusChunked means chunks have been derived from the parsed document.
	StatusChunked
	// StatusEmbedded means all chunks have embedding vectors.
	StatusEmbedded
	// StatusStored means embedding records were persisted to the vector store.
	StatusStored
	// StatusFailed means a stage failed; FailedStage records which one.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDownloaded:
		return "downloaded"
	case StatusParsed:
		return "parsed"
	case StatusUploaded:
		return "uploaded"
	case StatusChunked:
		return "chunked"
	case StatusEmbedded:
		return "embedded"
	case StatusStored:
		return "stored"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Valid reports whether the status is one of the defined values.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusFailed
}

// Terminal reports whether the status ends the pipeline for the current
// content version.
func (s Status) Terminal() bool {
	return s == StatusStored || s == StatusFailed
}

// AtLeast reports whether the pipeline has advanced through the given
// status. Failed never counts as progress.
func (s Status) AtLeast(other Status) bool {
	if s == StatusFailed {
		return false
	}
	return s >= other
}

// Stage identifies one discrete step of the ingestion pipeline.
type Stage int

const (
	// StageDownload fetches raw bytes from the object store.
	StageDownload Stage = iota + 1
	// StageParse converts raw bytes into markdown pages.
	StageParse
	// StageUpload writes the markdown artifact to the object store.
	StageUpload
	// StageChunk splits the parsed document into chunks.
	StageChunk
	// StageEmbed generates embedding vectors for chunks.
	StageEmbed
	// StageStore persists embedding records to the vector store.
	StageStore
)

// String returns the lowercase name of the stage.
func (s Stage) String() string {
	switch s {
	case StageDownload:
		return "download"
	case StageParse:
		return "parse"
	case StageUpload:
		return "upload"
	case StageChunk:
		return "chunk"
	case StageEmbed:
		return "embed"
	case StageStore:
		return "store"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// SourceDocument is the per-document state row owned by the orchestrator.
// It is created on discovery and mutated only by the orchestrator advancing
// its status after each successful stage.
type SourceDocument struct {
	FileID        string // External identity of the file
	Name          string // Human-readable file name
	Source        string // Object store key the raw bytes come from
	MarkdownKey   string // Object store key of the markdown artifact, if uploaded
	ContentHash   ContentHash
	Status        Status
	FailedStage   Stage  // Set only when Status == StatusFailed
	FailureReason string // Underlying error message for the failed stage
	PageCount     int
	ChunkCount    int
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// Page is a single page of a parsed document.
type Page struct {
	Number   int // 1-indexed page number
	Markdown string
}

// ParsedDocument holds the markdown conversion of a source document.
// It is produced once per source document version and is immutable
// after creation.
type ParsedDocument struct {
	FileID   string
	Name     string
	Source   string
	Pages    []Page
	Markdown string // Full markdown with numbered page markers
}

// PageCount returns the number of non-empty pages.
func (p *ParsedDocument) PageCount() int {
	return len(p.Pages)
}

// Chunk is an ordered fragment of a parsed document, the unit of embedding.
// Chunk ordering is significant: insertion order equals document order.
type Chunk struct {
	FileID string
	Index  int // Zero-based, contiguous, matching emission order
	Page   int // Best-effort page number, 1 when unavailable
	Text   string
}

// ID derives the deterministic record identity for this chunk. The same
// file and index always map to the same ID, so re-storing a chunk
// overwrites its previous record.
func (c *Chunk) ID() ID {
	return IDFromContent(fmt.Sprintf("%s:%d", c.FileID, c.Index))
}

// EmbeddingRecord pairs a chunk's identity with its embedding vector and
// metadata. Persisted exactly once per chunk version.
type EmbeddingRecord struct {
	Id         ID
	FileID     string
	ChunkIndex int
	Page       int
	Text       string
	Vector     []float32
	InsertedAt time.Time
}

// VectorMatch is a ranked result from a vector store similarity query.
type VectorMatch struct {
	Record *EmbeddingRecord
	Score  float32
}

// StatusEvent describes a single status transition of a source document.
type StatusEvent struct {
	EventID string // Unique event identifier
	FileID  string
	From    Status
	To      Status
	Stage   Stage
	At      time.Time
}
