package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the types persisted by the storage
// layer. Timestamps are stored as Unix microseconds.
var (
	IDMUS              = idMUS{}
	StatusMUS          = statusMUS{}
	StageMUS           = stageMUS{}
	ContentHashMUS     = contentHashMUS{}
	SourceDocumentMUS  = sourceDocumentMUS{}
	EmbeddingRecordMUS = embeddingRecordMUS{}
)

var (
	_ mus.Serializer[ID]              = IDMUS
	_ mus.Serializer[SourceDocument]  = SourceDocumentMUS
	_ mus.Serializer[EmbeddingRecord] = EmbeddingRecordMUS
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) int      { return varint.Uint64.Marshal(uint64(v), bs) }
func (s idMUS) Size(v ID) int                    { return varint.Uint64.Size(uint64(v)) }
func (s idMUS) Skip(bs []byte) (int, error)      { return varint.Uint64.Skip(bs) }
func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

type statusMUS struct{}

func (s statusMUS) Marshal(v Status, bs []byte) int { return varint.Int.Marshal(int(v), bs) }
func (s statusMUS) Size(v Status) int               { return varint.Int.Size(int(v)) }
func (s statusMUS) Skip(bs []byte) (int, error)     { return varint.Int.Skip(bs) }
func (s statusMUS) Unmarshal(bs []byte) (Status, int, error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return Status(v), n, err
}

type stageMUS struct{}

func (s stageMUS) Marshal(v Stage, bs []byte) int { return varint.Int.Marshal(int(v), bs) }
func (s stageMUS) Size(v Stage) int               { return varint.Int.Size(int(v)) }
func (s stageMUS) Skip(bs []byte) (int, error)    { return varint.Int.Skip(bs) }
func (s stageMUS) Unmarshal(bs []byte) (Stage, int, error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return Stage(v), n, err
}

type contentHashMUS struct{}

func (s contentHashMUS) Marshal(v ContentHash, bs []byte) int { return ord.String.Marshal(string(v), bs) }
func (s contentHashMUS) Size(v ContentHash) int               { return ord.String.Size(string(v)) }
func (s contentHashMUS) Skip(bs []byte) (int, error)          { return ord.String.Skip(bs) }
func (s contentHashMUS) Unmarshal(bs []byte) (ContentHash, int, error) {
	v, n, err := ord.String.Unmarshal(bs)
	return ContentHash(v), n, err
}

type sourceDocumentMUS struct{}

func (s sourceDocumentMUS) Marshal(v SourceDocument, bs []byte) (n int) {
	n = ord.String.Marshal(v.FileID, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.MarkdownKey, bs[n:])
	n += ContentHashMUS.Marshal(v.ContentHash, bs[n:])
	n += StatusMUS.Marshal(v.Status, bs[n:])
	n += StageMUS.Marshal(v.FailedStage, bs[n:])
	n += ord.String.Marshal(v.FailureReason, bs[n:])
	n += varint.Int.Marshal(v.PageCount, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (s sourceDocumentMUS) Unmarshal(bs []byte) (v SourceDocument, n int, err error) {
	var n1 int
	if v.FileID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.MarkdownKey, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.ContentHash, n1, err = ContentHashMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Status, n1, err = StatusMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.FailedStage, n1, err = StageMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.FailureReason, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.PageCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s sourceDocumentMUS) Size(v SourceDocument) (n int) {
	n = ord.String.Size(v.FileID)
	n += ord.String.Size(v.Name)
	n += ord.String.Size(v.Source)
	n += ord.String.Size(v.MarkdownKey)
	n += ContentHashMUS.Size(v.ContentHash)
	n += StatusMUS.Size(v.Status)
	n += StageMUS.Size(v.FailedStage)
	n += ord.String.Size(v.FailureReason)
	n += varint.Int.Size(v.PageCount)
	n += varint.Int.Size(v.ChunkCount)
	n += sizeTime(v.InsertedAt)
	n += sizeTime(v.UpdatedAt)
	return n
}

func (s sourceDocumentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.FileID, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(v.Page, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	return n
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.FileID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Page, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s embeddingRecordMUS) Size(v EmbeddingRecord) (n int) {
	n = IDMUS.Size(v.Id)
	n += ord.String.Size(v.FileID)
	n += varint.Int.Size(v.ChunkIndex)
	n += varint.Int.Size(v.Page)
	n += ord.String.Size(v.Text)
	n += sizeVector(v.Vector)
	n += sizeTime(v.InsertedAt)
	return n
}

func (s embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	// Bound the length against the remaining bytes before allocating, so
	// corrupt data fails the unmarshal instead of panicking.
	if length < 0 || length > (len(bs)-n)/4 {
		return nil, n, ErrInvalidVectorLength
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (n int) {
	n = varint.Int.Size(len(v))
	for _, f := range v {
		n += raw.Float32.Size(f)
	}
	return n
}
