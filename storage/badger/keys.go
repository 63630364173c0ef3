package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	documentPrefix  = "docrec"
	embeddingPrefix = "embrec"
	objectPrefix    = "objdat"
)

// appendLengthPrefixed appends id preceded by its fixed-width length. Ids
// are caller-supplied strings and may contain the ':' separator; the length
// keeps one id's key space from ever being a prefix of another's.
func appendLengthPrefixed(buf []byte, id string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(id)))
	return append(buf, id...)
}

// makeDocumentKey generates a key for a document state row by file id.
func makeDocumentKey(fileID string) []byte {
	buf := append([]byte(documentPrefix), ':')
	return appendLengthPrefixed(buf, fileID)
}

// makeEmbeddingFilePrefix generates the key prefix covering every embedding
// record of a file. The length-prefixed file id guarantees the prefix scan
// never leaks into a neighboring file's records.
func makeEmbeddingFilePrefix(fileID string) []byte {
	buf := append([]byte(embeddingPrefix), ':')
	buf = appendLengthPrefixed(buf, fileID)
	return append(buf, ':')
}

// makeEmbeddingKey generates a composite key for an embedding record.
// The chunk index is encoded big-endian so lexicographic key order equals
// chunk index order within a file.
func makeEmbeddingKey(fileID string, chunkIndex int) []byte {
	buf := makeEmbeddingFilePrefix(fileID)
	return binary.BigEndian.AppendUint64(buf, uint64(chunkIndex))
}

// makeObjectKey generates a key for an object store blob.
func makeObjectKey(key string) []byte {
	buf := append([]byte(objectPrefix), ':')
	return appendLengthPrefixed(buf, key)
}
