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


package storage

import (
	"github.com/poiesic/docflow/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalSourceDocument serializes a SourceDocument to bytes.
func MarshalSourceDocument(doc *core.SourceDocument) []byte {
	buf := make([]byte, core.SourceDocumentMUS.Size(*doc))
	core.SourceDocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalSourceDocument deserializes a SourceDocument from bytes.
func UnmarshalSourceDocument(data []byte) (*core.SourceDocument, error) {
	doc, _, err := core.SourceDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalEmbeddingRecord serializes an EmbeddingRecord to bytes.
func MarshalEmbeddingRecord(record *core.EmbeddingRecord) []byte {
	buf := make([]byte, core.EmbeddingRecordMUS.Size(*record))
	core.EmbeddingRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalEmbeddingRecord deserializes an EmbeddingRecord from bytes.
func UnmarshalEmbeddingRecord(data []byte) (*core.EmbeddingRecord, error) {
	record, _, err := core.EmbeddingRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
