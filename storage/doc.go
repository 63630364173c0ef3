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


// Package storage provides the storage abstraction layer for docflow.
//
// This package defines the capability contracts the ingestion pipeline
// depends on, decoupling orchestration logic from any specific storage
// technology:
//
//   - ObjectStore: raw and intermediate artifacts keyed by string
//   - DocumentRepository: per-document pipeline state rows
//   - VectorStore: embedding records with similarity queries
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backend
// implementations:
//
//	docs, err := badger.NewDocumentRepository(backend)  // returns storage.DocumentRepository
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to BadgerDB specifics
//   - Swappability: Easy to add alternative backends (S3, pgvector, in-memory, etc.)
//   - Testing: Consumers can use mock implementations without modification
//
// # Usage
//
// Create stores backed by a shared BadgerDB backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// Use in tests with in-memory storage:
//
//	docs, vectors, objects, backend, err := badger.NewMemoryStores()
//
// # Thread Safety
//
// All implementations must be thread-safe. Concurrent document pipelines
// share no mutable state other than the stores themselves; keys are
// file-id scoped, so last-writer-wins per distinct key is sufficient.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
package storage
