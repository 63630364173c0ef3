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


// Package markdown converts raw document bytes into structured parsed
// documents with per-page markdown content.
//
// The input is expected to be markdown produced by an upstream PDF/document
// converter, with "<!-- page break -->" placeholders between pages and
// images embedded inline as base64 data URIs. The Converter rewrites page
// breaks into numbered markers, splits the text into pages, and optionally
// replaces embedded images with natural-language descriptions generated by
// an ai.ImageDescriber.
//
// Constructors return the Parser interface rather than concrete types so
// callers can swap in alternative implementations.
package markdown
