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


// Package search provides hybrid retrieval over indexed meeting chunks.
//
// The Retriever type combines per-query:
//   - Dense retrieval using query embeddings
//   - Sparse retrieval using a hashed bag-of-words encoding
//   - Server-side reciprocal rank fusion of both candidate lists
//
// Retrieval is always scoped to one meeting. An optional speaker filter is
// applied after fusion over an over-fetched candidate pool, so filtering
// doesn't starve the result set. Multi-query retrieval merges per-variant
// results by chunk identity, keeping the best score for each chunk.
// Time-window retrieval finds the chunks spanning a moment in the meeting.
package search
