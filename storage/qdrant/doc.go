// Package qdrant implements storage.VectorIndex against a Qdrant server
// over its HTTP API.
//
// The collection holds one point per transcript chunk with two named
// vectors: a dense embedding ("dense", cosine distance) and a hashed
// bag-of-words sparse vector ("sparse"). Hybrid queries prefetch both and
// fuse them server-side with reciprocal rank fusion.
//
// Transport failures and server-side errors are reported wrapped in
// storage.ErrUnavailable so callers can distinguish an unreachable store
// from an empty result.
package qdrant
