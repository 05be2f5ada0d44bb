// Package sparse provides the hashed bag-of-words encoder shared by the
// index and query sides of hybrid search.
//
// Tokens are lowercased alphanumeric runs mapped into a fixed 2^18 index
// space with a stable FNV-1a hash, so vectors produced at index time and
// query time are directly comparable. Hash collisions are an accepted
// lossy approximation of exact keyword matching.
package sparse
