// Package crypto exposes the hashing primitives used by ozymandias.
//
// Contents
//
//   - Content digests of normalised document bodies (Digest), used to detect
//     duplicate and unchanged documents
//   - Short digest fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Digests are BLAKE2b-256 and hex encoded, so they are stable across
// platforms and storage backends.
package crypto
