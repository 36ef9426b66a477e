// Package memstore provides an in-memory implementation of the asset store.
//
// The store keeps tagged entries (pending or resolved) in plain maps and can
// be distributed across multiple buckets for improved performance under
// concurrent access. Bucket selection uses a hash of the identifier.
//
// The store can be configured with options:
//   - WithBucketsSize: sets the number of buckets
//   - WithIDHash: sets the identifier hash function for bucket selection
//   - WithCloner: sets an asset cloner for defensive copies
package memstore
