// Package store provides SQLite-backed persistence for remote JSON-LD
// context documents.
//
// Framing a document whose @context points at an http(s) URL requires that
// context to be fetched. The store lets repeated runs reuse earlier fetches:
//   - Entries are keyed by the exact context URL
//   - Documents are stored as canonical JSON (internal/canonical)
//   - content_hash is canonical.Digest(DomainContext, document)
//   - fetched_at is Unix seconds, used by callers for TTL checks
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The store is optional. A run without a configured cache path never opens a
// database and leaves no state behind.
package store
