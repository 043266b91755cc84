// Package backend provides durable key-value backings for sitestate.
//
// A [Backend] stores opaque string values under string keys. It is the only
// shared resource in the state layer: each collection store owns one key and
// never touches another's.
//
// Implementations:
//
//   - [Memory]: process-local map, lost on exit (session-only behavior)
//   - [File]: a single JSON document on disk, rewritten atomically
//   - [SQLite]: a kv_store table in a SQLite database (modernc.org/sqlite)
//   - [Redis]: string keys in a Redis database (go-redis)
//
// Backends report failures as errors. Callers in sitestate never see those
// errors directly; the root package's Storage adapter absorbs them.
package backend
