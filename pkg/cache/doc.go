// Package cache stores computed layouts and analysis reports.
//
// # Backends
//
// Every backend implements [Cache], a byte-oriented key/value interface with
// per-entry TTLs:
//
//   - [NullCache] never stores anything (caching disabled).
//   - [FileCache] keeps one JSON file per entry under a directory, the
//     default for the CLI.
//   - [RedisCache] shares entries between API instances through Redis.
//
// # Keys
//
// A [Keyer] derives keys from everything an entry depends on, so a change
// to the inputs never serves a stale value. [DefaultKeyer] hashes the
// inputs with SHA-256; [ScopedKeyer] adds a prefix for isolated namespaces
// (one per project or tenant):
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "project:sal:")
//	key := keyer.LayoutKey(cache.LayoutKeyOpts{BlueprintKey: "tree-plot-20x20@v1", PlotID: id})
//
// # Retries
//
// Backends that talk to a server wrap transient failures with [Retryable]
// and run through a [Backoff], [DefaultBackoff] unless configured.
package cache
