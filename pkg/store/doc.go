// Package store persists plots, observations and sampling progress.
//
// # Backends
//
// [Store] is implemented by three backends:
//
//   - [memory.Store]: maps guarded by a mutex, for tests and one-shot runs.
//   - [sqlite.Store]: a single-file database through the pure Go
//     modernc.org/sqlite driver. This is the default for the CLI.
//   - [mongo.Store]: MongoDB collections for shared deployments.
//
// [Open] selects a backend from a [Config].
//
// # Semantics
//
// Records are keyed by id and written with upsert semantics. Observations
// and progress entries reference an existing plot; writing one for an
// unknown plot fails with PLOT_NOT_FOUND. [Store.DeletePlot] removes the plot
// together with everything recorded against it.
//
// List operations return records in a stable order: plots by creation time
// then id, observations by plot id then id, progress by sampling unit id.
package store
