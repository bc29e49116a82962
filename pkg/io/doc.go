// Package io exports and imports survey data as self-contained JSON bundles.
//
// # Overview
//
// A [Bundle] carries plots together with their tree and vegetation
// observations and sampling-unit progress. Bundles move data between field
// devices and the office database, or between two stores.
//
// # Format
//
//	{
//	  "format_version": 1,
//	  "exported_at": "2026-05-01T08:00:00Z",
//	  "plots": [{"id": "...", "blueprint_id": "tree-plot-20x20", ...}],
//	  "trees": [{"id": "...", "plot_id": "...", "sampling_unit_id": "...", ...}],
//	  "vegetation": [...],
//	  "progress": [...]
//	}
//
// Every observation and progress record must reference a plot contained in
// the same bundle.
//
// # Import Modes
//
// [Import] supports three modes:
//
//   - [ModeCreate]: fail with CONFLICT if any plot already exists.
//   - [ModeOverwrite]: replace existing plots and everything recorded
//     against them.
//   - [ModeClone]: import under fresh plot ids. Sampling-unit ids are
//     committed layout ids derived from the plot id, so they are remapped
//     through both layouts by structural path ("root/r0c1").
//
// # Files
//
// Use [WriteFile] and [ReadFile] for bundle files, or [WriteJSON] and
// [ReadJSON] for any stream.
package io
