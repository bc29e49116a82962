// Package cli implements the plotkit command-line interface.
//
// The CLI manages plot surveys end to end: it lists sampling-plot
// blueprints, previews and renders layouts, records plots, tree and
// vegetation observations and sampling-unit progress, runs the ecological
// analysis, moves data between stores as JSON bundles and serves the HTTP
// API. It is built on cobra; status output uses lipgloss and logging uses
// charmbracelet/log.
//
// # Commands
//
//   - blueprint list|show: Browse the blueprint catalog
//   - layout: Preview a blueprint layout or render a plot's committed layout
//   - plot create|list|show|progress|delete: Manage plots
//   - observe tree|veg: Record observations against a sampling unit
//   - analyze: Diversity indices, importance values and the species-accumulation curve
//   - export, import: Move plots between stores
//   - serve: Run the HTTP API with Prometheus metrics
//   - cache clear|path: Manage the layout and report cache
//
// # Configuration
//
// Every command reads the TOML configuration selected by --config (default
// $XDG_CONFIG_HOME/plotkit/config.toml), which chooses the store and cache
// backends. PLOTKIT_* environment variables override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context as well as held by the CLI.
package cli
