package cache

import "slices"

// LayoutKeyOpts identifies a committed layout.
type LayoutKeyOpts struct {
	// BlueprintKey is the pinned "id@vN" of the plot.
	BlueprintKey string `json:"blueprint"`
	PlotID       string `json:"plot"`
	// Overrides is an opaque fingerprint of the layout overrides.
	Overrides string `json:"overrides,omitempty"`
}

// ReportKeyOpts identifies an analysis report.
type ReportKeyOpts struct {
	PlotIDs    []string `json:"plots"`
	Iterations int      `json:"iterations"`
	Seed       uint64   `json:"seed"`
	// DataHash fingerprints the observations the report was computed from.
	DataHash string `json:"data"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(opts LayoutKeyOpts) string
	ReportKey(opts ReportKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// ReportKey returns "report:<hash>". The plot order does not matter.
func (DefaultKeyer) ReportKey(opts ReportKeyOpts) string {
	opts.PlotIDs = slices.Clone(opts.PlotIDs)
	slices.Sort(opts.PlotIDs)
	return hashKey("report", opts)
}
