// SPDX-License-Identifier: MIT

package resample

// Defaults (single source of truth for zero-value behaviour).
const (
	// DefaultMaxCells caps the number of output cells (2^28 ≈ 2 GiB of float64).
	DefaultMaxCells = 1 << 28

	// DefaultMemoryBudget of 0 disables the explicit byte budget; the host
	// availability check still applies.
	DefaultMemoryBudget = 0

	// DefaultSkipNoData interpolates NoData samples as plain numbers.
	DefaultSkipNoData = false

	// DefaultCheckHostMemory consults the host for available memory.
	DefaultCheckHostMemory = true
)

const (
	panicMaxCellsInvalid = "resample: WithMaxCells: n must be positive"
)

// Option mutates internal options. Later options override earlier ones.
type Option func(*Options)

// Options holds the effective configuration after applying Option setters.
type Options struct {
	skipNoData bool
	maxCells   int
	memBudget  uint64
	checkHost  bool
}

// WithSkipNoData drops NoData samples and triangulates the remaining cell
// centres as scattered points.
func WithSkipNoData() Option {
	return func(o *Options) { o.skipNoData = true }
}

// WithMaxCells caps the number of output cells. Panics when n <= 0.
func WithMaxCells(n int) Option {
	if n <= 0 {
		panic(panicMaxCellsInvalid)
	}
	return func(o *Options) { o.maxCells = n }
}

// WithMemoryBudget caps the estimated output footprint in bytes.
// Zero disables the budget.
func WithMemoryBudget(bytes uint64) Option {
	return func(o *Options) { o.memBudget = bytes }
}

// WithoutHostMemoryCheck skips the host availability query, leaving only the
// cell cap and the explicit budget.
func WithoutHostMemoryCheck() Option {
	return func(o *Options) { o.checkHost = false }
}

func defaultOptions() Options {
	return Options{
		skipNoData: DefaultSkipNoData,
		maxCells:   DefaultMaxCells,
		memBudget:  DefaultMemoryBudget,
		checkHost:  DefaultCheckHostMemory,
	}
}

// gatherOptions applies opts over the defaults. nil entries are ignored.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
