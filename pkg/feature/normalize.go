package feature

import (
	"go.uber.org/zap"

	"github.com/tunogya/ossa/pkg/model"
)

// NeutralFallback is substituted for a normalized value whenever no
// valid range or observation exists: missing cells, symbols with zero
// observations, and constant (max == min) series all map here instead
// of producing NaN or dividing by zero.
const NeutralFallback = 0.5

// Range holds the observed min/max of one feature for one symbol.
type Range struct {
	Min float64
	Max float64
	N   int // non-missing observations
}

// Degenerate reports whether the range cannot support a linear rescale.
func (r Range) Degenerate() bool {
	return r.N == 0 || r.Min == r.Max
}

// SymbolStats holds per-feature ranges for one symbol.
type SymbolStats struct {
	Open  Range
	Close Range
}

// Stats holds normalization statistics for every symbol on a panel,
// indexed by the panel's symbol axis. Stats exist only to drive
// Normalize; they are not part of the dataset output.
type Stats struct {
	PerSymbol []SymbolStats
}

// DegenerateCount returns the number of (symbol, feature) pairs that
// fall back to the neutral value. Observable data-quality signal, never
// fatal.
func (s *Stats) DegenerateCount() int {
	count := 0
	for _, st := range s.PerSymbol {
		if st.Open.Degenerate() {
			count++
		}
		if st.Close.Degenerate() {
			count++
		}
	}
	return count
}

// LogDegenerate emits one warning per degenerate (symbol, feature)
// pair so constant or empty series show up in operational logs.
func (s *Stats) LogDegenerate(logger *zap.Logger, symbols []string) {
	if logger == nil {
		return
	}
	for i, st := range s.PerSymbol {
		if i >= len(symbols) {
			break
		}
		if st.Open.Degenerate() {
			logger.Warn("degenerate open range, normalizing to neutral fallback",
				zap.String("symbol", symbols[i]),
				zap.Int("observations", st.Open.N))
		}
		if st.Close.Degenerate() {
			logger.Warn("degenerate close range, normalizing to neutral fallback",
				zap.String("symbol", symbols[i]),
				zap.Int("observations", st.Close.N))
		}
	}
}

// ComputeStats scans a panel and returns per-symbol min/max for open
// and close, ignoring missing cells.
func ComputeStats(p *model.Panel) *Stats {
	dates, symbols := p.Shape()
	stats := &Stats{PerSymbol: make([]SymbolStats, symbols)}

	for s := 0; s < symbols; s++ {
		var open, close Range
		for d := 0; d < dates; d++ {
			c := p.At(d, s)
			open = open.observe(c.Open)
			close = close.observe(c.Close)
		}
		stats.PerSymbol[s] = SymbolStats{Open: open, Close: close}
	}

	return stats
}

func (r Range) observe(v float64) Range {
	if model.IsMissing(v) {
		return r
	}
	if r.N == 0 {
		return Range{Min: v, Max: v, N: 1}
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	r.N++
	return r
}

// Normalize rescales every cell to [0,1] using per-symbol ranges and
// returns a new panel; the input is never mutated. Missing cells and
// cells under a degenerate range map to NeutralFallback. Normalize is
// deterministic and, for non-fallback cells, idempotent when re-applied
// with stats computed from its own output.
func Normalize(p *model.Panel, stats *Stats) *model.Panel {
	dates, symbols := p.Shape()
	out := model.NewPanel(p.Dates, p.Symbols)

	for s := 0; s < symbols; s++ {
		st := stats.PerSymbol[s]
		for d := 0; d < dates; d++ {
			c := p.At(d, s)
			out.Cells[d][s] = model.Cell{
				Open:  rescale(c.Open, st.Open),
				Close: rescale(c.Close, st.Close),
			}
		}
	}

	return out
}

func rescale(v float64, r Range) float64 {
	if model.IsMissing(v) || r.Degenerate() {
		return NeutralFallback
	}
	return (v - r.Min) / (r.Max - r.Min)
}
