package model

import "sort"

// Cell holds the open and close values for one (date, symbol) position.
// Either value may be the missing sentinel.
type Cell struct {
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
}

// Panel is a dense date × symbol matrix of OHLC cells. Both axes are
// sorted and fixed at construction; every downstream consumer relies on
// this ordering for feature and label layout.
type Panel struct {
	Dates   []string
	Symbols []string
	Cells   [][]Cell // [dateIndex][symbolIndex]

	dateIndex   map[string]int
	symbolIndex map[string]int
}

// BuildPanel pivots a flat bar sequence into a dense panel. Unobserved
// (date, symbol) cells stay at the missing sentinel. Duplicate rows for
// the same (date, symbol) overwrite: last write wins, mirroring the
// tolerance for dirty source data elsewhere in the pipeline.
// Runs in O(len(bars)) after axis sorting, using index maps rather than
// rescans.
func BuildPanel(bars []Bar) *Panel {
	dateSet := make(map[string]struct{})
	symbolSet := make(map[string]struct{})
	for i := range bars {
		dateSet[bars[i].Date] = struct{}{}
		symbolSet[bars[i].Symbol] = struct{}{}
	}

	p := &Panel{
		Dates:       sortedKeys(dateSet),
		Symbols:     sortedKeys(symbolSet),
		dateIndex:   make(map[string]int, len(dateSet)),
		symbolIndex: make(map[string]int, len(symbolSet)),
	}
	for i, d := range p.Dates {
		p.dateIndex[d] = i
	}
	for i, s := range p.Symbols {
		p.symbolIndex[s] = i
	}

	missing := Cell{Open: Missing(), Close: Missing()}
	p.Cells = make([][]Cell, len(p.Dates))
	for i := range p.Cells {
		row := make([]Cell, len(p.Symbols))
		for j := range row {
			row[j] = missing
		}
		p.Cells[i] = row
	}

	for i := range bars {
		d := p.dateIndex[bars[i].Date]
		s := p.symbolIndex[bars[i].Symbol]
		p.Cells[d][s] = Cell{Open: bars[i].Open, Close: bars[i].Close}
	}

	return p
}

// NewPanel creates an empty panel over fixed axes, every cell at the
// missing sentinel. Axes must already be sorted.
func NewPanel(dates, symbols []string) *Panel {
	p := &Panel{
		Dates:       dates,
		Symbols:     symbols,
		dateIndex:   make(map[string]int, len(dates)),
		symbolIndex: make(map[string]int, len(symbols)),
	}
	for i, d := range dates {
		p.dateIndex[d] = i
	}
	for i, s := range symbols {
		p.symbolIndex[s] = i
	}
	missing := Cell{Open: Missing(), Close: Missing()}
	p.Cells = make([][]Cell, len(dates))
	for i := range p.Cells {
		row := make([]Cell, len(symbols))
		for j := range row {
			row[j] = missing
		}
		p.Cells[i] = row
	}
	return p
}

// Shape returns (dateCount, symbolCount).
func (p *Panel) Shape() (int, int) {
	return len(p.Dates), len(p.Symbols)
}

// At returns the cell at the given date and symbol indices.
func (p *Panel) At(dateIdx, symbolIdx int) Cell {
	return p.Cells[dateIdx][symbolIdx]
}

// Lookup returns the cell for a (date, symbol) pair, if both exist on
// the panel's axes.
func (p *Panel) Lookup(date, symbol string) (Cell, bool) {
	d, ok := p.dateIndex[date]
	if !ok {
		return Cell{}, false
	}
	s, ok := p.symbolIndex[symbol]
	if !ok {
		return Cell{}, false
	}
	return p.Cells[d][s], true
}

// DateIndex returns the axis position of a date.
func (p *Panel) DateIndex(date string) (int, bool) {
	i, ok := p.dateIndex[date]
	return i, ok
}

// SymbolIndex returns the axis position of a symbol.
func (p *Panel) SymbolIndex(symbol string) (int, bool) {
	i, ok := p.symbolIndex[symbol]
	return i, ok
}

// Row flattens one date's cells into a feature vector laid out as
// [open_1, close_1, open_2, close_2, ...] in symbol-axis order.
func (p *Panel) Row(dateIdx int) []float64 {
	row := make([]float64, 0, 2*len(p.Symbols))
	for s := range p.Symbols {
		c := p.Cells[dateIdx][s]
		row = append(row, c.Open, c.Close)
	}
	return row
}

// Clone returns a deep copy sharing no cell storage with the original.
func (p *Panel) Clone() *Panel {
	out := NewPanel(p.Dates, p.Symbols)
	for i := range p.Cells {
		copy(out.Cells[i], p.Cells[i])
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
