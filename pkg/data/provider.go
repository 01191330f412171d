package data

import (
	"context"
	"sort"

	"github.com/tunogya/ossa/pkg/model"
)

// BarProvider defines the interface for fetching historical daily bars.
type BarProvider interface {
	// FetchBars retrieves bars for a symbol within an inclusive date
	// range, ordered by date (oldest first). Empty symbol matches all
	// symbols; empty bounds are open-ended.
	FetchBars(ctx context.Context, symbol, start, end string) ([]model.Bar, error)

	// FetchAll retrieves every bar, ordered by date then symbol.
	FetchAll(ctx context.Context) ([]model.Bar, error)
}

// MemoryProvider implements BarProvider with in-memory storage.
type MemoryProvider struct {
	bars []model.Bar
}

// NewMemoryProvider creates a new in-memory bar provider.
func NewMemoryProvider(bars []model.Bar) *MemoryProvider {
	return &MemoryProvider{bars: bars}
}

// AddBars adds bars to the provider.
func (p *MemoryProvider) AddBars(bars []model.Bar) {
	p.bars = append(p.bars, bars...)
}

// FetchBars retrieves bars for a symbol within an inclusive date range.
func (p *MemoryProvider) FetchBars(ctx context.Context, symbol, start, end string) ([]model.Bar, error) {
	var result []model.Bar
	for _, b := range p.bars {
		if symbol != "" && b.Symbol != symbol {
			continue
		}
		if start != "" && b.Date < start {
			continue
		}
		if end != "" && b.Date > end {
			continue
		}
		result = append(result, b)
	}
	sortBars(result)
	return result, nil
}

// FetchAll retrieves every bar ordered by date then symbol.
func (p *MemoryProvider) FetchAll(ctx context.Context) ([]model.Bar, error) {
	result := make([]model.Bar, len(p.bars))
	copy(result, p.bars)
	sortBars(result)
	return result, nil
}

func sortBars(bars []model.Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Date != bars[j].Date {
			return bars[i].Date < bars[j].Date
		}
		return bars[i].Symbol < bars[j].Symbol
	})
}
