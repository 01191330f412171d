package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/model"
)

func TestBuildPanel_SortedDedupAxes(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-01-03", Symbol: "MSFT", Open: 1, Close: 2},
		{Date: "2024-01-01", Symbol: "AAPL", Open: 3, Close: 4},
		{Date: "2024-01-03", Symbol: "AAPL", Open: 5, Close: 6},
		{Date: "2024-01-01", Symbol: "AAPL", Open: 7, Close: 8}, // duplicate (date, symbol)
	}

	p := model.BuildPanel(bars)

	require.Equal(t, []string{"2024-01-01", "2024-01-03"}, p.Dates)
	require.Equal(t, []string{"AAPL", "MSFT"}, p.Symbols)

	dates, symbols := p.Shape()
	require.Equal(t, 2, dates)
	require.Equal(t, 2, symbols)
}

func TestBuildPanel_LastWriteWins(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-01-01", Symbol: "AAPL", Open: 1, Close: 2},
		{Date: "2024-01-01", Symbol: "AAPL", Open: 9, Close: 10},
	}

	p := model.BuildPanel(bars)

	c, ok := p.Lookup("2024-01-01", "AAPL")
	require.True(t, ok)
	require.Equal(t, 9.0, c.Open)
	require.Equal(t, 10.0, c.Close)
}

func TestBuildPanel_UnobservedCellsMissing(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-01-01", Symbol: "AAPL", Open: 1, Close: 2},
		{Date: "2024-01-02", Symbol: "MSFT", Open: 3, Close: 4},
	}

	p := model.BuildPanel(bars)

	c, ok := p.Lookup("2024-01-01", "MSFT")
	require.True(t, ok)
	require.True(t, model.IsMissing(c.Open))
	require.True(t, model.IsMissing(c.Close))

	_, ok = p.Lookup("2024-01-03", "AAPL")
	require.False(t, ok)
}

func TestPanel_RowLayout(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-01-01", Symbol: "AAPL", Open: 1, Close: 2},
		{Date: "2024-01-01", Symbol: "MSFT", Open: 3, Close: 4},
	}

	p := model.BuildPanel(bars)

	// open then close per symbol, in sorted symbol order
	require.Equal(t, []float64{1, 2, 3, 4}, p.Row(0))
}

func TestPanel_CloneIsIndependent(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-01-01", Symbol: "AAPL", Open: 1, Close: 2},
	}
	p := model.BuildPanel(bars)

	clone := p.Clone()
	clone.Cells[0][0] = model.Cell{Open: 99, Close: 99}

	c, _ := p.Lookup("2024-01-01", "AAPL")
	require.Equal(t, 1.0, c.Open)
	require.Equal(t, 2.0, c.Close)
}
