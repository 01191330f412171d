package data_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/data"
	"github.com/tunogya/ossa/pkg/model"
)

func TestParseBars_SchemaError(t *testing.T) {
	input := "Date,Symbol,Open\n2024-01-01,AAPL,100\n"

	_, err := data.ParseBars(strings.NewReader(input))

	var schemaErr *data.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, []string{"Close"}, schemaErr.Missing)
}

func TestParseBars_ColumnOrderAndExtras(t *testing.T) {
	input := "Symbol,Close,Volume,Date,Open\nAAPL,105,12345,2024-01-01,100\n"

	bars, err := data.ParseBars(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.Equal(t, model.Bar{Date: "2024-01-01", Symbol: "AAPL", Open: 100, Close: 105}, bars[0])
}

func TestParseBars_SkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Symbol,Open,Close",
		"2024-01-01,AAPL,100,105",
		",AAPL,100,105",      // no date
		"2024-01-02,,100,105", // no symbol
		"2024-01-03,AAPL,100,105",
	}, "\n")

	bars, err := data.ParseBars(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, "2024-01-01", bars[0].Date)
	require.Equal(t, "2024-01-03", bars[1].Date)
}

func TestParseBars_NonNumericPriceBecomesMissing(t *testing.T) {
	input := "Date,Symbol,Open,Close\n2024-01-01,AAPL,n/a,105\n"

	bars, err := data.ParseBars(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.False(t, bars[0].HasOpen())
	require.True(t, bars[0].HasClose())
}

func TestParseBars_RaggedRowTolerated(t *testing.T) {
	input := "Date,Symbol,Open,Close\n2024-01-01,AAPL,100\n"

	bars, err := data.ParseBars(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.False(t, bars[0].HasClose())
}

func TestMemoryProvider_FetchBars(t *testing.T) {
	ctx := context.Background()
	p := data.NewMemoryProvider([]model.Bar{
		{Date: "2024-01-03", Symbol: "AAPL", Open: 1, Close: 2},
		{Date: "2024-01-01", Symbol: "AAPL", Open: 3, Close: 4},
		{Date: "2024-01-02", Symbol: "MSFT", Open: 5, Close: 6},
	})

	bars, err := p.FetchBars(ctx, "AAPL", "", "")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, "2024-01-01", bars[0].Date)
	require.Equal(t, "2024-01-03", bars[1].Date)

	bars, err = p.FetchBars(ctx, "", "2024-01-02", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, "MSFT", bars[0].Symbol)
	require.Equal(t, "AAPL", bars[1].Symbol)
}

func TestMemoryProvider_FetchAllOrdered(t *testing.T) {
	ctx := context.Background()
	p := data.NewMemoryProvider([]model.Bar{
		{Date: "2024-01-02", Symbol: "MSFT"},
		{Date: "2024-01-01", Symbol: "MSFT"},
		{Date: "2024-01-01", Symbol: "AAPL"},
	})

	bars, err := p.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	require.Equal(t, "AAPL", bars[0].Symbol)
	require.Equal(t, "MSFT", bars[1].Symbol)
	require.Equal(t, "2024-01-02", bars[2].Date)
}

func TestParseBars_EmptyInput(t *testing.T) {
	_, err := data.ParseBars(strings.NewReader(""))
	require.Error(t, err)
	var schemaErr *data.SchemaError
	require.False(t, errors.As(err, &schemaErr))
}
