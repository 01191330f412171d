package dataset_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tunogya/ossa/pkg/data"
	"github.com/tunogya/ossa/pkg/dataset"
	"github.com/tunogya/ossa/pkg/model"
	"github.com/tunogya/ossa/pkg/window"
)

// twoSymbolCSV renders days consecutive daily bars for symbols A and B
// as CSV text. A trends up, B trends down.
func twoSymbolCSV(days int) string {
	var b strings.Builder
	b.WriteString("Date,Symbol,Open,Close\n")
	for d := 0; d < days; d++ {
		date := fmt.Sprintf("2024-01-%02d", d+1)
		fmt.Fprintf(&b, "%s,A,%.1f,%.1f\n", date, 100+float64(d), 101+float64(d))
		fmt.Fprintf(&b, "%s,B,%.1f,%.1f\n", date, 200-float64(d), 199-float64(d))
	}
	return b.String()
}

func TestBuildFromCSV_EndToEnd(t *testing.T) {
	ds, err := dataset.BuildFromCSV(strings.NewReader(twoSymbolCSV(20)), dataset.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B"}, ds.Symbols)
	require.Equal(t, model.LayoutSymbolMajor, ds.Layout)
	require.Equal(t, 12, ds.WindowLen)
	require.Equal(t, 3, ds.Horizon)
	require.Zero(t, ds.DegenerateRanges)

	// 5 samples, split at floor(0.8×5)=4
	require.Equal(t, 5, ds.SampleCount())
	require.Len(t, ds.Train, 4)
	require.Len(t, ds.Test, 1)

	// train then test reproduces anchor order
	anchors := append(dataset.Anchors(ds.Train), dataset.Anchors(ds.Test)...)
	for i := 1; i < len(anchors); i++ {
		require.Greater(t, anchors[i], anchors[i-1])
	}
}

func TestBuildFromCSV_SchemaErrorSurfaces(t *testing.T) {
	input := "Date,Symbol,Open\n2024-01-01,A,1\n"

	_, err := dataset.BuildFromCSV(strings.NewReader(input), dataset.DefaultConfig(), zap.NewNop())

	var schemaErr *data.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, []string{"Close"}, schemaErr.Missing)
}

func TestBuild_InsufficientData(t *testing.T) {
	// enough bars to parse, not enough dates for one window+horizon
	ds, err := dataset.BuildFromCSV(strings.NewReader(twoSymbolCSV(10)), dataset.DefaultConfig(), zap.NewNop())
	require.Nil(t, ds)
	require.ErrorIs(t, err, window.ErrInsufficientData)

	_, err = dataset.Build(nil, dataset.DefaultConfig(), zap.NewNop())
	require.ErrorIs(t, err, window.ErrInsufficientData)
}

func TestBuild_InvalidLayout(t *testing.T) {
	cfg := dataset.DefaultConfig()
	cfg.LabelLayout = "column-major"

	_, err := dataset.BuildFromCSV(strings.NewReader(twoSymbolCSV(20)), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestBuild_CountsDegenerateRanges(t *testing.T) {
	// constant opens for B: one degenerate (symbol, feature) pair
	var b strings.Builder
	b.WriteString("Date,Symbol,Open,Close\n")
	for d := 0; d < 16; d++ {
		date := fmt.Sprintf("2024-01-%02d", d+1)
		fmt.Fprintf(&b, "%s,A,%.1f,%.1f\n", date, 100+float64(d), 101+float64(d))
		fmt.Fprintf(&b, "%s,B,50.0,%.1f\n", date, 199-float64(d))
	}

	cfg := dataset.DefaultConfig()
	ds, err := dataset.BuildFromCSV(strings.NewReader(b.String()), cfg, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, ds.DegenerateRanges)
}
