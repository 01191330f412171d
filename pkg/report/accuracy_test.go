package report_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/model"
	"github.com/tunogya/ossa/pkg/report"
)

func TestCompute_SymbolMajor(t *testing.T) {
	symbols := []string{"A", "B"}
	// symbol-major, horizon 2: [A@t1, A@t2, B@t1, B@t2]
	preds := [][]float64{{0.9, 0.1, 0.2, 0.8}}
	labels := [][]float64{{1, 0, 1, 1}}
	anchors := []string{"2024-01-13"}

	r, err := report.Compute(preds, labels, anchors, symbols, 2, model.LayoutSymbolMajor)
	require.NoError(t, err)

	// A: both calls correct. B: t1 wrong, t2 correct.
	require.Equal(t, 1.0, r.Symbols[0].Overall)
	require.Equal(t, []float64{1, 1}, r.Symbols[0].PerOffset)
	require.Equal(t, 0.5, r.Symbols[1].Overall)
	require.Equal(t, []float64{0, 1}, r.Symbols[1].PerOffset)
	require.Equal(t, 0.75, r.Overall)

	require.Equal(t, anchors, r.Anchors)
	require.Equal(t, [][]bool{{true, true}}, r.Timelines["A"])
	require.Equal(t, [][]bool{{false, true}}, r.Timelines["B"])
}

func TestCompute_DayMajor(t *testing.T) {
	symbols := []string{"A", "B"}
	// day-major, horizon 2: [A@t1, B@t1, A@t2, B@t2]
	preds := [][]float64{{0.9, 0.2, 0.1, 0.8}}
	labels := [][]float64{{1, 1, 0, 1}}

	r, err := report.Compute(preds, labels, nil, symbols, 2, model.LayoutDayMajor)
	require.NoError(t, err)

	// same per-symbol outcomes as the symbol-major case
	require.Equal(t, 1.0, r.Symbols[0].Overall)
	require.Equal(t, 0.5, r.Symbols[1].Overall)
	require.Equal(t, 0.75, r.Overall)
}

func TestCompute_MultipleSamples(t *testing.T) {
	symbols := []string{"A"}
	preds := [][]float64{{0.9}, {0.1}, {0.9}}
	labels := [][]float64{{1}, {1}, {0}}

	r, err := report.Compute(preds, labels, nil, symbols, 1, model.LayoutSymbolMajor)
	require.NoError(t, err)

	require.Equal(t, 1, r.Symbols[0].Correct)
	require.Equal(t, 3, r.Symbols[0].Total)
	require.InDelta(t, 1.0/3.0, r.Overall, 1e-12)
	require.Equal(t, [][]bool{{true}, {false}, {false}}, r.Timelines["A"])
}

func TestCompute_ShapeErrors(t *testing.T) {
	symbols := []string{"A"}

	_, err := report.Compute([][]float64{{0.9}}, nil, nil, symbols, 1, model.LayoutSymbolMajor)
	require.Error(t, err)

	_, err = report.Compute([][]float64{{0.9}}, [][]float64{{1}}, []string{"a", "b"}, symbols, 1, model.LayoutSymbolMajor)
	require.Error(t, err)

	// vector length disagrees with symbols×horizon
	_, err = report.Compute([][]float64{{0.9, 0.1}}, [][]float64{{1, 0}}, nil, symbols, 1, model.LayoutSymbolMajor)
	require.Error(t, err)
}
