package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/model"
)

func TestLabelLayout_Index(t *testing.T) {
	const symbols, horizon = 3, 2

	// symbol-major groups a symbol's offsets together
	require.Equal(t, 0, model.LayoutSymbolMajor.Index(0, 1, symbols, horizon))
	require.Equal(t, 1, model.LayoutSymbolMajor.Index(0, 2, symbols, horizon))
	require.Equal(t, 2, model.LayoutSymbolMajor.Index(1, 1, symbols, horizon))
	require.Equal(t, 5, model.LayoutSymbolMajor.Index(2, 2, symbols, horizon))

	// day-major groups an offset's symbols together
	require.Equal(t, 0, model.LayoutDayMajor.Index(0, 1, symbols, horizon))
	require.Equal(t, 3, model.LayoutDayMajor.Index(0, 2, symbols, horizon))
	require.Equal(t, 1, model.LayoutDayMajor.Index(1, 1, symbols, horizon))
	require.Equal(t, 5, model.LayoutDayMajor.Index(2, 2, symbols, horizon))
}

func TestLabelLayout_IndexCoversVectorOnce(t *testing.T) {
	const symbols, horizon = 4, 3

	for _, layout := range []model.LabelLayout{model.LayoutSymbolMajor, model.LayoutDayMajor} {
		seen := make(map[int]bool)
		for s := 0; s < symbols; s++ {
			for o := 1; o <= horizon; o++ {
				idx := layout.Index(s, o, symbols, horizon)
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, symbols*horizon)
				require.False(t, seen[idx], "layout %s: index %d hit twice", layout, idx)
				seen[idx] = true
			}
		}
	}
}

func TestParseLabelLayout(t *testing.T) {
	l, err := model.ParseLabelLayout("")
	require.NoError(t, err)
	require.Equal(t, model.LayoutSymbolMajor, l)

	l, err = model.ParseLabelLayout("symbol-major")
	require.NoError(t, err)
	require.Equal(t, model.LayoutSymbolMajor, l)

	l, err = model.ParseLabelLayout("day-major")
	require.NoError(t, err)
	require.Equal(t, model.LayoutDayMajor, l)

	_, err = model.ParseLabelLayout("row-major")
	require.Error(t, err)
}

func TestGenerateSampleID_Deterministic(t *testing.T) {
	a := model.GenerateSampleID("2024-01-15", 12, 3, 2, model.LayoutSymbolMajor)
	b := model.GenerateSampleID("2024-01-15", 12, 3, 2, model.LayoutSymbolMajor)
	require.Equal(t, a, b)
	require.Len(t, a, 32)

	c := model.GenerateSampleID("2024-01-16", 12, 3, 2, model.LayoutSymbolMajor)
	require.NotEqual(t, a, c)

	d := model.GenerateSampleID("2024-01-15", 12, 3, 2, model.LayoutDayMajor)
	require.NotEqual(t, a, d)
}
