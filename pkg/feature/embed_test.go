package feature_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/feature"
)

func TestEmbed_PadsShortInput(t *testing.T) {
	e := feature.NewEmbedder(6)

	vec := e.Embed([][]float64{{0.1, 0.2}, {0.3, 0.4}})
	require.Len(t, vec, 6)
	require.Equal(t, float32(0.1), vec[0])
	require.Equal(t, float32(0.4), vec[3])
	require.Equal(t, float32(feature.NeutralFallback), vec[4])
	require.Equal(t, float32(feature.NeutralFallback), vec[5])
}

func TestEmbed_DownsamplesLongInput(t *testing.T) {
	e := feature.NewEmbedder(2)

	// flat sequence 1,2,3,4 halved by averaging adjacent pairs
	vec := e.Embed([][]float64{{1, 2}, {3, 4}})
	require.Len(t, vec, 2)
	require.Equal(t, float32(1.5), vec[0])
	require.Equal(t, float32(3.5), vec[1])
}

func TestNewEmbedder_DefaultsDim(t *testing.T) {
	require.Equal(t, feature.DefaultEmbedDim, feature.NewEmbedder(0).Dim)
	require.Equal(t, feature.DefaultEmbedDim, feature.NewEmbedder(-5).Dim)
	require.Equal(t, 32, feature.NewEmbedder(32).Dim)
}
