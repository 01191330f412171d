package classify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/classify"
)

// separable builds n samples of shape (1,1) where the label equals the
// single feature value. Trivially learnable by one sigmoid unit.
func separable(n int) (features [][][]float64, labels [][]float64) {
	for i := 0; i < n; i++ {
		v := float64(i % 2)
		features = append(features, [][]float64{{v}})
		labels = append(labels, []float64{v})
	}
	return features, labels
}

func TestBaseline_PredictBeforeFit(t *testing.T) {
	b := classify.NewBaseline()

	_, err := b.Predict(context.Background(), [][][]float64{{{1}}})
	require.ErrorIs(t, err, classify.ErrModelNotBuilt)

	_, err = b.Evaluate(context.Background(), [][][]float64{{{1}}}, [][]float64{{1}})
	require.ErrorIs(t, err, classify.ErrModelNotBuilt)

	_, err = b.MarshalArtifact()
	require.ErrorIs(t, err, classify.ErrModelNotBuilt)
}

func TestBaseline_FitValidatesShapes(t *testing.T) {
	b := classify.NewBaseline()
	ctx := context.Background()
	cfg := classify.DefaultFitConfig()

	// empty tensor
	err := b.Fit(ctx, nil, nil, cfg)
	require.Error(t, err)

	// mismatched leading dimensions
	err = b.Fit(ctx, [][][]float64{{{1}}}, [][]float64{{1}, {0}}, cfg)
	require.Error(t, err)

	// ragged sequence lengths
	err = b.Fit(ctx,
		[][][]float64{{{1}, {2}}, {{1}}},
		[][]float64{{1}, {0}},
		cfg)
	require.Error(t, err)

	// ragged label widths
	err = b.Fit(ctx,
		[][][]float64{{{1}}, {{2}}},
		[][]float64{{1}, {0, 1}},
		cfg)
	require.Error(t, err)
}

func TestBaseline_ProgressOrdering(t *testing.T) {
	features, labels := separable(8)

	var epochs []int
	cfg := classify.FitConfig{
		Epochs:       5,
		LearningRate: 0.1,
		Seed:         1,
		OnEpoch: func(p classify.Progress) {
			epochs = append(epochs, p.Epoch)
			require.Equal(t, 5, p.Epochs)
			require.False(t, p.Loss < 0)
		},
	}

	b := classify.NewBaseline()
	require.NoError(t, b.Fit(context.Background(), features, labels, cfg))
	require.Equal(t, []int{1, 2, 3, 4, 5}, epochs)
}

func TestBaseline_CancellationBetweenEpochs(t *testing.T) {
	features, labels := separable(8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := classify.NewBaseline()
	err := b.Fit(ctx, features, labels, classify.FitConfig{Epochs: 10, LearningRate: 0.1, Seed: 1})
	require.ErrorIs(t, err, context.Canceled)

	// a canceled run leaves the model unbuilt
	_, err = b.Predict(context.Background(), features)
	require.ErrorIs(t, err, classify.ErrModelNotBuilt)
}

func TestBaseline_LearnsSeparableData(t *testing.T) {
	features, labels := separable(20)

	b := classify.NewBaseline()
	cfg := classify.FitConfig{Epochs: 200, LearningRate: 0.5, Shuffle: true, Seed: 1}
	require.NoError(t, b.Fit(context.Background(), features, labels, cfg))

	m, err := b.Evaluate(context.Background(), features, labels)
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.Accuracy, 0.95)

	preds, err := b.Predict(context.Background(), features)
	require.NoError(t, err)
	for i := range preds {
		for _, p := range preds[i] {
			require.GreaterOrEqual(t, p, 0.0)
			require.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestBaseline_DeterministicWithSeed(t *testing.T) {
	features, labels := separable(10)
	cfg := classify.FitConfig{Epochs: 20, LearningRate: 0.2, Shuffle: true, Seed: 7}

	a := classify.NewBaseline()
	require.NoError(t, a.Fit(context.Background(), features, labels, cfg))
	b := classify.NewBaseline()
	require.NoError(t, b.Fit(context.Background(), features, labels, cfg))

	pa, err := a.Predict(context.Background(), features)
	require.NoError(t, err)
	pb, err := b.Predict(context.Background(), features)
	require.NoError(t, err)
	require.Equal(t, pa, pb)
}

func TestBaseline_ArtifactRoundTrip(t *testing.T) {
	features, labels := separable(10)

	b := classify.NewBaseline()
	cfg := classify.FitConfig{Epochs: 50, LearningRate: 0.2, Seed: 3}
	require.NoError(t, b.Fit(context.Background(), features, labels, cfg))

	artifact, err := b.MarshalArtifact()
	require.NoError(t, err)

	loaded, err := classify.LoadBaseline(artifact)
	require.NoError(t, err)

	want, err := b.Predict(context.Background(), features)
	require.NoError(t, err)
	got, err := loaded.Predict(context.Background(), features)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadBaseline_RejectsCorruptArtifact(t *testing.T) {
	_, err := classify.LoadBaseline([]byte("not json"))
	require.Error(t, err)

	_, err = classify.LoadBaseline([]byte(`{"seq_len":0,"feature_dim":1,"label_dim":1}`))
	require.Error(t, err)
}
