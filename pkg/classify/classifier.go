// Package classify defines the trainable sequence classifier boundary.
// The pipeline treats the model as an opaque capability: anything that
// can fit windowed feature tensors against flat binary label vectors,
// predict per-position probabilities, and score itself satisfies the
// contract. The in-process baseline exists so the pipeline runs end to
// end without an external serving dependency.
package classify

import (
	"context"
	"errors"
	"fmt"
)

// DecisionThreshold converts a probability into a binary up/down call.
// Every consumer (accuracy computation, reporting) thresholds here and
// nowhere else.
const DecisionThreshold = 0.5

// ErrModelNotBuilt signals Predict or Evaluate on a classifier that
// has never been fitted or loaded. Programming-contract violation,
// fatal.
var ErrModelNotBuilt = errors.New("classifier: model not built")

// Progress reports the state after one training epoch. Callbacks fire
// synchronously inside Fit, in strictly increasing epoch order.
type Progress struct {
	Epoch    int     // 1-based
	Epochs   int     // total configured epochs
	Loss     float64 // mean training loss for the epoch
	Accuracy float64 // training accuracy at the decision threshold
}

// ProgressFunc receives per-epoch progress during a Fit call.
type ProgressFunc func(Progress)

// FitConfig holds training run parameters.
type FitConfig struct {
	Epochs       int
	LearningRate float64
	// Shuffle reorders training samples each epoch. The shuffle stays
	// inside the training set; the chronological split boundary is
	// never crossed.
	Shuffle bool
	// Seed fixes the weight init and shuffle order for reproducible
	// runs. Zero means a time-derived seed.
	Seed    int64
	OnEpoch ProgressFunc
}

// DefaultFitConfig returns sensible training defaults.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Epochs:       50,
		LearningRate: 0.05,
		Shuffle:      true,
	}
}

// Metrics holds evaluation results over one tensor pair.
type Metrics struct {
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

// Classifier is the trainable sequence classifier capability.
// Features are shaped (n, seqLen, featureDim) and labels
// (n, labelDim) with matching leading dimension; Predict returns one
// probability in [0,1] per label position.
type Classifier interface {
	Fit(ctx context.Context, features [][][]float64, labels [][]float64, cfg FitConfig) error
	Predict(ctx context.Context, features [][][]float64) ([][]float64, error)
	Evaluate(ctx context.Context, features [][][]float64, labels [][]float64) (Metrics, error)
}

// validateTensors checks the tensor contract shared by Fit and
// Evaluate: non-empty, rectangular, matching leading dimensions.
func validateTensors(features [][][]float64, labels [][]float64) (seqLen, featureDim, labelDim int, err error) {
	if len(features) == 0 {
		return 0, 0, 0, errors.New("empty feature tensor")
	}
	if len(features) != len(labels) {
		return 0, 0, 0, fmt.Errorf("feature count %d does not match label count %d", len(features), len(labels))
	}

	seqLen = len(features[0])
	if seqLen == 0 {
		return 0, 0, 0, errors.New("zero-length feature sequence")
	}
	featureDim = len(features[0][0])
	labelDim = len(labels[0])

	for i, seq := range features {
		if len(seq) != seqLen {
			return 0, 0, 0, fmt.Errorf("sample %d: sequence length %d, want %d", i, len(seq), seqLen)
		}
		for _, row := range seq {
			if len(row) != featureDim {
				return 0, 0, 0, fmt.Errorf("sample %d: feature dim %d, want %d", i, len(row), featureDim)
			}
		}
		if len(labels[i]) != labelDim {
			return 0, 0, 0, fmt.Errorf("sample %d: label dim %d, want %d", i, len(labels[i]), labelDim)
		}
	}

	return seqLen, featureDim, labelDim, nil
}
