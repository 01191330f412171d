package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Baseline is an in-process multi-output logistic classifier over the
// flattened window. One independent sigmoid unit per label position,
// trained by SGD on cross-entropy. It fills the classifier facade for
// local runs; swapping in an external model only means providing
// another Classifier.
type Baseline struct {
	seqLen     int
	featureDim int
	labelDim   int

	weights [][]float64 // [labelDim][seqLen*featureDim]
	biases  []float64   // [labelDim]
	built   bool
}

// NewBaseline creates an untrained baseline classifier. Dimensions are
// inferred from the first Fit call.
func NewBaseline() *Baseline {
	return &Baseline{}
}

// Fit trains the classifier. Weights are reinitialized on every call,
// so refitting with different parameters starts clean. Cancellation is
// checked between epochs; a canceled run leaves the model unbuilt.
func (b *Baseline) Fit(ctx context.Context, features [][][]float64, labels [][]float64, cfg FitConfig) error {
	seqLen, featureDim, labelDim, err := validateTensors(features, labels)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	if cfg.Epochs <= 0 {
		return fmt.Errorf("fit: epochs must be positive, got %d", cfg.Epochs)
	}
	if cfg.LearningRate <= 0 {
		return fmt.Errorf("fit: learning rate must be positive, got %g", cfg.LearningRate)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	b.seqLen = seqLen
	b.featureDim = featureDim
	b.labelDim = labelDim
	b.built = false

	inputDim := seqLen * featureDim
	b.weights = make([][]float64, labelDim)
	for o := range b.weights {
		b.weights[o] = make([]float64, inputDim)
		for i := range b.weights[o] {
			b.weights[o][i] = (rng.Float64() - 0.5) * 0.1
		}
	}
	b.biases = make([]float64, labelDim)
	for o := range b.biases {
		b.biases[o] = (rng.Float64() - 0.5) * 0.1
	}

	inputs := make([][]float64, len(features))
	for i, seq := range features {
		inputs[i] = flatten(seq)
	}

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fit canceled at epoch %d: %w", epoch, err)
		}

		if cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		var lossSum float64
		var correct, total int
		for _, idx := range order {
			x := inputs[idx]
			y := labels[idx]
			for o := 0; o < labelDim; o++ {
				p := sigmoid(dot(b.weights[o], x) + b.biases[o])
				lossSum += bce(y[o], p)
				if (p > DecisionThreshold) == (y[o] > DecisionThreshold) {
					correct++
				}
				total++

				grad := p - y[o]
				for i := range x {
					b.weights[o][i] -= cfg.LearningRate * grad * x[i]
				}
				b.biases[o] -= cfg.LearningRate * grad
			}
		}

		if cfg.OnEpoch != nil {
			cfg.OnEpoch(Progress{
				Epoch:    epoch,
				Epochs:   cfg.Epochs,
				Loss:     lossSum / float64(total),
				Accuracy: float64(correct) / float64(total),
			})
		}
	}

	b.built = true
	return nil
}

// Predict returns one probability per label position for each sample.
func (b *Baseline) Predict(ctx context.Context, features [][][]float64) ([][]float64, error) {
	if !b.built {
		return nil, ErrModelNotBuilt
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([][]float64, len(features))
	for i, seq := range features {
		if len(seq) != b.seqLen {
			return nil, fmt.Errorf("predict: sample %d sequence length %d, want %d", i, len(seq), b.seqLen)
		}
		x := flatten(seq)
		if len(x) != b.seqLen*b.featureDim {
			return nil, fmt.Errorf("predict: sample %d feature dim mismatch", i)
		}
		probs := make([]float64, b.labelDim)
		for o := 0; o < b.labelDim; o++ {
			probs[o] = sigmoid(dot(b.weights[o], x) + b.biases[o])
		}
		out[i] = probs
	}
	return out, nil
}

// Evaluate scores predictions against labels with mean cross-entropy
// loss and accuracy at the decision threshold.
func (b *Baseline) Evaluate(ctx context.Context, features [][][]float64, labels [][]float64) (Metrics, error) {
	if !b.built {
		return Metrics{}, ErrModelNotBuilt
	}
	if _, _, _, err := validateTensors(features, labels); err != nil {
		return Metrics{}, fmt.Errorf("evaluate: %w", err)
	}

	preds, err := b.Predict(ctx, features)
	if err != nil {
		return Metrics{}, err
	}

	var lossSum float64
	var correct, total int
	for i := range preds {
		for o := range preds[i] {
			lossSum += bce(labels[i][o], preds[i][o])
			if (preds[i][o] > DecisionThreshold) == (labels[i][o] > DecisionThreshold) {
				correct++
			}
			total++
		}
	}

	return Metrics{
		Loss:     lossSum / float64(total),
		Accuracy: float64(correct) / float64(total),
	}, nil
}

// artifact is the persisted form of a trained baseline.
type artifact struct {
	SeqLen     int         `json:"seq_len"`
	FeatureDim int         `json:"feature_dim"`
	LabelDim   int         `json:"label_dim"`
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
}

// MarshalArtifact serializes a trained model for the model store.
func (b *Baseline) MarshalArtifact() ([]byte, error) {
	if !b.built {
		return nil, ErrModelNotBuilt
	}
	return json.Marshal(artifact{
		SeqLen:     b.seqLen,
		FeatureDim: b.featureDim,
		LabelDim:   b.labelDim,
		Weights:    b.weights,
		Biases:     b.biases,
	})
}

// LoadBaseline reconstructs a trained baseline from a stored artifact.
func LoadBaseline(data []byte) (*Baseline, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if a.SeqLen <= 0 || a.FeatureDim <= 0 || a.LabelDim <= 0 || len(a.Weights) != a.LabelDim {
		return nil, fmt.Errorf("model artifact has inconsistent dimensions")
	}
	return &Baseline{
		seqLen:     a.SeqLen,
		featureDim: a.FeatureDim,
		labelDim:   a.LabelDim,
		weights:    a.Weights,
		biases:     a.Biases,
		built:      true,
	}, nil
}

func flatten(seq [][]float64) []float64 {
	out := make([]float64, 0, len(seq)*len(seq[0]))
	for _, row := range seq {
		out = append(out, row...)
	}
	return out
}

func dot(w, x []float64) float64 {
	var sum float64
	for i := range x {
		sum += w[i] * x[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// bce computes binary cross-entropy with clamping to keep the loss
// finite at saturated probabilities.
func bce(y, p float64) float64 {
	const eps = 1e-12
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}
