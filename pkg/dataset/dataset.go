// Package dataset threads the pure pipeline stages (pivot, normalize,
// window, split) into a single build producing an immutable training
// dataset. Stage outputs are not retained past the point they are
// needed, so peak memory stays bounded by the largest single stage.
package dataset

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tunogya/ossa/pkg/data"
	"github.com/tunogya/ossa/pkg/feature"
	"github.com/tunogya/ossa/pkg/model"
	"github.com/tunogya/ossa/pkg/window"
)

// Config holds every knob of a dataset build.
type Config struct {
	WindowLen     int     `yaml:"window_len"`
	Horizon       int     `yaml:"horizon"`
	SplitFraction float64 `yaml:"split_fraction"`
	LabelLayout   string  `yaml:"label_layout"` // "symbol-major" (default) or "day-major"
}

// DefaultConfig returns the standard build configuration.
func DefaultConfig() Config {
	return Config{
		WindowLen:     12,
		Horizon:       3,
		SplitFraction: window.DefaultSplitFraction,
		LabelLayout:   model.LayoutSymbolMajor.String(),
	}
}

// Dataset is the immutable result of one build. Train and test share
// the original anchor order: concatenating them reproduces the full
// ordered sample run.
type Dataset struct {
	Symbols []string
	Layout  model.LabelLayout

	WindowLen int
	Horizon   int

	Train []model.Sample
	Test  []model.Sample

	// DegenerateRanges counts (symbol, feature) pairs that normalized
	// to the neutral fallback. Data-quality signal, not an error.
	DegenerateRanges int
}

// SampleCount returns the total number of samples across both splits.
func (d *Dataset) SampleCount() int {
	return len(d.Train) + len(d.Test)
}

// Anchors returns anchor dates for the given samples, in order.
func Anchors(samples []model.Sample) []string {
	out := make([]string, len(samples))
	for i := range samples {
		out[i] = samples[i].Anchor
	}
	return out
}

// Build runs the full pipeline over parsed bars. Pivot and
// normalization failures abort the build; zero resulting samples
// surface window.ErrInsufficientData so callers can distinguish "need
// more data" from a generic failure. logger may be nil.
func Build(bars []model.Bar, cfg Config, logger *zap.Logger) (*Dataset, error) {
	layout, err := model.ParseLabelLayout(cfg.LabelLayout)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("build: %w", window.ErrInsufficientData)
	}

	raw := model.BuildPanel(bars)
	stats := feature.ComputeStats(raw)
	stats.LogDegenerate(logger, raw.Symbols)
	degenerate := stats.DegenerateCount()

	normalized := feature.Normalize(raw, stats)

	samples, err := window.BuildSamples(normalized, raw, window.Config{
		WindowLen: cfg.WindowLen,
		Horizon:   cfg.Horizon,
		Layout:    layout,
	})
	if err != nil {
		return nil, fmt.Errorf("build samples: %w", err)
	}

	symbols := raw.Symbols
	// The panels and stats are no longer referenced past this point;
	// samples carry everything downstream stages need.
	raw, normalized, stats = nil, nil, nil

	train, test, err := window.Split(samples, cfg.SplitFraction)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	if logger != nil {
		logger.Info("dataset built",
			zap.Int("symbols", len(symbols)),
			zap.Int("samples", len(samples)),
			zap.Int("train", len(train)),
			zap.Int("test", len(test)),
			zap.Int("degenerate_ranges", degenerate))
	}

	return &Dataset{
		Symbols:          symbols,
		Layout:           layout,
		WindowLen:        cfg.WindowLen,
		Horizon:          cfg.Horizon,
		Train:            train,
		Test:             test,
		DegenerateRanges: degenerate,
	}, nil
}

// BuildFromCSV parses CSV text and builds a dataset in one step.
// Schema failures surface as *data.SchemaError before any pivoting
// happens.
func BuildFromCSV(r io.Reader, cfg Config, logger *zap.Logger) (*Dataset, error) {
	bars, err := data.ParseBars(r)
	if err != nil {
		return nil, err
	}
	return Build(bars, cfg, logger)
}
