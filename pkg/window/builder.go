package window

import (
	"fmt"

	"github.com/tunogya/ossa/pkg/model"
)

// Config holds window and label construction parameters.
type Config struct {
	WindowLen int               // dates per feature window
	Horizon   int               // forward days labeled per symbol
	Layout    model.LabelLayout // flat label vector indexing
}

// DefaultConfig returns the standard window configuration.
func DefaultConfig() Config {
	return Config{
		WindowLen: 12,
		Horizon:   3,
		Layout:    model.LayoutSymbolMajor,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.WindowLen <= 0 {
		return fmt.Errorf("window length must be positive, got %d", c.WindowLen)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	return nil
}

// BuildSamples slides a fixed-length window over the date axis and
// produces one sample per anchor that has a full window behind it and
// a full horizon strictly ahead of it, so a panel with D dates yields
// D - windowLen - horizon samples. Features come from the normalized
// panel;
// labels compare raw closes so missing observations stay detectable.
//
// For anchor index d, the feature sequence is rows [d-windowLen, d) and
// the label for (symbol s, offset t) is 1 iff
// rawClose(d-1+t, s) > rawClose(d-1, s), 0 otherwise. A missing close
// on either side also labels 0, a deliberate information-loss policy
// rather than an error.
//
// Fewer than windowLen+horizon dates yields zero samples, not an error.
// Samples are emitted in strictly increasing anchor order.
func BuildSamples(normalized, raw *model.Panel, cfg Config) ([]model.Sample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nd, ns := normalized.Shape()
	rd, rs := raw.Shape()
	if nd != rd || ns != rs {
		return nil, fmt.Errorf("normalized panel shape (%d,%d) does not match raw panel shape (%d,%d)", nd, ns, rd, rs)
	}

	dates, symbols := nd, ns
	if dates < cfg.WindowLen+cfg.Horizon {
		return nil, nil
	}

	var samples []model.Sample
	for d := cfg.WindowLen; d < dates-cfg.Horizon; d++ {
		features := make([][]float64, 0, cfg.WindowLen)
		for i := d - cfg.WindowLen; i < d; i++ {
			features = append(features, normalized.Row(i))
		}

		labels := make([]float64, symbols*cfg.Horizon)
		for s := 0; s < symbols; s++ {
			base := raw.At(d-1, s).Close
			for t := 1; t <= cfg.Horizon; t++ {
				future := raw.At(d-1+t, s).Close
				idx := cfg.Layout.Index(s, t, symbols, cfg.Horizon)
				if !model.IsMissing(base) && !model.IsMissing(future) && future > base {
					labels[idx] = 1
				}
			}
		}

		anchor := normalized.Dates[d]
		samples = append(samples, model.Sample{
			SampleID: model.GenerateSampleID(anchor, cfg.WindowLen, cfg.Horizon, symbols, cfg.Layout),
			Anchor:   anchor,
			Features: features,
			Labels:   labels,
		})
	}

	return samples, nil
}

// Tensors unpacks samples into the classifier's tensor contract:
// features shaped (n, windowLen, 2×symbolCount) and labels shaped
// (n, symbolCount×horizon), sharing the samples' order.
func Tensors(samples []model.Sample) (features [][][]float64, labels [][]float64) {
	features = make([][][]float64, len(samples))
	labels = make([][]float64, len(samples))
	for i := range samples {
		features[i] = samples[i].Features
		labels[i] = samples[i].Labels
	}
	return features, labels
}
