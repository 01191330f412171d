// Package report turns raw prediction tensors into per-symbol accuracy
// summaries and correctness timelines, the data behind accuracy charts.
// Rendering is left to the consumer.
package report

import (
	"fmt"

	"github.com/tunogya/ossa/pkg/classify"
	"github.com/tunogya/ossa/pkg/model"
)

// SymbolAccuracy summarizes prediction quality for one symbol.
type SymbolAccuracy struct {
	Symbol    string    `json:"symbol"`
	PerOffset []float64 `json:"per_offset"` // accuracy per forward day, index 0 = t+1
	Overall   float64   `json:"overall"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
}

// Report holds evaluation results over an ordered sample run.
type Report struct {
	Symbols []SymbolAccuracy `json:"symbols"`
	Overall float64          `json:"overall"`
	// Anchors are the sample anchor dates, in run order.
	Anchors []string `json:"anchors"`
	// Timelines maps symbol → per-sample, per-offset correctness, in
	// the same order as Anchors. The ordered hit/miss stream drives
	// correctness timeline charts.
	Timelines map[string][][]bool `json:"timelines"`
}

// Compute scores predictions against labels under the configured label
// layout. Predictions and labels must share shape (n, symbols×horizon)
// and order; anchors, when provided, must have length n.
func Compute(preds, labels [][]float64, anchors, symbols []string, horizon int, layout model.LabelLayout) (*Report, error) {
	if len(preds) != len(labels) {
		return nil, fmt.Errorf("prediction count %d does not match label count %d", len(preds), len(labels))
	}
	if anchors != nil && len(anchors) != len(preds) {
		return nil, fmt.Errorf("anchor count %d does not match prediction count %d", len(anchors), len(preds))
	}
	want := len(symbols) * horizon

	r := &Report{
		Symbols:   make([]SymbolAccuracy, len(symbols)),
		Anchors:   anchors,
		Timelines: make(map[string][][]bool, len(symbols)),
	}
	for s, sym := range symbols {
		r.Symbols[s] = SymbolAccuracy{
			Symbol:    sym,
			PerOffset: make([]float64, horizon),
		}
		r.Timelines[sym] = make([][]bool, len(preds))
	}

	offsetCorrect := make([][]int, len(symbols))
	for s := range offsetCorrect {
		offsetCorrect[s] = make([]int, horizon)
	}

	var correctAll, totalAll int
	for i := range preds {
		if len(preds[i]) != want || len(labels[i]) != want {
			return nil, fmt.Errorf("sample %d: vector length %d, want %d", i, len(preds[i]), want)
		}
		for s, sym := range symbols {
			hits := make([]bool, horizon)
			for t := 1; t <= horizon; t++ {
				idx := layout.Index(s, t, len(symbols), horizon)
				predUp := preds[i][idx] > classify.DecisionThreshold
				labelUp := labels[i][idx] > classify.DecisionThreshold
				hit := predUp == labelUp
				hits[t-1] = hit
				if hit {
					offsetCorrect[s][t-1]++
					r.Symbols[s].Correct++
					correctAll++
				}
				r.Symbols[s].Total++
				totalAll++
			}
			r.Timelines[sym][i] = hits
		}
	}

	for s := range r.Symbols {
		for t := 0; t < horizon; t++ {
			if len(preds) > 0 {
				r.Symbols[s].PerOffset[t] = float64(offsetCorrect[s][t]) / float64(len(preds))
			}
		}
		if r.Symbols[s].Total > 0 {
			r.Symbols[s].Overall = float64(r.Symbols[s].Correct) / float64(r.Symbols[s].Total)
		}
	}
	if totalAll > 0 {
		r.Overall = float64(correctAll) / float64(totalAll)
	}

	return r, nil
}
