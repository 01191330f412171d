package window

import (
	"errors"
	"fmt"

	"github.com/tunogya/ossa/pkg/model"
)

// ErrInsufficientData signals that the date axis cannot support a
// single window+horizon span, or that a build produced zero samples.
// Callers must surface it distinctly from generic failures so a larger
// dataset can be requested.
var ErrInsufficientData = errors.New("insufficient data: no samples to split")

// DefaultSplitFraction is the standard train share of a chronological
// split.
const DefaultSplitFraction = 0.8

// Split partitions ordered samples at floor(p × n): the prefix trains,
// the suffix tests. No shuffling happens here or anywhere before the
// cut, since reordering across the boundary would leak future
// information into training. Concatenating train then test reproduces
// the input order exactly.
func Split(samples []model.Sample, p float64) (train, test []model.Sample, err error) {
	if len(samples) == 0 {
		return nil, nil, ErrInsufficientData
	}
	if p <= 0 || p >= 1 {
		return nil, nil, fmt.Errorf("split fraction must be in (0,1), got %g", p)
	}

	splitIndex := int(p * float64(len(samples)))
	return samples[:splitIndex], samples[splitIndex:], nil
}
