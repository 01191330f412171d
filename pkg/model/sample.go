package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// LabelLayout selects how the flat label vector is indexed. The two
// layouts are not interchangeable; every producer and consumer must
// read the layout from configuration instead of re-deriving the
// arithmetic.
type LabelLayout int

const (
	// LayoutSymbolMajor groups all horizon offsets of one symbol
	// together: index = symbol*horizon + (offset-1).
	LayoutSymbolMajor LabelLayout = iota
	// LayoutDayMajor groups all symbols of one offset together:
	// index = symbol + (offset-1)*symbolCount.
	LayoutDayMajor
)

// String returns the configuration name of the layout.
func (l LabelLayout) String() string {
	switch l {
	case LayoutSymbolMajor:
		return "symbol-major"
	case LayoutDayMajor:
		return "day-major"
	default:
		return fmt.Sprintf("LabelLayout(%d)", int(l))
	}
}

// ParseLabelLayout parses a configuration name into a layout.
func ParseLabelLayout(s string) (LabelLayout, error) {
	switch s {
	case "", "symbol-major":
		return LayoutSymbolMajor, nil
	case "day-major":
		return LayoutDayMajor, nil
	default:
		return 0, fmt.Errorf("unknown label layout %q", s)
	}
}

// Index maps (symbol position, forward offset) to a flat label index.
// offset is 1-based, in 1..horizon.
func (l LabelLayout) Index(symbolIdx, offset, symbolCount, horizon int) int {
	if l == LayoutDayMajor {
		return symbolIdx + (offset-1)*symbolCount
	}
	return symbolIdx*horizon + (offset - 1)
}

// Sample is one training example: a fixed-length sequence of per-date
// feature vectors and a flat binary label vector. Samples are produced
// in strictly increasing anchor order and that order is significant.
type Sample struct {
	SampleID string      `json:"sample_id"`
	Anchor   string      `json:"anchor"` // first date after the feature window
	Features [][]float64 `json:"features"`
	Labels   []float64   `json:"labels"`
}

// GenerateSampleID creates a deterministic sample ID from the
// parameters that define it. Same inputs always produce the same ID,
// so re-running a build is idempotent for downstream stores.
func GenerateSampleID(anchor string, windowLen, horizon, symbolCount int, layout LabelLayout) string {
	data := fmt.Sprintf("%s|%d|%d|%d|%s", anchor, windowLen, horizon, symbolCount, layout)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// SeqLen returns the number of dates in the feature window.
func (s *Sample) SeqLen() int {
	return len(s.Features)
}

// FeatureDim returns the width of each per-date feature vector,
// 2 × symbolCount when well formed.
func (s *Sample) FeatureDim() int {
	if len(s.Features) == 0 {
		return 0
	}
	return len(s.Features[0])
}

// LabelDim returns the length of the label vector,
// symbolCount × horizon when well formed.
func (s *Sample) LabelDim() int {
	return len(s.Labels)
}
