package feature

// Embedder flattens a normalized window sequence into a fixed-length
// float32 vector for similarity search. Rows are concatenated in date
// order and downsampled by simple averaging when the flattened length
// exceeds the target dimension; shorter inputs are padded with the
// neutral fallback so every embedding has exactly Dim entries.
type Embedder struct {
	Dim int
}

// DefaultEmbedDim is the standard embedding dimension for window
// similarity search.
const DefaultEmbedDim = 96

// NewEmbedder creates an embedder targeting the given dimension.
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultEmbedDim
	}
	return &Embedder{Dim: dim}
}

// Embed converts a windowLen × featureDim sequence into a Dim-length
// vector.
func (e *Embedder) Embed(seq [][]float64) []float32 {
	flat := make([]float64, 0, len(seq)*e.Dim)
	for _, row := range seq {
		flat = append(flat, row...)
	}

	flat = downsample(flat, e.Dim)

	vector := make([]float32, e.Dim)
	for i := range vector {
		if i < len(flat) {
			vector[i] = float32(flat[i])
		} else {
			vector[i] = float32(NeutralFallback)
		}
	}
	return vector
}

// downsample reduces the number of samples using simple averaging.
func downsample(values []float64, targetLen int) []float64 {
	if len(values) <= targetLen {
		return values
	}

	result := make([]float64, targetLen)
	ratio := float64(len(values)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(values) {
			end = len(values)
		}

		sum := 0.0
		count := 0
		for j := start; j < end; j++ {
			sum += values[j]
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}
