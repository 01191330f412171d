package nats

import (
	"encoding/json"
	"time"

	"github.com/tunogya/ossa/pkg/model"
)

// Subject constants
const (
	SubjectBarWrite         = "ossa.bars.write"
	SubjectTrainingProgress = "ossa.training.progress"
)

// BarBatchMsg represents a batch bar write request.
type BarBatchMsg struct {
	Bars []model.Bar `json:"bars"`
}

// TrainingProgressMsg is one per-epoch progress event from a training
// run. Events for a run are published in strictly increasing epoch
// order, so consumers can treat the subject as a bounded ordered
// stream.
type TrainingProgressMsg struct {
	RunID    string    `json:"run_id"`
	Epoch    int       `json:"epoch"`
	Epochs   int       `json:"epochs"`
	Loss     float64   `json:"loss"`
	Accuracy float64   `json:"accuracy"`
	At       time.Time `json:"at"`
}

// Encode serializes a message to JSON bytes.
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeBarBatch deserializes a BarBatchMsg from JSON bytes.
func DecodeBarBatch(data []byte) (*BarBatchMsg, error) {
	var msg BarBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeTrainingProgress deserializes a TrainingProgressMsg from JSON
// bytes.
func DecodeTrainingProgress(data []byte) (*TrainingProgressMsg, error) {
	var msg TrainingProgressMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
