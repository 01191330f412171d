package model

import (
	"encoding/json"
	"math"
)

// Bar represents a single daily OHLC observation for one symbol.
// Dates are ISO "YYYY-MM-DD" strings, so lexicographic order is
// chronological order.
type Bar struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
}

// Missing returns the sentinel used for absent or unparseable values.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// HasOpen reports whether the bar carries a usable open price.
func (b *Bar) HasOpen() bool {
	return !IsMissing(b.Open)
}

// HasClose reports whether the bar carries a usable close price.
func (b *Bar) HasClose() bool {
	return !IsMissing(b.Close)
}

// IsUp reports whether the bar closed above its open.
func (b *Bar) IsUp() bool {
	return b.HasOpen() && b.HasClose() && b.Close > b.Open
}

// barJSON is the wire form of a Bar. Missing prices travel as null;
// NaN is not representable in JSON.
type barJSON struct {
	Date   string   `json:"date"`
	Symbol string   `json:"symbol"`
	Open   *float64 `json:"open"`
	Close  *float64 `json:"close"`
}

// MarshalJSON encodes missing prices as null.
func (b Bar) MarshalJSON() ([]byte, error) {
	w := barJSON{Date: b.Date, Symbol: b.Symbol}
	if b.HasOpen() {
		open := b.Open
		w.Open = &open
	}
	if b.HasClose() {
		close := b.Close
		w.Close = &close
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes null prices back to the missing sentinel.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var w barJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.Date = w.Date
	b.Symbol = w.Symbol
	b.Open = Missing()
	b.Close = Missing()
	if w.Open != nil {
		b.Open = *w.Open
	}
	if w.Close != nil {
		b.Close = *w.Close
	}
	return nil
}
