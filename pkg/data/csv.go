package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tunogya/ossa/pkg/model"
)

// Required CSV columns. Matching is case-sensitive; extra columns are
// ignored and column order does not matter.
const (
	ColDate   = "Date"
	ColSymbol = "Symbol"
	ColOpen   = "Open"
	ColClose  = "Close"
)

var requiredColumns = []string{ColDate, ColSymbol, ColOpen, ColClose}

// SchemaError reports required columns absent from the CSV header.
// It aborts the whole load: a file without the schema cannot produce
// a partial dataset.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("csv header missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseBars reads daily OHLC bars from CSV text. The first row must be
// a header containing Date, Symbol, Open and Close. Rows with an empty
// date or symbol are skipped; non-numeric open/close values become the
// missing sentinel rather than failing the row.
func ParseBars(r io.Reader) ([]model.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var bars []model.Bar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		bar, ok := parseRecord(record, colMap)
		if !ok {
			continue // malformed row tolerance, not an error
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// parseRecord converts one CSV row into a Bar. Rows without a date or
// symbol are rejected; price parse failures degrade to the missing
// sentinel.
func parseRecord(record []string, colMap map[string]int) (model.Bar, bool) {
	getValue := func(name string) string {
		if idx, ok := colMap[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	date := getValue(ColDate)
	symbol := getValue(ColSymbol)
	if date == "" || symbol == "" {
		return model.Bar{}, false
	}

	return model.Bar{
		Date:   date,
		Symbol: symbol,
		Open:   parsePrice(getValue(ColOpen)),
		Close:  parsePrice(getValue(ColClose)),
	}, true
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing()
	}
	return v
}

// CSVProvider implements BarProvider for CSV files.
type CSVProvider struct {
	filePath string
	bars     []model.Bar
	loaded   bool
}

// NewCSVProvider creates a new CSV-based bar provider.
func NewCSVProvider(filePath string) *CSVProvider {
	return &CSVProvider{filePath: filePath}
}

// loadIfNeeded loads the CSV file if not already loaded.
func (p *CSVProvider) loadIfNeeded() error {
	if p.loaded {
		return nil
	}

	file, err := os.Open(p.filePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	bars, err := ParseBars(file)
	if err != nil {
		return err
	}
	sortBars(bars)

	p.bars = bars
	p.loaded = true
	return nil
}

// FetchBars retrieves bars for a symbol within an inclusive date range.
func (p *CSVProvider) FetchBars(ctx context.Context, symbol, start, end string) ([]model.Bar, error) {
	if err := p.loadIfNeeded(); err != nil {
		return nil, err
	}

	var result []model.Bar
	for _, b := range p.bars {
		if symbol != "" && b.Symbol != symbol {
			continue
		}
		if start != "" && b.Date < start {
			continue
		}
		if end != "" && b.Date > end {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// FetchAll retrieves every bar ordered by date then symbol.
func (p *CSVProvider) FetchAll(ctx context.Context) ([]model.Bar, error) {
	if err := p.loadIfNeeded(); err != nil {
		return nil, err
	}
	result := make([]model.Bar, len(p.bars))
	copy(result, p.bars)
	return result, nil
}
