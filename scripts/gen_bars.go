package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"
)

// Generates a synthetic daily OHLC CSV for local pipeline runs.
func main() {
	symbols := flag.String("symbols", "AAPL,MSFT,GOOG", "Comma-separated symbols")
	days := flag.Int("days", 250, "Number of trading days")
	start := flag.String("start", "2024-01-02", "Start date (YYYY-MM-DD)")
	seed := flag.Int64("seed", 42, "Random seed")
	output := flag.String("output", "data/bars.csv", "Output CSV file path")
	flag.Parse()

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	symbolList := strings.Split(*symbols, ",")

	if err := os.MkdirAll("data", 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Symbol", "Open", "Close"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	prices := make(map[string]float64, len(symbolList))
	for _, s := range symbolList {
		prices[s] = 50 + rng.Float64()*200
	}

	date := startDate
	written := 0
	for d := 0; d < *days; d++ {
		// Skip weekends
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
		for _, s := range symbolList {
			open := prices[s] * (1 + (rng.Float64()-0.5)*0.01)
			close := open * (1 + (rng.Float64()-0.5)*0.04)
			prices[s] = close

			row := []string{
				date.Format("2006-01-02"),
				s,
				fmt.Sprintf("%.2f", open),
				fmt.Sprintf("%.2f", close),
			}
			if err := w.Write(row); err != nil {
				log.Fatalf("Failed to write row: %v", err)
			}
			written++
		}
		date = date.AddDate(0, 0, 1)
	}

	log.Printf("Wrote %d bars for %d symbols to %s", written, len(symbolList), *output)
}
