package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tunogya/ossa/pkg/data"
	ossanats "github.com/tunogya/ossa/pkg/queue/nats"
	"github.com/tunogya/ossa/pkg/store/duckdb"
)

// Config holds ingest configuration
type Config struct {
	CSVPath    string
	DuckDBPath string
	NATSUrl    string
	BatchSize  int
}

func main() {
	cfg := parseFlags()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	logger.Info("starting ingest",
		zap.String("csv", cfg.CSVPath),
		zap.String("duckdb", cfg.DuckDBPath))

	// Parse CSV. Schema failures abort here, before any storage work.
	provider := data.NewCSVProvider(cfg.CSVPath)
	bars, err := provider.FetchAll(ctx)
	if err != nil {
		logger.Fatal("failed to load CSV", zap.Error(err))
	}
	logger.Info("parsed bars", zap.Int("count", len(bars)))

	// Store in DuckDB
	duckClient, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		logger.Fatal("failed to connect to DuckDB", zap.Error(err))
	}
	defer duckClient.Close()

	if err := duckdb.InitializeSchema(duckClient); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	barRepo := duckdb.NewBarRepo(duckClient)
	if err := barRepo.InsertBatch(ctx, bars); err != nil {
		logger.Fatal("failed to insert bars", zap.Error(err))
	}
	total, err := barRepo.Count(ctx)
	if err != nil {
		logger.Fatal("failed to count bars", zap.Error(err))
	}
	logger.Info("stored bars in DuckDB",
		zap.Int("inserted", len(bars)),
		zap.Int64("total", total))

	// Publish to NATS for downstream consumers, if configured
	if cfg.NATSUrl != "" {
		natsClient, err := ossanats.NewClient(ossanats.Config{
			URL:        cfg.NATSUrl,
			StreamName: "ossa",
		})
		if err != nil {
			logger.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		subjects := []string{ossanats.SubjectBarWrite, ossanats.SubjectTrainingProgress}
		if err := natsClient.CreateStream(ctx, subjects); err != nil {
			logger.Fatal("failed to create stream", zap.Error(err))
		}

		for start := 0; start < len(bars); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(bars) {
				end = len(bars)
			}
			payload, err := ossanats.Encode(ossanats.BarBatchMsg{Bars: bars[start:end]})
			if err != nil {
				logger.Fatal("failed to encode bar batch", zap.Error(err))
			}
			if err := natsClient.Publish(ctx, ossanats.SubjectBarWrite, payload); err != nil {
				logger.Fatal("failed to publish bar batch", zap.Error(err))
			}
		}
		logger.Info("published bars to NATS", zap.Int("count", len(bars)))
	}

	logger.Info("ingest complete")
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.CSVPath, "csv", "", "CSV file path (required)")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "ossa.duckdb", "DuckDB file path")
	flag.StringVar(&cfg.NATSUrl, "nats", "", "NATS server URL (empty disables publishing)")
	flag.IntVar(&cfg.BatchSize, "batch", 1000, "Bars per published batch")

	flag.Parse()

	if cfg.CSVPath == "" {
		fmt.Println("Usage: ingest -csv <file> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	return cfg
}
