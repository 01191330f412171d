package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tunogya/ossa/pkg/feature"
	"github.com/tunogya/ossa/pkg/model"
	"github.com/tunogya/ossa/pkg/rerank"
	"github.com/tunogya/ossa/pkg/store/duckdb"
	"github.com/tunogya/ossa/pkg/store/milvus"
	"github.com/tunogya/ossa/pkg/window"
)

// Config holds search configuration
type Config struct {
	WindowLen  int
	EmbedDim   int
	TopK       int
	DuckDBPath string
	MilvusAddr string
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

	// Load stored bars and normalize them the same way training did
	duckClient, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		logger.Fatal("failed to connect to DuckDB", zap.Error(err))
	}
	defer duckClient.Close()

	bars, err := duckdb.NewBarRepo(duckClient).GetAll(ctx)
	if err != nil {
		logger.Fatal("failed to load bars", zap.Error(err))
	}
	if len(bars) == 0 {
		logger.Fatal("no bars stored; run ingest first")
	}

	raw := model.BuildPanel(bars)
	stats := feature.ComputeStats(raw)
	normalized := feature.Normalize(raw, stats)

	dates, symbolCount := normalized.Shape()
	if dates < cfg.WindowLen {
		logger.Fatal("not enough dates for one window",
			zap.Int("dates", dates),
			zap.Int("window", cfg.WindowLen))
	}

	// Assemble the most recent full window through the live buffer
	buffer := window.NewRingBuffer(cfg.WindowLen)
	for d := 0; d < dates; d++ {
		buffer.Push(normalized.Row(d))
	}
	current, ok := buffer.Window()
	if !ok {
		logger.Fatal("failed to assemble current window")
	}
	logger.Info("built current window",
		zap.String("last_date", normalized.Dates[dates-1]),
		zap.Int("window_len", cfg.WindowLen),
		zap.Int("symbols", symbolCount))

	embedding := feature.NewEmbedder(cfg.EmbedDim).Embed(current)

	// Search for similar historical windows
	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		logger.Fatal("failed to connect to Milvus", zap.Error(err))
	}
	defer milvusClient.Close()

	if err := milvusClient.LoadCollection(ctx, milvus.DefaultCollectionName); err != nil {
		logger.Fatal("failed to load collection", zap.Error(err))
	}

	filter := fmt.Sprintf("window_len == %d && symbol_count == %d", cfg.WindowLen, symbolCount)
	results, err := milvusClient.Search(ctx, milvus.DefaultCollectionName, embedding, filter, cfg.TopK)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	reranker := rerank.NewReranker(rerank.DefaultTimeDecayConfig())
	ranked := reranker.TopN(results, time.Now(), cfg.TopK)

	fmt.Println("=== Similar historical windows ===")
	for i, r := range ranked {
		fmt.Printf("%2d. anchor=%s  similarity=%.4f  weight=%.3f  score=%.4f\n",
			i+1, r.Anchor.Format("2006-01-02"), r.OriginalScore, r.TimeWeight, r.FinalScore)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.IntVar(&cfg.WindowLen, "window", 12, "Feature window length in days")
	flag.IntVar(&cfg.EmbedDim, "dim", feature.DefaultEmbedDim, "Embedding dimension")
	flag.IntVar(&cfg.TopK, "topk", 10, "Number of similar windows to return")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "ossa.duckdb", "DuckDB file path")
	flag.StringVar(&cfg.MilvusAddr, "milvus", "localhost:19530", "Milvus server address")

	flag.Parse()

	return cfg
}
