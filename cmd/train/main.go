package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tunogya/ossa/pkg/classify"
	"github.com/tunogya/ossa/pkg/dataset"
	"github.com/tunogya/ossa/pkg/feature"
	"github.com/tunogya/ossa/pkg/model"
	ossanats "github.com/tunogya/ossa/pkg/queue/nats"
	"github.com/tunogya/ossa/pkg/report"
	"github.com/tunogya/ossa/pkg/store/duckdb"
	"github.com/tunogya/ossa/pkg/store/milvus"
	"github.com/tunogya/ossa/pkg/window"
)

// Config holds training run configuration
type Config struct {
	CSVPath    string
	ConfigPath string

	WindowLen     int
	Horizon       int
	SplitFraction float64
	Layout        string

	Epochs       int
	LearningRate float64
	Seed         int64
	Retrain      bool

	ModelName  string
	RunID      string
	DuckDBPath string
	NATSUrl    string
	MilvusAddr string
	EmbedDim   int
}

func main() {
	cfg := parseFlags()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Training runs to completion unless interrupted; SIGINT cancels
	// between epochs.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Storage
	duckClient, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		logger.Fatal("failed to connect to DuckDB", zap.Error(err))
	}
	defer duckClient.Close()
	if err := duckdb.InitializeSchema(duckClient); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	// Build dataset from CSV or from stored bars
	ds, err := buildDataset(ctx, cfg, duckClient, logger)
	if err != nil {
		if errors.Is(err, window.ErrInsufficientData) {
			logger.Fatal("not enough dates for the configured window and horizon; provide a larger dataset", zap.Error(err))
		}
		logger.Fatal("failed to build dataset", zap.Error(err))
	}

	testX, testY := window.Tensors(ds.Test)

	// Reuse the stored model slot unless a retrain is forced; a slot
	// that has never been saved falls back to fitting a new model.
	modelRepo := duckdb.NewModelRepo(duckClient)
	var clf *classify.Baseline
	if !cfg.Retrain {
		clf, err = loadModel(ctx, modelRepo, cfg.ModelName)
		if err != nil {
			logger.Fatal("failed to load model", zap.Error(err))
		}
	}
	if clf != nil {
		logger.Info("reusing stored model", zap.String("name", cfg.ModelName))
	} else {
		clf, err = trainModel(ctx, cfg, ds, logger)
		if err != nil {
			logger.Fatal("training failed", zap.Error(err))
		}

		artifact, err := clf.MarshalArtifact()
		if err != nil {
			logger.Fatal("failed to serialize model", zap.Error(err))
		}
		if err := modelRepo.Save(ctx, cfg.ModelName, "baseline", artifact); err != nil {
			logger.Fatal("failed to save model", zap.Error(err))
		}
		logger.Info("model saved", zap.String("name", cfg.ModelName))
	}

	// Evaluate on the held-out suffix
	metrics, err := clf.Evaluate(ctx, testX, testY)
	if err != nil {
		logger.Fatal("evaluation failed", zap.Error(err))
	}
	logger.Info("test metrics",
		zap.Float64("loss", metrics.Loss),
		zap.Float64("accuracy", metrics.Accuracy))

	preds, err := clf.Predict(ctx, testX)
	if err != nil {
		logger.Fatal("prediction failed", zap.Error(err))
	}
	rep, err := report.Compute(preds, testY, dataset.Anchors(ds.Test), ds.Symbols, ds.Horizon, ds.Layout)
	if err != nil {
		logger.Fatal("failed to compute report", zap.Error(err))
	}
	for _, s := range rep.Symbols {
		logger.Info("symbol accuracy",
			zap.String("symbol", s.Symbol),
			zap.Float64("accuracy", s.Overall),
			zap.Float64s("per_offset", s.PerOffset))
	}

	// Persist evaluation history
	evalRepo := duckdb.NewEvalRepo(duckClient)
	if err := evalRepo.InsertReport(ctx, cfg.RunID, rep); err != nil {
		logger.Fatal("failed to store evaluation", zap.Error(err))
	}

	// Index window embeddings for similarity search, if configured
	if cfg.MilvusAddr != "" {
		if err := indexEmbeddings(ctx, cfg, ds, logger); err != nil {
			logger.Fatal("failed to index embeddings", zap.Error(err))
		}
	}

	logger.Info("training run complete", zap.String("run_id", cfg.RunID))
}

// loadModel returns the baseline stored under the named slot, or nil
// when the slot has never been saved.
func loadModel(ctx context.Context, repo *duckdb.ModelRepo, name string) (*classify.Baseline, error) {
	kind, artifact, err := repo.Load(ctx, name)
	if errors.Is(err, duckdb.ErrModelNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if kind != "baseline" {
		return nil, fmt.Errorf("model slot %q holds unsupported kind %q", name, kind)
	}
	return classify.LoadBaseline(artifact)
}

// trainModel fits a fresh baseline on the training split, streaming
// per-epoch progress to the log and, when configured, to NATS.
func trainModel(ctx context.Context, cfg Config, ds *dataset.Dataset, logger *zap.Logger) (*classify.Baseline, error) {
	trainX, trainY := window.Tensors(ds.Train)

	// Optional NATS progress stream
	var natsClient *ossanats.Client
	if cfg.NATSUrl != "" {
		var err error
		natsClient, err = ossanats.NewClient(ossanats.Config{URL: cfg.NATSUrl, StreamName: "ossa"})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()
		subjects := []string{ossanats.SubjectBarWrite, ossanats.SubjectTrainingProgress}
		if err := natsClient.CreateStream(ctx, subjects); err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
	}

	fitCfg := classify.DefaultFitConfig()
	fitCfg.Epochs = cfg.Epochs
	fitCfg.LearningRate = cfg.LearningRate
	fitCfg.Seed = cfg.Seed
	fitCfg.OnEpoch = func(p classify.Progress) {
		logger.Info("epoch",
			zap.String("run_id", cfg.RunID),
			zap.Int("epoch", p.Epoch),
			zap.Int("epochs", p.Epochs),
			zap.Float64("loss", p.Loss),
			zap.Float64("accuracy", p.Accuracy))
		if natsClient != nil {
			payload, err := ossanats.Encode(ossanats.TrainingProgressMsg{
				RunID:    cfg.RunID,
				Epoch:    p.Epoch,
				Epochs:   p.Epochs,
				Loss:     p.Loss,
				Accuracy: p.Accuracy,
				At:       time.Now(),
			})
			if err == nil {
				if perr := natsClient.Publish(ctx, ossanats.SubjectTrainingProgress, payload); perr != nil {
					logger.Warn("failed to publish progress", zap.Error(perr))
				}
			}
		}
	}

	logger.Info("training",
		zap.String("run_id", cfg.RunID),
		zap.Int("train_samples", len(trainX)),
		zap.Int("test_samples", len(ds.Test)),
		zap.Int("window_len", ds.WindowLen),
		zap.Int("horizon", ds.Horizon),
		zap.String("layout", ds.Layout.String()))

	clf := classify.NewBaseline()
	if err := clf.Fit(ctx, trainX, trainY, fitCfg); err != nil {
		return nil, err
	}
	return clf, nil
}

// buildDataset loads bars from the CSV file when given, otherwise from
// the bars already ingested into DuckDB.
func buildDataset(ctx context.Context, cfg Config, duckClient *duckdb.Client, logger *zap.Logger) (*dataset.Dataset, error) {
	dsCfg, err := resolveDatasetConfig(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CSVPath != "" {
		f, err := os.Open(cfg.CSVPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return dataset.BuildFromCSV(f, dsCfg, logger)
	}

	bars, err := duckdb.NewBarRepo(duckClient).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return dataset.Build(bars, dsCfg, logger)
}

// resolveDatasetConfig starts from the YAML file when given and lets
// explicitly set flags override it.
func resolveDatasetConfig(cfg Config) (dataset.Config, error) {
	dsCfg := dataset.DefaultConfig()
	if cfg.ConfigPath != "" {
		loaded, err := dataset.LoadConfig(cfg.ConfigPath)
		if err != nil {
			return dsCfg, err
		}
		dsCfg = loaded
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["window"] {
		dsCfg.WindowLen = cfg.WindowLen
	}
	if set["horizon"] {
		dsCfg.Horizon = cfg.Horizon
	}
	if set["split"] {
		dsCfg.SplitFraction = cfg.SplitFraction
	}
	if set["layout"] {
		dsCfg.LabelLayout = cfg.Layout
	}
	return dsCfg, nil
}

// indexEmbeddings flattens every sample window into a fixed-dim vector
// and stores it in Milvus for similar-window lookup.
func indexEmbeddings(ctx context.Context, cfg Config, ds *dataset.Dataset, logger *zap.Logger) error {
	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		return err
	}
	defer milvusClient.Close()

	collectionCfg := milvus.CollectionConfig{
		Name:      milvus.DefaultCollectionName,
		Dimension: cfg.EmbedDim,
		Shards:    2,
	}
	if err := milvusClient.CreateCollection(ctx, collectionCfg); err != nil {
		return err
	}

	embedder := feature.NewEmbedder(cfg.EmbedDim)
	samples := append(append([]model.Sample{}, ds.Train...), ds.Test...)

	batch := make([]*milvus.SampleData, 0, len(samples))
	for i := range samples {
		anchor, err := time.Parse("2006-01-02", samples[i].Anchor)
		if err != nil {
			logger.Warn("skipping sample with unparseable anchor",
				zap.String("anchor", samples[i].Anchor))
			continue
		}
		batch = append(batch, &milvus.SampleData{
			SampleID:    samples[i].SampleID,
			Embedding:   embedder.Embed(samples[i].Features),
			Anchor:      anchor,
			WindowLen:   int32(ds.WindowLen),
			SymbolCount: int32(len(ds.Symbols)),
			DataVersion: 1,
		})
	}

	if err := milvusClient.InsertBatch(ctx, milvus.DefaultCollectionName, batch); err != nil {
		return err
	}
	if err := milvusClient.CreateIndex(ctx, milvus.DefaultCollectionName, "embedding"); err != nil {
		return err
	}
	if err := milvusClient.Flush(ctx, milvus.DefaultCollectionName); err != nil {
		return err
	}

	logger.Info("indexed window embeddings", zap.Int("count", len(batch)))
	return nil
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.CSVPath, "csv", "", "CSV file path (empty reads bars from DuckDB)")
	flag.StringVar(&cfg.ConfigPath, "config", "", "YAML pipeline config file")

	flag.IntVar(&cfg.WindowLen, "window", 12, "Feature window length in days")
	flag.IntVar(&cfg.Horizon, "horizon", 3, "Forward days labeled per symbol")
	flag.Float64Var(&cfg.SplitFraction, "split", window.DefaultSplitFraction, "Train fraction of the chronological split")
	flag.StringVar(&cfg.Layout, "layout", "symbol-major", "Label layout: symbol-major or day-major")

	flag.IntVar(&cfg.Epochs, "epochs", 50, "Training epochs")
	flag.Float64Var(&cfg.LearningRate, "lr", 0.05, "SGD learning rate")
	flag.Int64Var(&cfg.Seed, "seed", 0, "Random seed (0 = time-derived)")
	flag.BoolVar(&cfg.Retrain, "retrain", false, "Fit a fresh model even if the slot holds one")

	flag.StringVar(&cfg.ModelName, "model", "updown", "Model slot name")
	flag.StringVar(&cfg.RunID, "run", "", "Run ID (defaults to a timestamp)")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "ossa.duckdb", "DuckDB file path")
	flag.StringVar(&cfg.NATSUrl, "nats", "", "NATS server URL (empty disables progress publishing)")
	flag.StringVar(&cfg.MilvusAddr, "milvus", "", "Milvus address (empty disables embedding indexing)")
	flag.IntVar(&cfg.EmbedDim, "dim", feature.DefaultEmbedDim, "Embedding dimension for similarity search")

	flag.Parse()

	if cfg.RunID == "" {
		cfg.RunID = time.Now().UTC().Format("20060102T150405Z")
	}

	return cfg
}
