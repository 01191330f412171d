package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// DefaultCollectionName is the default collection name for daily
	// OHLC window embeddings
	DefaultCollectionName = "ohlc_windows"
)

// CollectionConfig holds configuration for creating a collection
type CollectionConfig struct {
	Name      string
	Dimension int // embedding dimension
	Shards    int // number of shards
}

// DefaultCollectionConfig returns default collection configuration
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Name:      DefaultCollectionName,
		Dimension: 96,
		Shards:    2,
	}
}

// CreateCollection creates the ohlc_windows collection
func (c *Client) CreateCollection(ctx context.Context, cfg CollectionConfig) error {
	exists, err := c.HasCollection(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: cfg.Name,
		Description:    "Daily OHLC window embeddings for similarity search",
		Fields: []*entity.Field{
			{
				Name:       "sample_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", cfg.Dimension),
				},
			},
			{
				Name:     "anchor",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "window_len",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "symbol_count",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "data_version",
				DataType: entity.FieldTypeInt32,
			},
		},
	}

	if err := c.conn.CreateCollection(ctx, schema, int32(cfg.Shards)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// SampleData holds data for inserting a window embedding into Milvus
type SampleData struct {
	SampleID    string
	Embedding   []float32
	Anchor      time.Time
	WindowLen   int32
	SymbolCount int32
	DataVersion int32
}

// Insert inserts a single window embedding
func (c *Client) Insert(ctx context.Context, collectionName string, data *SampleData) error {
	return c.InsertBatch(ctx, collectionName, []*SampleData{data})
}

// InsertBatch inserts multiple window embeddings
func (c *Client) InsertBatch(ctx context.Context, collectionName string, dataList []*SampleData) error {
	if len(dataList) == 0 {
		return nil
	}

	sampleIDs := make([]string, len(dataList))
	embeddings := make([][]float32, len(dataList))
	anchors := make([]int64, len(dataList))
	windowLens := make([]int32, len(dataList))
	symbolCounts := make([]int32, len(dataList))
	dataVersions := make([]int32, len(dataList))

	for i, d := range dataList {
		sampleIDs[i] = d.SampleID
		embeddings[i] = d.Embedding
		anchors[i] = d.Anchor.Unix()
		windowLens[i] = d.WindowLen
		symbolCounts[i] = d.SymbolCount
		dataVersions[i] = d.DataVersion
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("sample_id", sampleIDs),
		entity.NewColumnFloatVector("embedding", len(embeddings[0]), embeddings),
		entity.NewColumnInt64("anchor", anchors),
		entity.NewColumnInt32("window_len", windowLens),
		entity.NewColumnInt32("symbol_count", symbolCounts),
		entity.NewColumnInt32("data_version", dataVersions),
	}

	if _, err := c.conn.Insert(ctx, collectionName, "", columns...); err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	return nil
}

// SearchResult represents a single similarity search result
type SearchResult struct {
	SampleID    string
	Score       float32
	Anchor      time.Time
	WindowLen   int32
	SymbolCount int32
	DataVersion int32
}

// Search performs a TopK similarity search over window embeddings
func (c *Client) Search(ctx context.Context, collectionName string, embedding []float32, filter string, topK int) ([]SearchResult, error) {
	vectors := []entity.Vector{entity.FloatVector(embedding)}

	sp, err := entity.NewIndexIvfFlatSearchParam(16) // nprobe
	if err != nil {
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	outputFields := []string{"sample_id", "anchor", "window_len", "symbol_count", "data_version"}

	results, err := c.conn.Search(
		ctx,
		collectionName,
		nil,    // partitions
		filter, // expression filter
		outputFields,
		vectors,
		"embedding",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	searchResults := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		result := SearchResult{
			Score: results[0].Scores[i],
		}

		for _, field := range results[0].Fields {
			switch field.Name() {
			case "sample_id":
				if col, ok := field.(*entity.ColumnVarChar); ok {
					val, _ := col.ValueByIdx(i)
					result.SampleID = val
				}
			case "anchor":
				if col, ok := field.(*entity.ColumnInt64); ok {
					val, _ := col.ValueByIdx(i)
					result.Anchor = time.Unix(val, 0)
				}
			case "window_len":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.WindowLen = val
				}
			case "symbol_count":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.SymbolCount = val
				}
			case "data_version":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.DataVersion = val
				}
			}
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}
