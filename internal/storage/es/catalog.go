package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"

	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/pkg/pagination"
)

// Catalog is the Elasticsearch-backed discovery index over archived
// datasets. Documents are keyed by the dataset's archive id.
type Catalog struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewCatalog(ctx context.Context, config ClientConfig) (*Catalog, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	c := &Catalog{client: client, indexName: config.IndexName}
	if err := c.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return c, nil
}

func (c *Catalog) EnsureIndex(ctx context.Context) error {
	exists, err := c.client.Indices.Exists(c.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("index already exists", "index", c.indexName)
		return nil
	}

	mappings := summaryMapping()
	createRes, err := c.client.Indices.Create(c.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("index created", "index", c.indexName)
	return nil
}

func (c *Catalog) Index(ctx context.Context, s storage.DatasetSummary) error {
	res, err := c.client.Index(c.indexName).Id(s.ID).Document(s).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index dataset summary: %w", err)
	}

	slog.Info("dataset summary indexed", "id", s.ID, "index", c.indexName, "result", res.Result)
	return nil
}

func (c *Catalog) IndexBulk(ctx context.Context, summaries []storage.DatasetSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         c.indexName,
		Client:        c.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed int64

	for _, s := range summaries {
		docBytes, err := json.Marshal(s)
		if err != nil {
			slog.Error("failed to marshal summary", "error", err, "id", s.ID)
			atomic.AddInt64(&failed, 1)
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: s.ID,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					atomic.AddInt64(&successful, 1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					atomic.AddInt64(&failed, 1)
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			atomic.AddInt64(&failed, 1)
			slog.Error("failed to add summary to bulk indexer", "error", err, "id", s.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("bulk indexing completed",
		"successful", atomic.LoadInt64(&successful),
		"failed", atomic.LoadInt64(&failed),
		"total", len(summaries),
		"index", c.indexName)

	if n := atomic.LoadInt64(&failed); n > 0 {
		return fmt.Errorf("failed to index %d out of %d summaries", n, len(summaries))
	}

	return nil
}

// Search matches the query against algorithm, function and suite names,
// boosting algorithm hits. A positive dimension narrows with a term filter;
// an empty query matches every document.
func (c *Catalog) Search(ctx context.Context, query string, dimension int, page pagination.OffsetRequest) ([]storage.DatasetSummary, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	boolQuery := &types.BoolQuery{}

	if query != "" {
		or := operator.Or
		boolQuery.Must = []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:    query,
				Fields:   []string{"algorithm^2.0", "function", "suite"},
				Operator: &or,
			},
		}}
	} else {
		boolQuery.Must = []types.Query{{MatchAll: &types.MatchAllQuery{}}}
	}

	if dimension > 0 {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{
				"dimension": {Value: dimension},
			},
		}}
	}

	res, err := c.client.Search().
		Index(c.indexName).
		Query(&types.Query{Bool: boolQuery}).
		From((page.Page - 1) * page.Size).
		Size(page.Size).
		Do(ctx)
	if err != nil {
		slog.Error("catalog search failed", "error", err, "query", query)
		return nil, fmt.Errorf("failed to execute catalog search: %w", err)
	}

	out := make([]storage.DatasetSummary, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var s storage.DatasetSummary
		if err := json.Unmarshal(hit.Source_, &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dataset summary: %w", err)
		}
		out = append(out, s)
	}

	slog.Info("catalog search executed", "query", query, "dimension", dimension, "hits", len(out))
	return out, nil
}

func summaryMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"suite":      textWithKeyword(),
			"algorithm":  textWithKeyword(),
			"function":   textWithKeyword(),
			"dimension":  types.NewIntegerNumberProperty(),
			"maximize":   types.NewBooleanProperty(),
			"runs":       types.NewIntegerNumberProperty(),
			"max_budget": types.NewDoubleNumberProperty(),
			"best_value": types.NewDoubleNumberProperty(),
			"indexed_at": types.NewDateProperty(),
		},
	}
}

func textWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
