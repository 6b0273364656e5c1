package services

import (
	"context"

	"cliniq/models"
)

// Embedder converts free text into a fixed-dimension, L2-normalized vector.
// The same model and normalization policy must be used at ingestion and query
// time or retrieval correctness is undefined.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex persists chunk vectors and supports nearest-neighbor lookup.
// Upsert and DeleteSource run only during offline ingestion; Query only during
// serving. The two never overlap in the intended deployment.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error
	DeleteSource(ctx context.Context, source string) error
	Query(ctx context.Context, vector []float32, k int) ([]models.Chunk, error)
}

// RerankResult maps a candidate (by its position in the submitted document
// list) to its cross-encoder relevance score.
type RerankResult struct {
	Index int
	Score float64
}

// RerankClient scores documents against a query with a cross-encoder model and
// returns the top-N results in descending score order.
type RerankClient interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error)
}

// TextCompleter is a single-shot language-model completion. No output schema
// is guaranteed beyond what the caller's parsing tolerates.
type TextCompleter interface {
	Complete(ctx context.Context, model string, temperature float64, prompt string) (string, error)
}

// Pipeline stage contracts. The orchestrator depends on these rather than on
// concrete implementations so it is assembled explicitly at process start.

type Expander interface {
	Expand(ctx context.Context, question string) ExpansionResult
}

type Retriever interface {
	Retrieve(ctx context.Context, queries []string) ([]models.Chunk, error)
}

type ContextReranker interface {
	Rerank(ctx context.Context, question string, candidates []models.Chunk) ([]models.Chunk, error)
}

type Generator interface {
	Generate(ctx context.Context, question string, chunks []models.Chunk) (string, error)
}

// Searcher is the pipeline's outward contract: one question in, one answer and
// its source descriptors out.
type Searcher interface {
	Search(ctx context.Context, question string) (*models.PipelineResult, error)
}
