package services

import (
	"context"
	"fmt"
	"log"

	"cliniq/models"
)

// CandidateRetriever fetches nearest-neighbor candidates for every query
// variant and collapses duplicates. Its contribution is recall; precision
// belongs to the reranker.
type CandidateRetriever struct {
	embedder Embedder
	index    VectorIndex
	k        int
}

func NewCandidateRetriever(embedder Embedder, index VectorIndex, k int) *CandidateRetriever {
	return &CandidateRetriever{embedder: embedder, index: index, k: k}
}

// Retrieve embeds each query in order, takes the index's top-k per query, and
// unions the results deduplicated by exact chunk text, first occurrence kept.
// The original query's results therefore lead the candidate set, followed by
// chunks surfaced only by the paraphrases.
func (r *CandidateRetriever) Retrieve(ctx context.Context, queries []string) ([]models.Chunk, error) {
	log.Printf("PIPELINE [Phase 2: Recherche]: k=%d over %d query variations", r.k, len(queries))

	var all []models.Chunk
	for _, q := range queries {
		vec, err := r.embedder.Embed(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding query: %v", ErrRetrieval, err)
		}
		matches, err := r.index.Query(ctx, vec, r.k)
		if err != nil {
			return nil, fmt.Errorf("%w: vector index query: %v", ErrRetrieval, err)
		}
		all = append(all, matches...)
	}

	unique := dedupByText(all)
	log.Printf("PIPELINE [Phase 2: Recherche]: %d unique candidates", len(unique))
	return unique, nil
}

// dedupByText keys strictly on the exact injected chunk text. Near-duplicates
// differing by whitespace or header alone stay distinct.
func dedupByText(chunks []models.Chunk) []models.Chunk {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]models.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		if _, ok := seen[ch.Text]; ok {
			continue
		}
		seen[ch.Text] = struct{}{}
		out = append(out, ch)
	}
	return out
}
