package services

import (
	"context"
	"fmt"
	"log"
)

// IngestionService runs the one-shot offline ingestion: extract the protocol
// document, segment it, embed every chunk and upsert the result into the
// vector index. It never runs concurrently with serving.
type IngestionService struct {
	segmenter *Segmenter
	embedder  Embedder
	index     VectorIndex
	source    string
}

func NewIngestionService(segmenter *Segmenter, embedder Embedder, index VectorIndex, source string) *IngestionService {
	return &IngestionService{segmenter: segmenter, embedder: embedder, index: index, source: source}
}

// IngestDocument reads the document at path and rebuilds the index content for
// this source. Returns the number of chunks ingested.
func (s *IngestionService) IngestDocument(ctx context.Context, path string) (int, error) {
	markdown, err := ExtractTextFromFile(path)
	if err != nil {
		return 0, err
	}

	chunks := s.segmenter.Segment(markdown, s.source)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: document produced no chunks", ErrIngestion)
	}
	log.Printf("INGEST: generated %d semantic blocks from %s", len(chunks), path)

	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return 0, fmt.Errorf("%w: embedding chunk %d: %v", ErrIngestion, i, err)
		}
		vectors[i] = vec
	}

	// Replace any previous ingestion of this source before writing.
	if err := s.index.DeleteSource(ctx, s.source); err != nil {
		return 0, fmt.Errorf("%w: clearing previous index content: %v", ErrIngestion, err)
	}
	if err := s.index.Upsert(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("%w: upserting chunks: %v", ErrIngestion, err)
	}

	log.Printf("INGEST: ingestion complete, %d chunks stored", len(chunks))
	return len(chunks), nil
}
