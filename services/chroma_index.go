package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"cliniq/models"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// ChromaIndex adapts a Chroma v2 collection to the VectorIndex contract.
// Document IDs are derived from the chunk text, so re-ingesting the same
// document yields the same IDs.
type ChromaIndex struct {
	collection chromago.Collection
}

func NewChromaIndex(collection chromago.Collection) *ChromaIndex {
	return &ChromaIndex{collection: collection}
}

// Upsert writes one record per chunk with its service/section/source metadata.
func (x *ChromaIndex) Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	for i, chunk := range chunks {
		embedding := embeddings.NewEmbeddingFromFloat32(vectors[i])
		metadata := chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("service", chunk.Service),
			chromago.NewStringAttribute("section", chunk.Section),
			chromago.NewStringAttribute("source", chunk.Source),
		)
		err := x.collection.Add(ctx,
			chromago.WithIDs(chromago.DocumentID(chunkID(chunk))),
			chromago.WithTexts(chunk.Text),
			chromago.WithEmbeddings(embedding),
			chromago.WithMetadatas(metadata),
		)
		if err != nil {
			return fmt.Errorf("failed to add chunk %d to chromadb: %w", i, err)
		}
	}
	return nil
}

// DeleteSource removes every record ingested from the given document.
func (x *ChromaIndex) DeleteSource(ctx context.Context, source string) error {
	where := chromago.EqString("source", source)
	return x.collection.Delete(ctx, chromago.WithWhereDelete(where))
}

// Query returns the top-k chunks for the vector, in the index's relevance
// order.
func (x *ChromaIndex) Query(ctx context.Context, vector []float32, k int) ([]models.Chunk, error) {
	embedding := embeddings.NewEmbeddingFromFloat32(vector)

	results, err := x.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embedding),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var chunks []models.Chunk
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()

	if len(documentGroups) == 0 {
		return chunks, nil
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		chunk := models.Chunk{Text: doc.ContentString()}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			applyMetadata(&chunk, metadataGroups[0][i])
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// applyMetadata converts Chroma's DocumentMetadata to chunk fields through a
// JSON round-trip; the metadata struct has no public accessor for its values.
func applyMetadata(chunk *models.Chunk, metadata chromago.DocumentMetadata) {
	if metadata == nil {
		return
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		log.Printf("WARN: could not marshal metadata for chunk: %v", err)
		return
	}
	var metadataMap map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &metadataMap); err != nil {
		log.Printf("WARN: could not unmarshal metadata for chunk: %v", err)
		return
	}
	if v, ok := metadataMap["service"].(string); ok {
		chunk.Service = v
	}
	if v, ok := metadataMap["section"].(string); ok {
		chunk.Section = v
	}
	if v, ok := metadataMap["source"].(string); ok {
		chunk.Source = v
	}
}

func chunkID(chunk models.Chunk) string {
	sum := sha256.Sum256([]byte(chunk.Text))
	return hex.EncodeToString(sum[:])
}
