// Command ingest runs the offline ingestion of the protocol document into the
// vector index. It is a one-shot run, never executed while the API serves.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"

	"cliniq/config"
	"cliniq/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	var docPath string
	flag.StringVar(&docPath, "document", cfg.Ingest.DocumentPath, "Path to the protocol document (.pdf, .md or .txt)")
	flag.Parse()

	ctx := context.Background()

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.Chroma.URL))
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if cerr := chromaClient.Close(); cerr != nil {
			log.Printf("Warning: Failed to close chroma client: %v", cerr)
		}
	}()

	collection, err := chromaClient.GetOrCreateCollection(ctx, cfg.Chroma.Collection)
	if err != nil {
		log.Fatalf("FATAL: Failed to get or create collection: %v", err)
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}
	embedder := services.NewOllamaEmbedder(httpClient, cfg.Ollama.URL, cfg.Pipeline.EmbeddingModel)
	index := services.NewChromaIndex(collection)

	ingestion := services.NewIngestionService(services.NewSegmenter(), embedder, index, cfg.Ingest.SourceLabel)

	count, err := ingestion.IngestDocument(ctx, docPath)
	if err != nil {
		log.Fatalf("FATAL: Ingestion failed: %v", err)
	}
	log.Printf("Ingestion complete: %d chunks stored in collection '%s'.", count, cfg.Chroma.Collection)
}
