// Command eval audits the RAG pipeline with an LLM-as-judge: for each test
// case it runs the full pipeline and asks a judge model to score faithfulness
// and answer relevance against the expected output.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"

	"cliniq/config"
	"cliniq/services"
)

type testCase struct {
	Question       string `json:"question"`
	ExpectedOutput string `json:"expected_output"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	var casesPath string
	flag.StringVar(&casesPath, "cases", "data/test_cases.json", "Path to the JSON test cases")
	flag.Parse()

	data, err := os.ReadFile(casesPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to read test cases: %v", err)
	}
	var cases []testCase
	if err := json.Unmarshal(data, &cases); err != nil {
		log.Fatalf("FATAL: Failed to parse test cases: %v", err)
	}

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

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v", err)
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	completer := services.NewGeminiCompleter(geminiClient)
	embedder := services.NewOllamaEmbedder(httpClient, cfg.Ollama.URL, cfg.Pipeline.EmbeddingModel)
	index := services.NewChromaIndex(collection)
	cohere := services.NewCohereClient(httpClient, "", cfg.Cohere.APIKey, cfg.Pipeline.RerankModel)

	pipeline := services.NewPipeline(
		services.NewQueryExpander(completer, cfg.Pipeline.ExpansionModel, cfg.Pipeline.ExpansionTemp),
		services.NewCandidateRetriever(embedder, index, cfg.Pipeline.RetrievalK),
		services.NewReranker(cohere, cfg.Pipeline.RerankTopN),
		services.NewAnswerGenerator(completer, cfg.Pipeline.GeneratorModel, cfg.Pipeline.GeneratorTemp),
		services.NewPipelineMetrics(prometheus.NewRegistry()),
	)

	judge := newJudge(completer, cfg.Pipeline.ExpansionModel)

	log.Printf("Starting audit over %d cases...", len(cases))
	for i, tc := range cases {
		log.Printf("Case #%d: %s", i+1, tc.Question)

		result, err := pipeline.Search(ctx, tc.Question)
		if err != nil {
			log.Printf("ERROR: pipeline failed on case %d: %v", i+1, err)
			continue
		}

		scores, err := judge.Score(ctx, tc.Question, tc.ExpectedOutput, result.AnswerText)
		if err != nil {
			log.Printf("ERROR: judging failed on case %d: %v", i+1, err)
			continue
		}

		log.Printf("Case #%d scores: faithfulness=%.2f relevance=%.2f (%s)",
			i+1, scores.Faithfulness, scores.AnswerRelevance, scores.Reason)
	}
}
