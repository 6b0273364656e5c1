package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"

	"cliniq/models"
)

const defaultCohereBaseURL = "https://api.cohere.com"

// CohereClient is a minimal REST client to the Cohere v2 rerank endpoint.
type CohereClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewCohereClient(client *http.Client, baseURL, apiKey, model string) *CohereClient {
	if baseURL == "" {
		baseURL = defaultCohereBaseURL
	}
	return &CohereClient{httpClient: client, baseURL: baseURL, apiKey: apiKey, model: model}
}

type cohereRerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type cohereRerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank scores each document against the query with the configured
// cross-encoder model and returns the top-N, descending by score.
func (c *CohereClient) Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error) {
	reqBody, err := json.Marshal(cohereRerankRequest{
		Model:     c.model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/rerank", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create rerank http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call rerank api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rerank api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var rerankResp cohereRerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode rerank response: %w", err)
	}

	results := make([]RerankResult, 0, len(rerankResp.Results))
	for _, r := range rerankResp.Results {
		results = append(results, RerankResult{Index: r.Index, Score: r.RelevanceScore})
	}
	return results, nil
}

// Reranker narrows a recall-oriented candidate set to the top-N most relevant
// chunks for the original question. It is the authoritative relevance filter.
type Reranker struct {
	client RerankClient
	topN   int
}

func NewReranker(client RerankClient, topN int) *Reranker {
	return &Reranker{client: client, topN: topN}
}

// Rerank orders candidates descending by cross-encoder score against the
// original question and keeps at most topN of them. With fewer candidates
// than topN, all of them come back, still score-ordered. A rerank-service
// failure fails the request; there is no fallback ordering.
func (r *Reranker) Rerank(ctx context.Context, question string, candidates []models.Chunk) ([]models.Chunk, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	topN := r.topN
	if topN > len(candidates) {
		topN = len(candidates)
	}
	log.Printf("PIPELINE [Phase 3: Reranking]: cross-encoder top_n=%d over %d candidates", topN, len(candidates))

	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Text
	}

	results, err := r.client.Rerank(ctx, question, documents, topN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRerank, err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topN {
		results = results[:topN]
	}

	ordered := make([]models.Chunk, 0, len(results))
	for _, res := range results {
		if res.Index < 0 || res.Index >= len(candidates) {
			return nil, fmt.Errorf("%w: result index %d out of range", ErrRerank, res.Index)
		}
		ordered = append(ordered, candidates[res.Index])
	}
	return ordered, nil
}
