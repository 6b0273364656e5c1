package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cliniq/models"
)

type stubExpander struct {
	result ExpansionResult
}

func (s *stubExpander) Expand(context.Context, string) ExpansionResult { return s.result }

type stubRetriever struct {
	chunks     []models.Chunk
	err        error
	gotQueries []string
}

func (s *stubRetriever) Retrieve(_ context.Context, queries []string) ([]models.Chunk, error) {
	s.gotQueries = queries
	return s.chunks, s.err
}

type stubReranker struct {
	chunks []models.Chunk
	err    error
	calls  int
}

func (s *stubReranker) Rerank(_ context.Context, _ string, _ []models.Chunk) ([]models.Chunk, error) {
	s.calls++
	return s.chunks, s.err
}

type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ []models.Chunk) (string, error) {
	s.calls++
	return s.answer, s.err
}

func namedChunk(text, section, service, source string) models.Chunk {
	return models.Chunk{Text: text, Section: section, Service: service, Source: source}
}

func TestPipelineSearchHappyPath(t *testing.T) {
	top := []models.Chunk{
		namedChunk("Extrait A", "URGENCE - Choc", "URGENCE - Choc", "guide.pdf"),
		namedChunk("Extrait B", "Suivi", "Général", "guide.pdf"),
	}
	expander := &stubExpander{result: ExpansionResult{Queries: []string{"q", "variante"}}}
	retriever := &stubRetriever{chunks: append(top, namedChunk("Extrait C", "Autre", "Général", "guide.pdf"))}
	generator := &stubGenerator{answer: "**Synthèse Clinique :** réponse."}

	pipeline := NewPipeline(expander, retriever, &stubReranker{chunks: top}, generator, NewPipelineMetrics(prometheus.NewRegistry()))

	result, err := pipeline.Search(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, []string{"q", "variante"}, retriever.gotQueries)
	assert.Equal(t, "**Synthèse Clinique :** réponse.", result.AnswerText)

	// One source descriptor per context chunk, in reranked order.
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "URGENCE - Choc", result.Sources[0].Section)
	assert.Equal(t, "URGENCE - Choc", result.Sources[0].Service)
	assert.Equal(t, "guide.pdf", result.Sources[0].Source)
	assert.Equal(t, "Suivi", result.Sources[1].Section)
}

func TestPipelineSearchDegradedExpansionStillAnswers(t *testing.T) {
	expander := &stubExpander{result: ExpansionResult{
		Queries:  []string{"q"},
		Degraded: true,
		Err:      errors.New("model unavailable"),
	}}
	retriever := &stubRetriever{chunks: []models.Chunk{chunk("A")}}
	pipeline := NewPipeline(expander, retriever, &stubReranker{chunks: []models.Chunk{chunk("A")}},
		&stubGenerator{answer: "réponse"}, NewPipelineMetrics(prometheus.NewRegistry()))

	result, err := pipeline.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, retriever.gotQueries)
	assert.Equal(t, "réponse", result.AnswerText)
}

func TestPipelineSearchRetrievalFailureAborts(t *testing.T) {
	reranker := &stubReranker{}
	generator := &stubGenerator{}
	pipeline := NewPipeline(
		&stubExpander{result: ExpansionResult{Queries: []string{"q"}}},
		&stubRetriever{err: ErrRetrieval},
		reranker, generator, NewPipelineMetrics(prometheus.NewRegistry()))

	result, err := pipeline.Search(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.Nil(t, result, "no partial result on stage failure")
	assert.Zero(t, reranker.calls)
	assert.Zero(t, generator.calls)
}

func TestPipelineSearchRerankFailureAborts(t *testing.T) {
	generator := &stubGenerator{}
	pipeline := NewPipeline(
		&stubExpander{result: ExpansionResult{Queries: []string{"q"}}},
		&stubRetriever{chunks: []models.Chunk{chunk("A")}},
		&stubReranker{err: ErrRerank},
		generator, NewPipelineMetrics(prometheus.NewRegistry()))

	result, err := pipeline.Search(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRerank)
	assert.Nil(t, result)
	assert.Zero(t, generator.calls)
}

func TestPipelineSearchCountsRequestsIncludingFailures(t *testing.T) {
	metrics := NewPipelineMetrics(prometheus.NewRegistry())
	pipeline := NewPipeline(
		&stubExpander{result: ExpansionResult{Queries: []string{"q"}}},
		&stubRetriever{err: ErrRetrieval},
		&stubReranker{}, &stubGenerator{}, metrics)

	_, _ = pipeline.Search(context.Background(), "q")
	_, _ = pipeline.Search(context.Background(), "q")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Requests))
}

func TestPipelineSearchObservesLatencyOnSuccessOnly(t *testing.T) {
	metrics := NewPipelineMetrics(prometheus.NewRegistry())
	failing := NewPipeline(
		&stubExpander{result: ExpansionResult{Queries: []string{"q"}}},
		&stubRetriever{err: ErrRetrieval},
		&stubReranker{}, &stubGenerator{}, metrics)

	_, _ = failing.Search(context.Background(), "q")
	assert.Equal(t, uint64(0), histogramCount(t, metrics.Latency))

	ok := NewPipeline(
		&stubExpander{result: ExpansionResult{Queries: []string{"q"}}},
		&stubRetriever{chunks: []models.Chunk{chunk("A")}},
		&stubReranker{chunks: []models.Chunk{chunk("A")}},
		&stubGenerator{answer: "réponse"}, metrics)

	_, err := ok.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histogramCount(t, metrics.Latency))
	assert.Equal(t, float64(1.0), testutil.ToFloat64(metrics.Faithfulness))
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}
