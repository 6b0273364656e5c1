package services

import "errors"

// Stage failure taxonomy. Expansion failures are never surfaced as errors: the
// expander degrades to the original question instead. Every other stage aborts
// the request.
var (
	// ErrIngestion marks an unreadable or missing source document. Fatal to an
	// ingestion run; never recovered in-process.
	ErrIngestion = errors.New("ingestion failed")
	// ErrRetrieval marks an embedding or vector-index failure at query time.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrRerank marks a rerank-service failure. There is no fallback ordering:
	// the request fails rather than serving recall-ranked context as reranked.
	ErrRerank = errors.New("rerank failed")
	// ErrGeneration marks a generation-call failure. Not retried here.
	ErrGeneration = errors.New("generation failed")
)
