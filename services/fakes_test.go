package services

import (
	"context"
	"strings"

	"cliniq/models"
)

// fakeCompleter returns a canned completion or error and records the last
// prompt it was given.
type fakeCompleter struct {
	response   string
	err        error
	lastPrompt string
	lastModel  string
	calls      int
	// respond, when set, takes precedence over response.
	respond func(prompt string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, model string, _ float64, prompt string) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastPrompt = prompt
	if f.respond != nil {
		return f.respond(prompt)
	}
	return f.response, f.err
}

// contractCompleter simulates a model that honors the clinical prompt
// contract: banner first when the context carries a trigger, the fixed
// fallback sentence when the context is empty.
func contractCompleter() *fakeCompleter {
	return &fakeCompleter{respond: func(prompt string) (string, error) {
		for _, trigger := range EscalationTriggers {
			if strings.Contains(prompt, "CONTEXTE MÉDICAL") && strings.Contains(afterContext(prompt), trigger) {
				return EmergencyBanner + "\n**Synthèse Clinique :** prise en charge immédiate.", nil
			}
		}
		if strings.Contains(prompt, "CONTEXTE MÉDICAL :\n\n\nQUESTION") {
			return NoInformationSentence, nil
		}
		return "**Synthèse Clinique :** réponse fondée sur le contexte.", nil
	}}
}

func afterContext(prompt string) string {
	if i := strings.Index(prompt, "CONTEXTE MÉDICAL"); i >= 0 {
		return prompt[i:]
	}
	return ""
}

// fakeEmbedder returns a constant vector per distinct text.
type fakeEmbedder struct {
	err   error
	calls []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

// fakeIndex returns a fixed result list per query ordinal.
type fakeIndex struct {
	results [][]models.Chunk
	err     error
	queries int
}

func (f *fakeIndex) Upsert(context.Context, []models.Chunk, [][]float32) error { return f.err }

func (f *fakeIndex) DeleteSource(context.Context, string) error { return f.err }

func (f *fakeIndex) Query(context.Context, []float32, int) ([]models.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	i := f.queries
	f.queries++
	if i >= len(f.results) {
		return nil, nil
	}
	return f.results[i], nil
}

// fakeRerankClient replays fixed results.
type fakeRerankClient struct {
	results  []RerankResult
	err      error
	lastDocs []string
	lastTopN int
}

func (f *fakeRerankClient) Rerank(_ context.Context, _ string, documents []string, topN int) ([]RerankResult, error) {
	f.lastDocs = documents
	f.lastTopN = topN
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}
