package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const expansionPromptTemplate = `Tu es un assistant médical expert.
Ta tâche est de générer 2 reformulations cliniques ou synonymes de la question suivante pour améliorer la recherche dans une base de données médicale.
Ne donne aucune explication. Renvoie uniquement les 2 questions, séparées par un saut de ligne.

Question originale : %s
Reformulations :`

// maxParaphrases bounds the expansion fan-out: one original plus at most two
// clinical paraphrases.
const maxParaphrases = 2

// ExpansionResult distinguishes a full expansion from a degraded one. Degraded
// results still carry the original question; Err records why the expansion
// call was abandoned.
type ExpansionResult struct {
	Queries  []string
	Degraded bool
	Err      error
}

// QueryExpander widens retrieval recall by paraphrasing the practitioner's
// question. Expansion is best-effort: any failure degrades to the original
// question alone and never fails the overall query.
type QueryExpander struct {
	llm         TextCompleter
	model       string
	temperature float64
}

func NewQueryExpander(llm TextCompleter, model string, temperature float64) *QueryExpander {
	return &QueryExpander{llm: llm, model: model, temperature: temperature}
}

// Expand returns 1 to 3 query strings, the first always the verbatim question.
func (e *QueryExpander) Expand(ctx context.Context, question string) ExpansionResult {
	log.Printf("PIPELINE [Phase 1: Expansion]: reformulating via %s", e.model)

	raw, err := e.llm.Complete(ctx, e.model, e.temperature, fmt.Sprintf(expansionPromptTemplate, question))
	if err != nil {
		log.Printf("WARN: query expansion failed, falling back to original question: %v", err)
		return ExpansionResult{Queries: []string{question}, Degraded: true, Err: err}
	}

	paraphrases := parseParaphrases(raw)
	if len(paraphrases) == 0 {
		return ExpansionResult{Queries: []string{question}, Degraded: true, Err: fmt.Errorf("expansion model returned no usable lines")}
	}

	return ExpansionResult{Queries: append([]string{question}, paraphrases...)}
}

// parseParaphrases splits the model output on line breaks, trims whitespace,
// discards empty lines and keeps at most maxParaphrases results.
func parseParaphrases(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxParaphrases {
			break
		}
	}
	return out
}
