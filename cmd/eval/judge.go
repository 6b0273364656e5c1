package main

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"cliniq/services"
)

const judgePromptTemplate = `You are a specialized JSON generator. Respond ONLY with a valid JSON object. No prose.

Evaluate the candidate answer to a clinical question against the expected answer.
Return: {"faithfulness": <0..1>, "answer_relevance": <0..1>, "reason": "<one sentence>"}

QUESTION:
%s

EXPECTED ANSWER:
%s

CANDIDATE ANSWER:
%s`

// judgeMaxAttempts bounds retries on rate-limit-class errors. The serving
// pipeline has no retry policy; this one is local to evaluation.
const judgeMaxAttempts = 3

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

type judgeScores struct {
	Faithfulness    float64 `json:"faithfulness"`
	AnswerRelevance float64 `json:"answer_relevance"`
	Reason          string  `json:"reason"`
}

type judge struct {
	llm   services.TextCompleter
	model string
}

func newJudge(llm services.TextCompleter, model string) *judge {
	return &judge{llm: llm, model: model}
}

// Score asks the judge model for metric scores, retrying with exponential
// backoff when the provider rate-limits, up to judgeMaxAttempts attempts.
func (j *judge) Score(ctx context.Context, question, expected, actual string) (*judgeScores, error) {
	prompt := fmt.Sprintf(judgePromptTemplate, question, expected, actual)

	var raw string
	operation := func() error {
		out, err := j.llm.Complete(ctx, j.model, 0, prompt)
		if err != nil {
			if isRateLimit(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		raw = out
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), judgeMaxAttempts-1)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	return parseScores(raw)
}

// parseScores extracts the first JSON object from the model output; judge
// models occasionally wrap it in code fences.
func parseScores(raw string) (*judgeScores, error) {
	match := jsonObjectRe.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("judge returned no JSON object: %q", raw)
	}
	var scores judgeScores
	if err := json.Unmarshal([]byte(match), &scores); err != nil {
		return nil, fmt.Errorf("judge returned invalid JSON: %w", err)
	}
	return &scores, nil
}

func isRateLimit(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "rate limit")
}
