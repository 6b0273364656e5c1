package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandKeepsOriginalQuestionFirst(t *testing.T) {
	llm := &fakeCompleter{response: "Quelle est la dose d'adrénaline en cas de choc ?\nPosologie adrénaline IM adulte ?"}
	expander := NewQueryExpander(llm, "test-model", 0.3)

	result := expander.Expand(context.Background(), "Dose d'adrénaline pour un choc anaphylactique ?")

	require.False(t, result.Degraded)
	require.Len(t, result.Queries, 3)
	assert.Equal(t, "Dose d'adrénaline pour un choc anaphylactique ?", result.Queries[0])
	assert.Equal(t, "Quelle est la dose d'adrénaline en cas de choc ?", result.Queries[1])
	assert.Equal(t, "Posologie adrénaline IM adulte ?", result.Queries[2])
}

func TestExpandTrimsAndDropsBlankLines(t *testing.T) {
	llm := &fakeCompleter{response: "\n  Première reformulation  \n\n\nDeuxième reformulation\nTroisième en trop\n"}
	expander := NewQueryExpander(llm, "test-model", 0.3)

	result := expander.Expand(context.Background(), "Question ?")

	require.Len(t, result.Queries, 3)
	assert.Equal(t, "Première reformulation", result.Queries[1])
	assert.Equal(t, "Deuxième reformulation", result.Queries[2])
}

func TestExpandDegradesOnCompleterError(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("model unavailable")}
	expander := NewQueryExpander(llm, "test-model", 0.3)

	result := expander.Expand(context.Background(), "Question ?")

	assert.True(t, result.Degraded)
	assert.Error(t, result.Err)
	assert.Equal(t, []string{"Question ?"}, result.Queries)
}

func TestExpandDegradesOnEmptyOutput(t *testing.T) {
	llm := &fakeCompleter{response: "   \n\n  "}
	expander := NewQueryExpander(llm, "test-model", 0.3)

	result := expander.Expand(context.Background(), "Question ?")

	assert.True(t, result.Degraded)
	assert.Equal(t, []string{"Question ?"}, result.Queries)
}

func TestExpandPromptContainsQuestion(t *testing.T) {
	llm := &fakeCompleter{response: "r1\nr2"}
	expander := NewQueryExpander(llm, "expansion-model", 0.3)

	expander.Expand(context.Background(), "Conduite à tenir devant une fièvre ?")

	assert.Equal(t, "expansion-model", llm.lastModel)
	assert.Contains(t, llm.lastPrompt, "Conduite à tenir devant une fièvre ?")
}
