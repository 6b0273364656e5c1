package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cliniq/models"
)

func TestGeneratePromptCarriesContextInOrder(t *testing.T) {
	llm := &fakeCompleter{response: "réponse"}
	generator := NewAnswerGenerator(llm, "gen-model", 0.1)

	chunks := []models.Chunk{chunk("Premier extrait."), chunk("Second extrait.")}
	_, err := generator.Generate(context.Background(), "Question du praticien ?", chunks)
	require.NoError(t, err)

	assert.Equal(t, "gen-model", llm.lastModel)
	assert.Contains(t, llm.lastPrompt, "Premier extrait.\n\nSecond extrait.")
	assert.Contains(t, llm.lastPrompt, "Question du praticien ?")
	assert.Less(t,
		strings.Index(llm.lastPrompt, "Premier extrait."),
		strings.Index(llm.lastPrompt, "Second extrait."),
	)
}

func TestGeneratePromptStatesTheContract(t *testing.T) {
	llm := &fakeCompleter{response: "réponse"}
	generator := NewAnswerGenerator(llm, "gen-model", 0.1)

	_, err := generator.Generate(context.Background(), "Q ?", []models.Chunk{chunk("Extrait.")})
	require.NoError(t, err)

	assert.Contains(t, llm.lastPrompt, NoInformationSentence)
	assert.Contains(t, llm.lastPrompt, EmergencyBanner)
	assert.Contains(t, llm.lastPrompt, "UNIQUEMENT le contexte fourni")
}

func TestGenerateEmergencyBannerProperty(t *testing.T) {
	generator := NewAnswerGenerator(contractCompleter(), "gen-model", 0.1)

	chunks := []models.Chunk{chunk("Choc anaphylactique : Référer SAMU sans délai.")}
	answer, err := generator.Generate(context.Background(), "Que faire devant un choc ?", chunks)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(answer, EmergencyBanner), "got: %q", answer)
}

func TestGenerateNoInformationProperty(t *testing.T) {
	generator := NewAnswerGenerator(contractCompleter(), "gen-model", 0.1)

	answer, err := generator.Generate(context.Background(), "Question hors protocole ?", nil)
	require.NoError(t, err)
	assert.Equal(t, NoInformationSentence, answer)
}

func TestGenerateWrapsCompleterError(t *testing.T) {
	generator := NewAnswerGenerator(&fakeCompleter{err: errors.New("quota exceeded")}, "gen-model", 0.1)

	_, err := generator.Generate(context.Background(), "Q ?", []models.Chunk{chunk("Extrait.")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestContainsEscalationTrigger(t *testing.T) {
	assert.True(t, ContainsEscalationTrigger([]models.Chunk{chunk("En cas d'Urgence Vitale, appeler le 15.")}))
	assert.True(t, ContainsEscalationTrigger([]models.Chunk{chunk("RAS."), chunk("Avis spécialisé urgent requis.")}))
	assert.False(t, ContainsEscalationTrigger([]models.Chunk{chunk("Surveillance simple.")}))
	assert.False(t, ContainsEscalationTrigger(nil))
}
