package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cliniq/models"
)

// NoInformationSentence is emitted verbatim when the context does not contain
// the answer.
const NoInformationSentence = "Les protocoles actuels ne contiennent pas d'information permettant de répondre à cette question."

// EmergencyBanner must open the answer whenever the context carries an
// escalation trigger.
const EmergencyBanner = "🚨 **URGENCE : RÉFÉRER SAMU IMMÉDIATEMENT**"

// EscalationTriggers are the protocol phrases that mandate the emergency
// banner.
var EscalationTriggers = []string{"Référer SAMU", "Urgence Vitale", "Avis spécialisé urgent"}

const clinicalPromptTemplate = `VOUS ÊTES UN EXPERT EN AIDE À LA DÉCISION CLINIQUE (CDSS).
Votre mission est de transformer des extraits de protocoles en une réponse synthétique, lisible et actionnable pour un médecin urgentiste.

CADRE STRICT :
1. BASE DE CONNAISSANCE : Utilisez UNIQUEMENT le contexte fourni. Ne faites appel à aucune connaissance externe.
2. ABSENCE D'INFO : Si le contexte ne contient pas la réponse exacte, dites : "%s"
3. FORMATAGE UI : Évitez les tableaux bruts. Utilisez des titres en gras, des listes à puces aérées et des sauts de ligne clairs.

RÈGLES D'URGENCE (PRIORITÉ ABSOLUE) :
- Si le contexte mentionne "Référer SAMU", "Urgence Vitale", ou "Avis spécialisé urgent", commencez la réponse par la mention "%s" en gras et en rouge (texte).

STRUCTURE DE LA RÉPONSE :
- **Alerte :** (Si applicable)
- **Synthèse Clinique :** Une explication fluide en 2-3 phrases.
- **Actions Immédiates :** Liste à puces des gestes à faire.
- **Points de Vigilance :** Signes de gravité à surveiller.

CONTEXTE MÉDICAL :
%s

QUESTION DU PRATICIEN :
%s

RÉPONSE CLINIQUE (SYNTHÈSE PROFESSIONNELLE) :`

// AnswerGenerator synthesizes the final clinical answer from the reranked
// context under the strict prompt contract. The rules live in the prompt, not
// in post-processing; a failed generation call propagates without retry.
type AnswerGenerator struct {
	llm         TextCompleter
	model       string
	temperature float64
}

func NewAnswerGenerator(llm TextCompleter, model string, temperature float64) *AnswerGenerator {
	return &AnswerGenerator{llm: llm, model: model, temperature: temperature}
}

// Generate concatenates the chunk texts in reranked order as the only
// knowledge source and invokes the generation model.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, chunks []models.Chunk) (string, error) {
	log.Printf("PIPELINE [Phase 4: Génération]: clinical synthesis via %s", g.model)

	answer, err := g.llm.Complete(ctx, g.model, g.temperature, buildClinicalPrompt(question, contextText(chunks)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return answer, nil
}

func buildClinicalPrompt(question, context string) string {
	return fmt.Sprintf(clinicalPromptTemplate, NoInformationSentence, EmergencyBanner, context, question)
}

// contextText joins chunk texts with a blank line, preserving reranked order.
func contextText(chunks []models.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}

// ContainsEscalationTrigger reports whether any chunk carries an escalation
// phrase. Exposed for callers that audit the emergency-banner contract.
func ContainsEscalationTrigger(chunks []models.Chunk) bool {
	for _, c := range chunks {
		for _, trigger := range EscalationTriggers {
			if strings.Contains(c.Text, trigger) {
				return true
			}
		}
	}
	return false
}
