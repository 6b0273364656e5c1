package services

import (
	"fmt"
	"regexp"
	"strings"

	"cliniq/models"
)

// DefaultService is the department label carried by chunks until the first
// qualifying heading is seen.
const DefaultService = "Général"

// defaultServiceKeywords classify a level-2 heading as a department boundary
// when its uppercased text contains one of them.
var defaultServiceKeywords = []string{"PÉDIATRIE", "DENTAIRE", "MÉDECINE", "URGENCE"}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Segmenter converts a heading-structured markdown document into semantically
// tagged chunks. Splitting happens strictly on level-2 headings, heading lines
// preserved at the start of each block.
type Segmenter struct {
	serviceKeywords []string
}

func NewSegmenter() *Segmenter {
	return &Segmenter{serviceKeywords: defaultServiceKeywords}
}

// Segment walks the document in order and emits one chunk per block. The
// service label is sticky: it changes only when a block's heading matches a
// service keyword, and every chunk inherits the label active at its position.
// Same document in, byte-identical chunk sequence out.
func (s *Segmenter) Segment(markdown, source string) []models.Chunk {
	blocks := splitOnLevel2Headings(markdown)

	chunks := make([]models.Chunk, 0, len(blocks))
	currentService := DefaultService

	for _, block := range blocks {
		section := block.heading
		if s.isServiceHeading(section) {
			currentService = section
		}

		text := fmt.Sprintf("DOMAINE: %s\nSUJET: %s\n---\n%s", currentService, section, block.text)
		text = blankRunRe.ReplaceAllString(text, "\n\n")

		chunks = append(chunks, models.Chunk{
			Text:    text,
			Section: section,
			Service: currentService,
			Source:  source,
		})
	}
	return chunks
}

func (s *Segmenter) isServiceHeading(heading string) bool {
	upper := strings.ToUpper(heading)
	for _, kw := range s.serviceKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

type headingBlock struct {
	heading string
	text    string
}

// splitOnLevel2Headings cuts the document at every "## " line. Content before
// the first heading becomes a headingless block unless it is blank; heading
// lines stay inside their block's text.
func splitOnLevel2Headings(markdown string) []headingBlock {
	lines := strings.Split(markdown, "\n")

	var blocks []headingBlock
	var current []string
	currentHeading := ""
	started := false

	flush := func() {
		text := strings.TrimRight(strings.Join(current, "\n"), "\n \t")
		if !started && strings.TrimSpace(text) == "" {
			return
		}
		blocks = append(blocks, headingBlock{heading: currentHeading, text: text})
	}

	for _, line := range lines {
		if isLevel2Heading(line) {
			if started || len(current) > 0 {
				flush()
			}
			started = true
			currentHeading = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "##"))
			current = []string{line}
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func isLevel2Heading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "##") {
		return false
	}
	// "###" and deeper stay inside their parent block.
	rest := strings.TrimPrefix(trimmed, "##")
	return rest == "" || strings.HasPrefix(rest, " ")
}
