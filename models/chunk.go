package models

// Chunk is a segmented, metadata-tagged unit of the protocol document. It is
// both the unit stored in the vector index and the unit handed to the
// generator.
type Chunk struct {
	// Text is the chunk body prefixed with the injected DOMAINE/SUJET header.
	// Chunk identity for deduplication is this exact string.
	Text string `json:"text"`
	// Section is the chunk's own level-2 heading, possibly empty.
	Section string `json:"section"`
	// Service is the sticky department classification active at the chunk's
	// position in the document.
	Service string `json:"service"`
	// Source identifies the originating document.
	Source string `json:"source"`
}

// SourceDescriptor is the metadata of one chunk that fed a generated answer.
type SourceDescriptor struct {
	Section string `json:"section"`
	Service string `json:"service"`
	Source  string `json:"source"`
}

// Descriptor returns the chunk's source metadata without its text.
func (c Chunk) Descriptor() SourceDescriptor {
	return SourceDescriptor{Section: c.Section, Service: c.Service, Source: c.Source}
}
