package passage

import "maps"

// Passage is a retrieved chunk of the regulation (immutable value object).
// Identity for deduplication is the text alone; id and score are provenance
// from the vector index and never drive ranking.
type Passage struct {
	id       string
	text     string
	metadata map[string]string
	score    float64
}

// New creates a Passage. Metadata is copied.
func New(id, text string, metadata map[string]string) Passage {
	return Passage{id: id, text: text, metadata: maps.Clone(metadata)}
}

// Reconstruct creates a Passage carrying the index similarity score.
func Reconstruct(id, text string, metadata map[string]string, score float64) Passage {
	return Passage{id: id, text: text, metadata: maps.Clone(metadata), score: score}
}

// ID returns the index key the passage was loaded from.
func (p Passage) ID() string { return p.id }

// Text returns the passage content.
func (p Passage) Text() string { return p.text }

// Metadata returns a copy of the passage metadata.
func (p Passage) Metadata() map[string]string { return maps.Clone(p.metadata) }

// Score returns the similarity reported by the vector index.
func (p Passage) Score() float64 { return p.score }
