package ragline

import "fmt"

// Chunk is the smallest retrievable unit of grounding text. It carries the
// provenance of the passage and, once the ingestion pipeline has run, the
// embedding vector used for similarity search. Chunks are value-like: after
// they reach a VectorStore they are never mutated, only removed by a
// store-wide clear.
type Chunk struct {
	Text         string
	DocumentName string
	DocumentPath string
	Page         string
	Embedding    []float32
}

// PageFragment is the intermediate unit produced by the ingestion front-end:
// the raw text of one page (or page-less unit) of a source document, plus the
// provenance metadata every fragment must carry. Fragments are consumed by the
// document loader and never persisted.
type PageFragment struct {
	Text         string
	DocumentName string
	DocumentPath string
	Page         string
}

// Validate reports whether the fragment carries the metadata the pipeline
// requires. A fragment without a document name or path cannot produce
// attributable chunks, so this is a fatal input error rather than something
// to default around. Page may be empty for page-less sources.
func (f PageFragment) Validate() error {
	if f.DocumentName == "" {
		return fmt.Errorf("%w: page fragment missing document name", ErrInput)
	}
	if f.DocumentPath == "" {
		return fmt.Errorf("%w: page fragment %q missing document path", ErrInput, f.DocumentName)
	}
	return nil
}
