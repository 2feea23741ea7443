package ragline

import "context"

// SearchResult pairs a retrieved chunk with its similarity score under the
// store's configured metric. Scores are non-negative and higher is better;
// their absolute scale is store-defined.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// VectorStore is the durable index of embedded chunks. Implementations persist
// one provenance record per document and one record per chunk, linked by a
// directed belongs-to relationship, so provenance is written once per document
// and document listing never scans chunk payloads.
//
// Concurrent retrievals are safe; ClearData concurrent with reads or writes is
// undefined and must be serialized by the caller.
type VectorStore interface {
	// CreateIndex ensures a similarity-searchable index exists for the
	// configured dimensionality and metric. Idempotent: an underlying
	// "already exists" condition is logged and treated as success.
	CreateIndex(ctx context.Context) error

	// AddBatchChunks persists the chunks grouped by document: for each
	// distinct document name one provenance record is upserted (creation
	// timestamp set only the first time), then one chunk record is created
	// per chunk and linked to it. Safe to call across ingestion runs
	// without clearing first. Writes are per-document, not one
	// pipeline-wide transaction.
	AddBatchChunks(ctx context.Context, chunks []Chunk) error

	// Retrieve returns the k chunks most similar to the embedding,
	// best-first, each joined to its owning document to recover
	// provenance. k must be >= 1; if fewer than k chunks exist, all
	// available are returned. Tie order between equal scores is
	// implementation-defined.
	Retrieve(ctx context.Context, embedding []float32, k int) ([]SearchResult, error)

	// ListDocuments returns the distinct ingested document names.
	ListDocuments(ctx context.Context) ([]string, error)

	// ClearData irreversibly removes all document and chunk records and
	// their relationships. The index definition survives.
	ClearData(ctx context.Context) error

	// Close releases underlying connection resources. Idempotent.
	Close() error
}

// Similarity metrics supported by store configurations.
const (
	SimilarityCosine    = "cosine"
	SimilarityEuclidean = "euclidean"
)
