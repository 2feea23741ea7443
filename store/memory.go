package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/log"
)

// MemoryConfig configures a MemoryStore.
type MemoryConfig struct {
	// Dimensions is the embedding vector length accepted by the store.
	Dimensions int

	// Similarity is ragline.SimilarityCosine (default) or
	// ragline.SimilarityEuclidean.
	Similarity string
}

// Validate normalizes defaults and rejects unusable configurations.
func (c *MemoryConfig) Validate() error {
	if c.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive, got %d", ragline.ErrInput, c.Dimensions)
	}
	switch c.Similarity {
	case "":
		c.Similarity = ragline.SimilarityCosine
	case ragline.SimilarityCosine, ragline.SimilarityEuclidean:
	default:
		return fmt.Errorf("%w: unknown similarity metric %q", ragline.ErrInput, c.Similarity)
	}
	return nil
}

type memoryDocument struct {
	name      string
	path      string
	createdAt time.Time
}

// MemoryStore is an in-process VectorStore with brute-force similarity
// search. Equal scores keep insertion order. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	cfg       MemoryConfig
	documents []memoryDocument
	chunks    []ragline.Chunk
	indexed   bool
}

var _ ragline.VectorStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MemoryStore{cfg: cfg}, nil
}

// CreateIndex marks the store ready. Repeated calls are a no-op.
func (s *MemoryStore) CreateIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed {
		log.Debug("in-memory index already exists")
		return nil
	}
	s.indexed = true
	return nil
}

// AddBatchChunks stores the chunks in insertion order, recording each new
// document the first time it appears.
func (s *MemoryStore) AddBatchChunks(ctx context.Context, chunks []ragline.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) != s.cfg.Dimensions {
			return fmt.Errorf("%w: chunk from %q has embedding length %d, store expects %d",
				ragline.ErrDimensionMismatch, c.DocumentName, len(c.Embedding), s.cfg.Dimensions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if !s.hasDocument(c.DocumentName) {
			s.documents = append(s.documents, memoryDocument{
				name:      c.DocumentName,
				path:      c.DocumentPath,
				createdAt: time.Now(),
			})
		}
		s.chunks = append(s.chunks, c)
	}
	return nil
}

func (s *MemoryStore) hasDocument(name string) bool {
	for _, d := range s.documents {
		if d.name == name {
			return true
		}
	}
	return false
}

// Retrieve scores every stored chunk against the query embedding and returns
// the k best. Ties keep insertion order.
func (s *MemoryStore) Retrieve(ctx context.Context, embedding []float32, k int) ([]ragline.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", ragline.ErrInput, k)
	}
	if len(embedding) != s.cfg.Dimensions {
		return nil, fmt.Errorf("%w: query embedding length %d, store expects %d",
			ragline.ErrDimensionMismatch, len(embedding), s.cfg.Dimensions)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]ragline.SearchResult, 0, len(s.chunks))
	for _, c := range s.chunks {
		results = append(results, ragline.SearchResult{
			Chunk: c,
			Score: s.score(embedding, c.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryStore) score(a, b []float32) float64 {
	if s.cfg.Similarity == ragline.SimilarityEuclidean {
		return 1 / (1 + euclideanDistance(a, b))
	}
	return math.Max(0, cosineSimilarity(a, b))
}

// ListDocuments returns document names in first-ingestion order.
func (s *MemoryStore) ListDocuments(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.documents))
	for i, d := range s.documents {
		names[i] = d.name
	}
	return names, nil
}

// ClearData removes all documents and chunks. The index marker survives.
func (s *MemoryStore) ClearData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.chunks = nil
	return nil
}

// Close is a no-op; the store holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
