package store

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/log"
)

const (
	defaultGraphName  = "ragline"
	documentLabel     = "Document"
	chunkLabel        = "Chunk"
	chunkRelationship = "BELONGS_TO_DOCUMENT"
	embeddingProperty = "embedding"
)

// FalkorConfig configures a FalkorStore.
type FalkorConfig struct {
	// Addr is the host:port of the FalkorDB server.
	Addr     string
	Username string
	Password string

	// GraphName selects the graph to operate on. Defaults to "ragline".
	GraphName string

	// Dimensions is the embedding vector length the index is built for.
	Dimensions int

	// Similarity is the index metric: ragline.SimilarityCosine (default) or
	// ragline.SimilarityEuclidean.
	Similarity string
}

// Validate normalizes defaults and rejects unusable configurations. Unknown
// similarity metrics fail here, not at first query.
func (c *FalkorConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: falkordb address is required", ragline.ErrInput)
	}
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
	if c.GraphName == "" {
		c.GraphName = defaultGraphName
	}
	return nil
}

// FalkorStore persists chunks as a property graph in FalkorDB: one Document
// node per source document linked from its Chunk nodes, with similarity
// search served by the database's native vector index.
type FalkorStore struct {
	client redis.UniversalClient
	graph  graph
	cfg    FalkorConfig
}

var _ ragline.VectorStore = (*FalkorStore)(nil)

// NewFalkorStore connects to FalkorDB and returns a store. The connection is
// long-lived; release it with Close.
func NewFalkorStore(cfg FalkorConfig) (*FalkorStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	return &FalkorStore{
		client: client,
		graph:  graph{name: cfg.GraphName, conn: client},
		cfg:    cfg,
	}, nil
}

// CreateIndex ensures the vector index over Chunk embeddings exists.
// An "already indexed" reply from the server is treated as success.
func (s *FalkorStore) CreateIndex(ctx context.Context) error {
	q := fmt.Sprintf(
		"CREATE VECTOR INDEX FOR (c:%s) ON (c.%s) OPTIONS {dimension: %d, similarityFunction: '%s'}",
		chunkLabel, embeddingProperty, s.cfg.Dimensions, s.cfg.Similarity)

	if _, err := s.graph.query(ctx, q); err != nil {
		if indexExists(err) {
			log.Debug("vector index on %s.%s already exists", chunkLabel, embeddingProperty)
			return nil
		}
		log.Error("creating vector index: %v", err)
		return fmt.Errorf("%w: creating vector index: %v", ragline.ErrStore, err)
	}
	log.Info("created vector index on %s.%s (%d dimensions, %s)",
		chunkLabel, embeddingProperty, s.cfg.Dimensions, s.cfg.Similarity)
	return nil
}

func indexExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already indexed") || strings.Contains(msg, "already exists")
}

// AddBatchChunks writes chunks grouped by document: the Document node is
// merged first (creation timestamp set only on first ingestion), then each
// chunk is created and linked to it. Writes are per-document, not one
// transaction over the whole batch.
func (s *FalkorStore) AddBatchChunks(ctx context.Context, chunks []ragline.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) != s.cfg.Dimensions {
			return fmt.Errorf("%w: chunk from %q has embedding length %d, store expects %d",
				ragline.ErrDimensionMismatch, c.DocumentName, len(c.Embedding), s.cfg.Dimensions)
		}
	}

	order := make([]string, 0, len(chunks))
	byDoc := make(map[string][]ragline.Chunk)
	for _, c := range chunks {
		if _, ok := byDoc[c.DocumentName]; !ok {
			order = append(order, c.DocumentName)
		}
		byDoc[c.DocumentName] = append(byDoc[c.DocumentName], c)
	}

	for _, name := range order {
		docChunks := byDoc[name]
		if err := s.upsertDocument(ctx, name, docChunks[0].DocumentPath); err != nil {
			return err
		}
		for _, chunk := range docChunks {
			if err := s.addChunk(ctx, chunk); err != nil {
				return err
			}
		}
		log.Debug("indexed %d chunks for document %s", len(docChunks), name)
	}
	return nil
}

func (s *FalkorStore) upsertDocument(ctx context.Context, name, path string) error {
	q := fmt.Sprintf(
		"MERGE (d:%s {name: '%s'}) ON CREATE SET d.link = '%s', d.createdAt = timestamp()",
		documentLabel, escapeString(name), escapeString(path))

	if _, err := s.graph.query(ctx, q); err != nil {
		return fmt.Errorf("%w: upserting document %q: %v", ragline.ErrStore, name, err)
	}
	return nil
}

func (s *FalkorStore) addChunk(ctx context.Context, chunk ragline.Chunk) error {
	q := fmt.Sprintf(
		"MATCH (d:%s {name: '%s'}) "+
			"CREATE (c:%s {id: '%s', text: '%s', page: '%s', %s: %s}) "+
			"CREATE (c)-[:%s]->(d)",
		documentLabel, escapeString(chunk.DocumentName),
		chunkLabel, uuid.NewString(), escapeString(chunk.Text), escapeString(chunk.Page),
		embeddingProperty, formatVector(chunk.Embedding),
		chunkRelationship)

	if _, err := s.graph.query(ctx, q); err != nil {
		return fmt.Errorf("%w: adding chunk to %q: %v", ragline.ErrStore, chunk.DocumentName, err)
	}
	return nil
}

// Retrieve queries the vector index for the k nearest chunks and joins each
// hit to its owning Document node for provenance. Results are ordered
// best-first; the returned score is a similarity, not the raw index distance.
func (s *FalkorStore) Retrieve(ctx context.Context, embedding []float32, k int) ([]ragline.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", ragline.ErrInput, k)
	}
	if len(embedding) != s.cfg.Dimensions {
		return nil, fmt.Errorf("%w: query embedding length %d, store expects %d",
			ragline.ErrDimensionMismatch, len(embedding), s.cfg.Dimensions)
	}

	q := fmt.Sprintf(
		"CALL db.idx.vector.queryNodes('%s', '%s', %d, %s) YIELD node, score "+
			"MATCH (node)-[:%s]->(d:%s) "+
			"RETURN node.text, node.page, node.%s, d.name, d.link, score "+
			"ORDER BY score",
		chunkLabel, embeddingProperty, k, formatVector(embedding),
		chunkRelationship, documentLabel, embeddingProperty)

	qr, err := s.graph.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %v", ragline.ErrStore, err)
	}

	results := make([]ragline.SearchResult, 0, len(qr.Rows))
	for _, row := range qr.Rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("%w: malformed search row with %d columns", ragline.ErrStore, len(row))
		}
		distance, err := asFloat(row[5])
		if err != nil {
			return nil, fmt.Errorf("%w: decoding score: %v", ragline.ErrStore, err)
		}
		results = append(results, ragline.SearchResult{
			Chunk: ragline.Chunk{
				Text:         asString(row[0]),
				Page:         asString(row[1]),
				Embedding:    parseVector(row[2]),
				DocumentName: asString(row[3]),
				DocumentPath: asString(row[4]),
			},
			Score: s.similarity(distance),
		})
	}
	return results, nil
}

// similarity converts the index's distance into a higher-is-better score.
// Cosine distance ranges up to 2 for anti-correlated vectors; the score is
// clamped so callers always see non-negative similarities.
func (s *FalkorStore) similarity(distance float64) float64 {
	if s.cfg.Similarity == ragline.SimilarityEuclidean {
		return 1 / (1 + distance)
	}
	return math.Max(0, 1-distance)
}

// ListDocuments returns the names of all ingested documents.
func (s *FalkorStore) ListDocuments(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf("MATCH (d:%s) RETURN d.name ORDER BY d.name", documentLabel)
	qr, err := s.graph.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %v", ragline.ErrStore, err)
	}

	names := make([]string, 0, len(qr.Rows))
	for _, row := range qr.Rows {
		if len(row) > 0 {
			names = append(names, asString(row[0]))
		}
	}
	return names, nil
}

// ClearData deletes every node and relationship in the graph. The vector
// index definition survives.
func (s *FalkorStore) ClearData(ctx context.Context) error {
	if _, err := s.graph.query(ctx, "MATCH (n) DETACH DELETE n"); err != nil {
		return fmt.Errorf("%w: clearing data: %v", ragline.ErrStore, err)
	}
	log.Info("cleared all documents and chunks from graph %s", s.cfg.GraphName)
	return nil
}

// Close releases the underlying connection. Safe to call more than once.
func (s *FalkorStore) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
