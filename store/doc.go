// Package store provides the vector store implementations used by the
// retrieval pipeline.
//
// Three backends are available:
//
//   - FalkorStore persists chunks in a FalkorDB property graph over the Redis
//     protocol, using the database's native vector index for similarity
//     search. Document provenance nodes and chunk nodes are linked by a
//     BELONGS_TO_DOCUMENT relationship.
//   - PgVectorStore persists chunks in PostgreSQL with the pgvector
//     extension, using the same document/chunk split as two relational
//     tables.
//   - MemoryStore keeps everything in process memory with brute-force
//     similarity search. Intended for tests and small corpora.
//
// All three satisfy the ragline.VectorStore contract.
package store
