package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragline/ragline"
)

func newTestMemoryStore(t *testing.T, dims int, similarity string) *MemoryStore {
	t.Helper()
	store, err := NewMemoryStore(MemoryConfig{Dimensions: dims, Similarity: similarity})
	require.NoError(t, err)
	require.NoError(t, store.CreateIndex(context.Background()))
	return store
}

func chunkWithEmbedding(text, doc string, embedding []float32) ragline.Chunk {
	return ragline.Chunk{
		Text:         text,
		DocumentName: doc,
		DocumentPath: "/data/" + doc,
		Page:         "1",
		Embedding:    embedding,
	}
}

func TestMemoryConfig_Validate(t *testing.T) {
	cfg := MemoryConfig{Dimensions: 3}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ragline.SimilarityCosine, cfg.Similarity)

	bad := MemoryConfig{Dimensions: 3, Similarity: "dot"}
	assert.ErrorIs(t, bad.Validate(), ragline.ErrInput)

	zero := MemoryConfig{}
	assert.ErrorIs(t, zero.Validate(), ragline.ErrInput)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 3, "")

	chunk := chunkWithEmbedding("the one chunk", "a.txt", []float32{0.3, 0.4, 0.5})
	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{chunk}))

	results, err := store.Retrieve(ctx, chunk.Embedding, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "the one chunk", results[0].Chunk.Text)
	assert.Equal(t, "a.txt", results[0].Chunk.DocumentName)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestMemoryStore_Ranking(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 3, "")

	// Fixed stand-in embeddings: the first chunk points along the query
	// direction, the second points away from it.
	capital := chunkWithEmbedding("Paris is the capital of France.", "A", []float32{1, 0, 0})
	tower := chunkWithEmbedding("The Eiffel Tower is in Paris.", "A", []float32{0.6, 0.8, 0})
	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{tower, capital}))

	results, err := store.Retrieve(ctx, []float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Paris is the capital of France.", results[0].Chunk.Text)
	assert.Equal(t, "The Eiffel Tower is in Paris.", results[1].Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStore_ScoreFloor(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 2, "")

	opposed := chunkWithEmbedding("points the other way", "A", []float32{-1, 0})
	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{opposed}))

	results, err := store.Retrieve(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestMemoryStore_KBounds(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 2, "")

	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{
		chunkWithEmbedding("one", "a.txt", []float32{1, 0}),
		chunkWithEmbedding("two", "a.txt", []float32{0, 1}),
	}))

	t.Run("fewer than k returns all", func(t *testing.T) {
		results, err := store.Retrieve(ctx, []float32{1, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("never more than k", func(t *testing.T) {
		results, err := store.Retrieve(ctx, []float32{1, 0}, 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("k below one is an input error", func(t *testing.T) {
		_, err := store.Retrieve(ctx, []float32{1, 0}, 0)
		assert.ErrorIs(t, err, ragline.ErrInput)
	})
}

func TestMemoryStore_TieBreak(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 2, "")

	// Identical embeddings score identically; insertion order decides.
	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{
		chunkWithEmbedding("first in", "a.txt", []float32{1, 0}),
		chunkWithEmbedding("second in", "a.txt", []float32{1, 0}),
	}))

	results, err := store.Retrieve(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first in", results[0].Chunk.Text)
	assert.Equal(t, "second in", results[1].Chunk.Text)
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 3, "")

	err := store.AddBatchChunks(ctx, []ragline.Chunk{
		chunkWithEmbedding("short", "a.txt", []float32{1, 0}),
	})
	assert.ErrorIs(t, err, ragline.ErrDimensionMismatch)

	_, err = store.Retrieve(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ragline.ErrDimensionMismatch)
}

func TestMemoryStore_ListAndClear(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 2, "")

	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{
		chunkWithEmbedding("a1", "a.txt", []float32{1, 0}),
		chunkWithEmbedding("b1", "b.txt", []float32{0, 1}),
		chunkWithEmbedding("a2", "a.txt", []float32{1, 1}),
	}))

	names, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)

	require.NoError(t, store.ClearData(ctx))

	names, err = store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	results, err := store.Retrieve(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_Euclidean(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore(t, 2, ragline.SimilarityEuclidean)

	require.NoError(t, store.AddBatchChunks(ctx, []ragline.Chunk{
		chunkWithEmbedding("same point", "a.txt", []float32{1, 2}),
		chunkWithEmbedding("far away", "a.txt", []float32{10, -4}),
	}))

	results, err := store.Retrieve(ctx, []float32{1, 2}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "same point", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Less(t, results[1].Score, results[0].Score)
}
