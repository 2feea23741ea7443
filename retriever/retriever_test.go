package retriever

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/store"
)

// positionEmbedder returns a vector encoding each text's batch position, so
// tests can verify chunk-embedding pairing.
type positionEmbedder struct {
	dims       int
	queryVec   []float32
	failBatch  bool
	shortBatch bool
	batchCalls int
}

func (e *positionEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.queryVec != nil {
		return e.queryVec, nil
	}
	return make([]float32, e.dims), nil
}

func (e *positionEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	if e.failBatch {
		return nil, ragline.ErrProvider
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, e.dims)
		out[i][0] = float32(i + 1)
	}
	if e.shortBatch && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// recordingStore captures the call sequence made by the ingestion pipeline.
type recordingStore struct {
	calls  []string
	added  []ragline.Chunk
	docs   []string
	result []ragline.SearchResult
}

func (s *recordingStore) CreateIndex(ctx context.Context) error {
	s.calls = append(s.calls, "CreateIndex")
	return nil
}

func (s *recordingStore) AddBatchChunks(ctx context.Context, chunks []ragline.Chunk) error {
	s.calls = append(s.calls, "AddBatchChunks")
	s.added = append(s.added, chunks...)
	return nil
}

func (s *recordingStore) Retrieve(ctx context.Context, embedding []float32, k int) ([]ragline.SearchResult, error) {
	s.calls = append(s.calls, "Retrieve")
	if len(s.result) > k {
		return s.result[:k], nil
	}
	return s.result, nil
}

func (s *recordingStore) ListDocuments(ctx context.Context) ([]string, error) {
	s.calls = append(s.calls, "ListDocuments")
	return s.docs, nil
}

func (s *recordingStore) ClearData(ctx context.Context) error {
	s.calls = append(s.calls, "ClearData")
	return nil
}

func (s *recordingStore) Close() error { return nil }

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"),
		[]byte("Paris is the capital of France. The Seine crosses the city."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"),
		[]byte("Berlin is the capital of Germany."), 0o644))
	return dir
}

func TestLoadDataSources(t *testing.T) {
	ctx := context.Background()

	t.Run("pipeline pairs chunks and embeddings by position", func(t *testing.T) {
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2})

		require.NoError(t, r.LoadDataSources(ctx, []string{writeCorpus(t)}))
		require.NotEmpty(t, rec.added)
		for i, c := range rec.added {
			assert.Equal(t, float32(i+1), c.Embedding[0], "chunk %d carries the wrong vector", i)
		}
		assert.Equal(t, []string{"AddBatchChunks"}, rec.calls)
	})

	t.Run("reset clears after embed and before write", func(t *testing.T) {
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2})

		require.NoError(t, r.LoadDataSources(ctx, []string{writeCorpus(t)}, WithReset()))
		assert.Equal(t, []string{"ClearData", "AddBatchChunks"}, rec.calls)
	})

	t.Run("embed failure aborts before any write", func(t *testing.T) {
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2, failBatch: true})

		err := r.LoadDataSources(ctx, []string{writeCorpus(t)}, WithReset())
		assert.ErrorIs(t, err, ragline.ErrProvider)
		assert.Empty(t, rec.calls)
	})

	t.Run("short embedding batch is a provider error, no write", func(t *testing.T) {
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2, shortBatch: true})

		err := r.LoadDataSources(ctx, []string{writeCorpus(t)})
		assert.ErrorIs(t, err, ragline.ErrProvider)
		assert.Empty(t, rec.calls)
	})

	t.Run("single file path", func(t *testing.T) {
		dir := writeCorpus(t)
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2})

		require.NoError(t, r.LoadDataSources(ctx, []string{filepath.Join(dir, "a.txt")}))
		require.NotEmpty(t, rec.added)
		for _, c := range rec.added {
			assert.Equal(t, "a.txt", c.DocumentName)
		}
	})

	t.Run("missing path is an input error", func(t *testing.T) {
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2})

		err := r.LoadDataSources(ctx, []string{"/nonexistent/corpus"})
		assert.ErrorIs(t, err, ragline.ErrInput)
	})

	t.Run("empty corpus indexes nothing", func(t *testing.T) {
		rec := &recordingStore{}
		r := New(rec, &positionEmbedder{dims: 2})

		require.NoError(t, r.LoadDataSources(ctx, []string{t.TempDir()}))
		assert.Empty(t, rec.calls)
	})
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	mem, err := store.NewMemoryStore(store.MemoryConfig{Dimensions: 2})
	require.NoError(t, err)
	require.NoError(t, mem.AddBatchChunks(ctx, []ragline.Chunk{
		{Text: "on target", DocumentName: "a.txt", DocumentPath: "/a.txt", Embedding: []float32{1, 0}},
		{Text: "off target", DocumentName: "a.txt", DocumentPath: "/a.txt", Embedding: []float32{0, 1}},
	}))

	r := New(mem, &positionEmbedder{dims: 2, queryVec: []float32{1, 0}})

	t.Run("best match first, scores discarded", func(t *testing.T) {
		chunks, err := r.Retrieve(ctx, "anything", 2)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "on target", chunks[0].Text)
	})

	t.Run("result length bounded by k", func(t *testing.T) {
		chunks, err := r.Retrieve(ctx, "anything", 1)
		require.NoError(t, err)
		assert.Len(t, chunks, 1)
	})

	t.Run("non-positive k falls back to the default", func(t *testing.T) {
		chunks, err := r.Retrieve(ctx, "anything", 0)
		require.NoError(t, err)
		assert.Len(t, chunks, 2)
	})
}

func TestListDataSources(t *testing.T) {
	rec := &recordingStore{docs: []string{"a.txt", "b.txt"}}
	r := New(rec, &positionEmbedder{dims: 2})

	names, err := r.ListDataSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}
