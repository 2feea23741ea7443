// Package retriever bridges embedding and storage for both the read path
// (query to nearest chunks) and the write path (documents to embedded,
// indexed chunks).
package retriever

import (
	"context"
	"fmt"
	"os"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/loader"
	"github.com/ragline/ragline/log"
)

// DefaultNumChunks is the number of chunks retrieved when the caller does not
// ask for a specific k.
const DefaultNumChunks = 5

// Retriever composes an EmbeddingProvider with a VectorStore.
type Retriever struct {
	store    ragline.VectorStore
	embedder ragline.EmbeddingProvider
}

// New creates a Retriever over the given store and embedder.
func New(store ragline.VectorStore, embedder ragline.EmbeddingProvider) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve embeds the query and returns the k best-matching chunks,
// best-first, scores discarded. k below 1 falls back to DefaultNumChunks.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]ragline.Chunk, error) {
	if k < 1 {
		k = DefaultNumChunks
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	results, err := r.store.Retrieve(ctx, embedding, k)
	if err != nil {
		return nil, err
	}

	chunks := make([]ragline.Chunk, len(results))
	for i, res := range results {
		chunks[i] = res.Chunk
	}
	return chunks, nil
}

// ListDataSources returns the names of the ingested documents.
func (r *Retriever) ListDataSources(ctx context.Context) ([]string, error) {
	return r.store.ListDocuments(ctx)
}

type loadOptions struct {
	overlapPages bool
	overlapRatio float64
	reset        bool
	chunkSize    int
	chunkOverlap int
}

// LoadOption configures LoadDataSources.
type LoadOption func(*loadOptions)

// WithOverlapPages enables page overlap stitching before splitting.
func WithOverlapPages() LoadOption {
	return func(o *loadOptions) { o.overlapPages = true }
}

// WithOverlapRatio sets the fraction of each page borrowed across page
// boundaries. Implies nothing on its own; pair with WithOverlapPages.
func WithOverlapRatio(ratio float64) LoadOption {
	return func(o *loadOptions) { o.overlapRatio = ratio }
}

// WithReset clears the store before writing the new batch.
func WithReset() LoadOption {
	return func(o *loadOptions) { o.reset = true }
}

// WithChunkSize overrides the splitter's maximum chunk length.
func WithChunkSize(size int) LoadOption {
	return func(o *loadOptions) { o.chunkSize = size }
}

// WithChunkOverlap overrides the overlap carried between consecutive chunks.
func WithChunkOverlap(overlap int) LoadOption {
	return func(o *loadOptions) { o.chunkOverlap = overlap }
}

// LoadDataSources runs the ingestion pipeline over the given file or
// directory paths: load, optionally stitch page overlaps, split, batch-embed
// every chunk text in one provider call, then write to the store. An
// embedding failure aborts before any write; with WithReset the store is
// cleared only after a successful embed, immediately before the batch write.
func (r *Retriever) LoadDataSources(ctx context.Context, paths []string, opts ...LoadOption) error {
	cfg := loadOptions{overlapRatio: loader.DefaultOverlapRatio}
	for _, opt := range opts {
		opt(&cfg)
	}

	var loaderOpts []loader.Option
	if cfg.chunkSize > 0 {
		loaderOpts = append(loaderOpts, loader.WithChunkSize(cfg.chunkSize))
	}
	if cfg.chunkOverlap > 0 {
		loaderOpts = append(loaderOpts, loader.WithChunkOverlap(cfg.chunkOverlap))
	}

	l := loader.New(loaderOpts...)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ragline.ErrInput, err)
		}
		if info.IsDir() {
			err = l.LoadDirectory(path)
		} else {
			err = l.LoadFile(path)
		}
		if err != nil {
			return err
		}
	}

	if cfg.overlapPages {
		l.OverlapPages(cfg.overlapRatio, loader.DefaultDelimiters)
	}

	chunks := l.Split()
	if len(chunks) == 0 {
		log.Warn("no chunks produced from %d path(s), nothing to index", len(paths))
		if cfg.reset {
			return r.store.ClearData(ctx)
		}
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: embedding batch returned %d vectors for %d texts",
			ragline.ErrProvider, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if cfg.reset {
		if err := r.store.ClearData(ctx); err != nil {
			return err
		}
	}

	if err := r.store.AddBatchChunks(ctx, chunks); err != nil {
		return err
	}
	log.Info("indexed %d chunks from %d path(s)", len(chunks), len(paths))
	return nil
}
