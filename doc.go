// Package ragline is a retrieval-augmented generation pipeline: it segments
// documents into overlap-stitched chunks, indexes their embeddings in a
// pluggable vector store, and grounds language model answers in the best
// matching chunks, returned alongside every answer as provenance.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/ragline/ragline
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/ragline/ragline/engine"
//		"github.com/ragline/ragline/llm"
//		"github.com/ragline/ragline/retriever"
//		"github.com/ragline/ragline/store"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		client, _ := llm.NewClient(llm.Config{
//			APIKey:         "sk-...",
//			Model:          "gpt-4o-mini",
//			EmbeddingModel: "text-embedding-3-small",
//		})
//
//		vs, _ := store.NewFalkorStore(store.FalkorConfig{
//			Addr:       "localhost:6379",
//			Dimensions: 1536,
//		})
//		defer vs.Close()
//		_ = vs.CreateIndex(ctx)
//
//		r := retriever.New(vs, client)
//		_ = r.LoadDataSources(ctx, []string{"./docs"}, retriever.WithOverlapPages())
//
//		e := engine.New(r, engine.WithModel(client))
//		answer, chunks, _ := e.Generate(ctx, "What changed in Q3?", nil, true)
//		fmt.Println(answer)
//		for _, c := range chunks {
//			fmt.Println("source:", engine.Citation(c))
//		}
//	}
//
// # Packages
//
//   - loader: document parsing, page overlap stitching and chunk splitting
//   - store: FalkorDB, pgvector and in-memory vector stores
//   - llm: OpenAI-compatible and langchaingo-backed providers
//   - retriever: the ingestion and query bridge between providers and stores
//   - engine: prompt assembly, optional query translation, sync and
//     streaming generation
//   - log: the leveled logging shared by all of the above
//
// The root package holds only the shared types and interfaces; every
// subpackage depends on it and not on each other's internals.
package ragline
