// Package llm provides the embedding and language model providers used by
// the retrieval pipeline.
//
// Client speaks the OpenAI chat and embeddings API, including
// OpenAI-compatible servers such as Ollama via a base URL override.
// LangChainModel and LangChainEmbedder adapt any langchaingo model or
// embedder to the provider interfaces, opening the pipeline to every backend
// langchaingo supports.
package llm
