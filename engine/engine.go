// Package engine orchestrates retrieval-augmented generation: it retrieves
// grounding chunks for a prompt, assembles the chat input, and dispatches to
// a language model either synchronously or as a token stream, always
// returning the supporting chunks alongside the answer.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/log"
)

// DefaultLanguage is the corpus's native language. Prompts in any other
// configured language are translated to it before retrieval.
const DefaultLanguage = "english"

// DefaultNumChunks is the number of grounding chunks retrieved per prompt.
const DefaultNumChunks = 5

const contextPromptTemplate = `
Use the following pieces of context to answer the users question.

%s

If you don't know the answer, just say that you "don't have information", only that and nothing more.
Keep the answer concise and to the point.`

const basePrompt = `
If you don't know the answer, just say that you don't know, don't try to make up an answer.`

// ChunkRetriever is the retrieval capability the engine depends on.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]ragline.Chunk, error)
}

// Engine holds the static configuration for generation. Each Generate or
// GenerateStream call is independent; no state is carried across calls.
type Engine struct {
	retriever ChunkRetriever
	model     ragline.LanguageModelProvider
	numChunks int
	language  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel sets the language model. Without one, Generate returns an empty
// answer alongside the retrieved chunks.
func WithModel(model ragline.LanguageModelProvider) Option {
	return func(e *Engine) { e.model = model }
}

// WithNumChunks sets how many grounding chunks are retrieved per prompt.
func WithNumChunks(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.numChunks = n
		}
	}
}

// WithLanguage sets the language user prompts arrive in. Anything other than
// DefaultLanguage makes the engine translate prompts before retrieval so the
// similarity search runs in the corpus language.
func WithLanguage(language string) Option {
	return func(e *Engine) {
		if language != "" {
			e.language = strings.ToLower(language)
		}
	}
}

// New creates an Engine over the given retriever.
func New(retriever ChunkRetriever, opts ...Option) *Engine {
	e := &Engine{
		retriever: retriever,
		numChunks: DefaultNumChunks,
		language:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate answers the prompt, grounded in retrieved chunks when useRAG is
// set, and returns the answer together with the chunks used for context. The
// chunk list is empty when useRAG is false. Without a configured model the
// answer is empty but retrieval still runs.
func (e *Engine) Generate(ctx context.Context, prompt string, history []ragline.Message, useRAG bool) (string, []ragline.Chunk, error) {
	effective, err := e.effectivePrompt(ctx, prompt)
	if err != nil {
		return "", nil, err
	}

	contextBlock, chunks, err := e.prepareContext(ctx, effective, useRAG)
	if err != nil {
		return "", nil, err
	}
	if e.model == nil {
		return "", chunks, nil
	}

	answer, err := e.model.Chat(ctx, buildMessages(contextBlock, history, effective))
	if err != nil {
		return "", nil, err
	}
	return answer, chunks, nil
}

// GenerateStream is Generate with incremental output: it returns a channel of
// text deltas whose concatenation is the full answer. The channel is closed
// when generation completes, fails, or ctx is cancelled. The supporting
// chunks are the same as an equivalent Generate call would return.
func (e *Engine) GenerateStream(ctx context.Context, prompt string, history []ragline.Message, useRAG bool) (<-chan string, []ragline.Chunk, error) {
	if e.model == nil {
		return nil, nil, fmt.Errorf("%w: no language model configured for streaming", ragline.ErrInput)
	}

	effective, err := e.effectivePrompt(ctx, prompt)
	if err != nil {
		return nil, nil, err
	}

	contextBlock, chunks, err := e.prepareContext(ctx, effective, useRAG)
	if err != nil {
		return nil, nil, err
	}

	stream, err := e.model.StreamChat(ctx, buildMessages(contextBlock, history, effective))
	if err != nil {
		return nil, nil, err
	}
	return stream, chunks, nil
}

// effectivePrompt translates the prompt into the corpus language when the
// engine is configured for another one. The translation sub-call sees no
// retrieved context and no history.
func (e *Engine) effectivePrompt(ctx context.Context, prompt string) (string, error) {
	if e.language == DefaultLanguage || e.model == nil {
		return prompt, nil
	}

	translated, err := e.model.Chat(ctx, []ragline.Message{{
		Role: ragline.RoleUser,
		Content: fmt.Sprintf("Translate the following text from %s to %s. Reply with the translation only.\n\n%s",
			e.language, DefaultLanguage, prompt),
	}})
	if err != nil {
		return "", err
	}
	log.Debug("translated prompt from %s: %q", e.language, translated)
	return translated, nil
}

func (e *Engine) prepareContext(ctx context.Context, prompt string, useRAG bool) (string, []ragline.Chunk, error) {
	if !useRAG {
		return "", nil, nil
	}

	chunks, err := e.retriever.Retrieve(ctx, prompt, e.numChunks)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		sb.WriteString("Piece of context from document: " + chunk.DocumentName + "\n")
		sb.WriteString(chunk.Text + "\n\n")
	}
	return sb.String(), chunks, nil
}

// buildMessages assembles the chat input: prior history, then exactly one
// system message (context-grounded if context exists, the base instruction
// only when the conversation would otherwise start empty), then the user
// prompt.
func buildMessages(contextBlock string, history []ragline.Message, prompt string) []ragline.Message {
	messages := make([]ragline.Message, 0, len(history)+2)
	messages = append(messages, history...)
	if contextBlock != "" {
		messages = append(messages, ragline.Message{
			Role:    ragline.RoleSystem,
			Content: fmt.Sprintf(contextPromptTemplate, contextBlock),
		})
	}
	if len(messages) == 0 {
		messages = append(messages, ragline.Message{Role: ragline.RoleSystem, Content: basePrompt})
	}
	messages = append(messages, ragline.Message{Role: ragline.RoleUser, Content: prompt})
	return messages
}

// Citation renders a chunk's provenance for display alongside an answer.
func Citation(c ragline.Chunk) string {
	if c.Page == "" {
		return c.DocumentName
	}
	return fmt.Sprintf("%s (page %s)", c.DocumentName, c.Page)
}
