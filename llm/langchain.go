package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/log"
)

// LangChainModel adapts a langchaingo llms.Model to the
// LanguageModelProvider interface.
type LangChainModel struct {
	model llms.Model
}

var _ ragline.LanguageModelProvider = (*LangChainModel)(nil)

// NewLangChainModel wraps an existing langchaingo model.
func NewLangChainModel(model llms.Model) *LangChainModel {
	return &LangChainModel{model: model}
}

// Chat sends the messages and returns the complete response text.
func (m *LangChainModel) Chat(ctx context.Context, messages []ragline.Message) (string, error) {
	resp, err := m.model.GenerateContent(ctx, toLangChainMessages(messages))
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ragline.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion response", ragline.ErrProvider)
	}
	return resp.Choices[0].Content, nil
}

// StreamChat sends the messages and returns a channel of text deltas. The
// channel is closed when the response completes, fails, or ctx is cancelled.
func (m *LangChainModel) StreamChat(ctx context.Context, messages []ragline.Message) (<-chan string, error) {
	content := toLangChainMessages(messages)
	out := make(chan string, 100)

	go func() {
		defer close(out)

		_, err := m.model.GenerateContent(ctx, content,
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case out <- string(chunk):
					return nil
				}
			}))
		if err != nil && ctx.Err() == nil {
			log.Error("streaming chat: %v", err)
		}
	}()

	return out, nil
}

func toLangChainMessages(messages []ragline.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role schema.ChatMessageType
		switch m.Role {
		case ragline.RoleSystem:
			role = schema.ChatMessageTypeSystem
		case ragline.RoleAssistant:
			role = schema.ChatMessageTypeAI
		default:
			role = schema.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

// LangChainEmbedder adapts a langchaingo embeddings.Embedder to the
// EmbeddingProvider interface.
type LangChainEmbedder struct {
	embedder embeddings.Embedder
}

var _ ragline.EmbeddingProvider = (*LangChainEmbedder)(nil)

// NewLangChainEmbedder wraps an existing langchaingo embedder.
func NewLangChainEmbedder(embedder embeddings.Embedder) *LangChainEmbedder {
	return &LangChainEmbedder{embedder: embedder}
}

// EmbedQuery embeds a single query text.
func (e *LangChainEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", ragline.ErrProvider, err)
	}
	return vec, nil
}

// EmbedBatch embeds texts in order, one vector per input.
func (e *LangChainEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding batch: %v", ragline.ErrProvider, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts", ragline.ErrProvider, len(vecs), len(texts))
	}
	return vecs, nil
}
