package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/log"
)

// Config configures an OpenAI-compatible Client.
type Config struct {
	// BaseURL overrides the API endpoint, e.g. "http://localhost:11434/v1"
	// for Ollama. Empty selects the OpenAI default.
	BaseURL string

	// APIKey authenticates against the endpoint. Local servers usually
	// accept any value; the hosted API requires a real key.
	APIKey string

	// Model is the chat model identifier, e.g. "gpt-4o-mini" or "phi3".
	Model string

	// EmbeddingModel is the embedding model identifier, e.g.
	// "text-embedding-3-small" or "nomic-embed-text".
	EmbeddingModel string

	// Temperature for chat completions.
	Temperature float32
}

// Validate rejects configurations that cannot serve either provider role.
func (c *Config) Validate() error {
	if c.Model == "" && c.EmbeddingModel == "" {
		return fmt.Errorf("%w: at least one of model or embedding model is required", ragline.ErrInput)
	}
	if c.APIKey == "" && c.BaseURL == "" {
		return fmt.Errorf("%w: api key is required for the hosted endpoint", ragline.ErrInput)
	}
	return nil
}

// Client implements both LanguageModelProvider and EmbeddingProvider against
// an OpenAI-compatible API.
type Client struct {
	api *openai.Client
	cfg Config
}

var (
	_ ragline.LanguageModelProvider = (*Client)(nil)
	_ ragline.EmbeddingProvider     = (*Client)(nil)
)

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(apiCfg), cfg: cfg}, nil
}

// Chat sends the messages and returns the complete response text.
func (c *Client) Chat(ctx context.Context, messages []ragline.Message) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages:    toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ragline.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion response", ragline.ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamChat sends the messages and returns a channel of text deltas. The
// channel is closed when the stream completes, fails, or ctx is cancelled;
// cancellation also closes the underlying connection.
func (c *Client) StreamChat(ctx context.Context, messages []ragline.Message) (<-chan string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages:    toOpenAIMessages(messages),
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening completion stream: %v", ragline.ErrProvider, err)
	}

	out := make(chan string, 100)
	go func() {
		defer close(out)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() == nil {
					log.Error("reading completion stream: %v", err)
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- delta:
			}
		}
	}()
	return out, nil
}

// EmbedQuery embeds a single query text.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order, one vector per input.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating embeddings: %v", ragline.ErrProvider, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: embedding response has %d vectors for %d texts", ragline.ErrProvider, len(resp.Data), len(texts))
	}

	// The API reports an index per vector; respect it rather than assuming
	// response order.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding response index %d out of range", ragline.ErrProvider, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

func toOpenAIMessages(messages []ragline.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		var role string
		switch m.Role {
		case ragline.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case ragline.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
