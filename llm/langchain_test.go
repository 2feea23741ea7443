package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/ragline/ragline"
)

type fakeModel struct {
	response    string
	pieces      []string
	err         error
	gotMessages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	if f.err != nil {
		return nil, f.err
	}

	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}
	if opts.StreamingFunc != nil {
		for _, p := range f.pieces {
			if err := opts.StreamingFunc(ctx, []byte(p)); err != nil {
				return nil, err
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func TestLangChainModel_Chat(t *testing.T) {
	fake := &fakeModel{response: "the answer"}
	model := NewLangChainModel(fake)

	answer, err := model.Chat(context.Background(), []ragline.Message{
		{Role: ragline.RoleSystem, Content: "be helpful"},
		{Role: ragline.RoleUser, Content: "a question"},
		{Role: ragline.RoleAssistant, Content: "a prior answer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	require.Len(t, fake.gotMessages, 3)
	assert.Equal(t, schema.ChatMessageTypeSystem, fake.gotMessages[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, fake.gotMessages[1].Role)
	assert.Equal(t, schema.ChatMessageTypeAI, fake.gotMessages[2].Role)
}

func TestLangChainModel_Chat_Error(t *testing.T) {
	fake := &fakeModel{err: assert.AnError}
	model := NewLangChainModel(fake)

	_, err := model.Chat(context.Background(), []ragline.Message{{Role: ragline.RoleUser, Content: "q"}})
	assert.ErrorIs(t, err, ragline.ErrProvider)
}

func TestLangChainModel_StreamChat(t *testing.T) {
	fake := &fakeModel{response: "stream me", pieces: []string{"str", "eam", " me"}}
	model := NewLangChainModel(fake)

	stream, err := model.StreamChat(context.Background(), []ragline.Message{{Role: ragline.RoleUser, Content: "q"}})
	require.NoError(t, err)

	var got string
	for delta := range stream {
		got += delta
	}
	assert.Equal(t, "stream me", got)
}

type fakeEmbedder struct {
	dims int
	err  error
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dims)
		out[i][0] = float32(i + 1)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dims), nil
}

func TestLangChainEmbedder(t *testing.T) {
	embedder := NewLangChainEmbedder(&fakeEmbedder{dims: 3})

	t.Run("query", func(t *testing.T) {
		vec, err := embedder.EmbedQuery(context.Background(), "q")
		require.NoError(t, err)
		assert.Len(t, vec, 3)
	})

	t.Run("batch preserves order", func(t *testing.T) {
		vecs, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, vecs, 2)
		assert.Equal(t, float32(1), vecs[0][0])
		assert.Equal(t, float32(2), vecs[1][0])
	})

	t.Run("errors wrap the provider kind", func(t *testing.T) {
		failing := NewLangChainEmbedder(&fakeEmbedder{err: assert.AnError})

		_, err := failing.EmbedQuery(context.Background(), "q")
		assert.ErrorIs(t, err, ragline.ErrProvider)

		_, err = failing.EmbedBatch(context.Background(), []string{"a"})
		assert.ErrorIs(t, err, ragline.ErrProvider)
	})
}
