package ragline

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat-style exchange with a language model.
type Message struct {
	Role    Role
	Content string
}

// EmbeddingProvider converts text into fixed-length numeric vectors for
// similarity search. Implementations are external inference clients; both
// methods block until the provider responds.
type EmbeddingProvider interface {
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds many texts in one call, returning exactly one
	// vector per input in input order. Providers may chunk the batch
	// internally; callers treat it as a single opaque blocking call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LanguageModelProvider turns a chat message sequence into a response,
// either complete or as an incremental token stream.
type LanguageModelProvider interface {
	// Chat returns the model's complete answer to the message sequence.
	Chat(ctx context.Context, messages []Message) (string, error)

	// StreamChat returns a lazy, finite, forward-only sequence of text
	// deltas: each received item is the newly appended suffix of the
	// answer, not the answer so far. The channel is closed after the final
	// delta. Cancelling ctx closes the underlying connection promptly and
	// ends the stream.
	StreamChat(ctx context.Context, messages []Message) (<-chan string, error)
}
