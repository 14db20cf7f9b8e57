package conversation

import (
	"context"
	"strings"

	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/prompt"
	"dr-vain-be/pkg/rag/retrieval"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// DefaultTopK is how many context passages one turn retrieves.
	DefaultTopK = 3
)

// Engine owns one conversation: its transcript, its persona, and the
// retrieval-augmented turn protocol. It is not safe for concurrent use;
// the session manager serializes access to it.
type Engine struct {
	id         string
	persona    Persona
	retriever  retrieval.Retriever
	completion llm.LLMProvider
	topK       int
	history    []llm.Message
}

// NewEngine validates both capabilities up front so a misconfigured backend
// fails at session start, not mid-conversation.
func NewEngine(id string, persona Persona, retriever retrieval.Retriever, completion llm.LLMProvider) (*Engine, error) {
	if retriever == nil {
		return nil, &ConfigurationError{Reason: "retriever capability is missing"}
	}
	if completion == nil {
		return nil, &ConfigurationError{Reason: "completion capability is missing"}
	}
	if strings.TrimSpace(persona.Instruction) == "" {
		return nil, &ConfigurationError{Reason: "persona instruction is empty"}
	}

	return &Engine{
		id:         id,
		persona:    persona,
		retriever:  retriever,
		completion: completion,
		topK:       DefaultTopK,
		history:    []llm.Message{},
	}, nil
}

func (e *Engine) ID() string {
	return e.id
}

func (e *Engine) Persona() Persona {
	return e.persona
}

// History returns a copy of the transcript so archived or rendered views
// never alias the live slice.
func (e *Engine) History() []llm.Message {
	out := make([]llm.Message, len(e.history))
	copy(out, e.history)
	return out
}

// Turn runs one retrieval-augmented exchange: retrieve context, compose the
// augmented user message, call the model with [system persona] + prior
// history + augmented message, then append the ORIGINAL user text and the
// reply. The augmented wrapper is never persisted, so a later turn
// re-retrieves fresh context. Nothing is appended until the completion call
// succeeds, which makes a failed turn safe to retry.
func (e *Engine) Turn(ctx context.Context, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", ErrInvalidInput
	}

	passages, err := e.retriever.Retrieve(ctx, userText, e.topK)
	if err != nil {
		return "", &RetrievalError{Err: err}
	}
	// Zero passages is fine: the turn proceeds with an empty context block.

	augmented := prompt.NewTurnBuilder(passages, userText).Build()

	messages := make([]llm.Message, 0, len(e.history)+2)
	messages = append(messages, llm.Message{Role: RoleSystem, Content: e.persona.Instruction})
	messages = append(messages, e.history...)
	messages = append(messages, llm.Message{Role: RoleUser, Content: augmented})

	reply, err := e.completion.Chat(ctx, messages)
	if err != nil {
		return "", &CompletionError{Err: err}
	}

	e.history = append(e.history,
		llm.Message{Role: RoleUser, Content: userText},
		llm.Message{Role: RoleAssistant, Content: reply},
	)
	return reply, nil
}

// AppendEvent injects lifecycle text (welcome, farewell) directly into the
// transcript, bypassing retrieval and completion entirely.
func (e *Engine) AppendEvent(role, content string) {
	e.history = append(e.history, llm.Message{Role: role, Content: content})
}
