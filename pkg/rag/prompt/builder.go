package prompt

import (
	"strings"

	"dr-vain-be/pkg/rag/retrieval"
)

// TurnBuilder composes the augmented user message for one RAG turn:
// retrieved context block first, then the raw question block. The system
// instruction is injected separately at call time, so this wrapper is the
// only per-turn prompt assembly. It is sent to the model but never stored
// in history.
type TurnBuilder struct {
	passages []retrieval.Passage
	userText string
}

// NewTurnBuilder creates a new turn prompt builder
func NewTurnBuilder(passages []retrieval.Passage, userText string) *TurnBuilder {
	return &TurnBuilder{
		passages: passages,
		userText: userText,
	}
}

// Build renders the augmented user message.
func (b *TurnBuilder) Build() string {
	var prompt strings.Builder

	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *TurnBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("### RETRIEVED CONTEXT FROM DATABASE:\n")
	prompt.WriteString(b.JoinedContext())
	prompt.WriteString("\n\n")
}

func (b *TurnBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("### USER'S CURRENT QUESTION:\n")
	prompt.WriteString(b.userText)
}

// JoinedContext concatenates the retrieved passages in ranked order.
// Zero passages yield an empty string; the turn still proceeds.
func (b *TurnBuilder) JoinedContext() string {
	parts := make([]string, len(b.passages))
	for i, p := range b.passages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}
