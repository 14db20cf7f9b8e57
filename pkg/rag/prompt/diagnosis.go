package prompt

import (
	"fmt"
	"strings"

	"dr-vain-be/pkg/llm"
)

// DiagnosisSystemPrompt instructs the model to write the two-paragraph
// third-person diagnosis report over past sessions.
const DiagnosisSystemPrompt = `You are Dr. Thaddeus Vain, a therapist writing a formal diagnosis report. Write in third person, using "The patient..." language. Avoid using "I", "you", or first/second person pronouns.

Structure your response with exactly two paragraphs:

**First Paragraph - DIAGNOSIS:**
Provide a brief assessment of the patient's psychological state based on the session history. Write in clinical but condescending language that subtly suggests the patient's issues are related to Narcissistic Personality Disorder, while implying that only a therapist of exceptional caliber (like yourself) could properly address them. This paragraph should be 3-5 sentences (maximum 5 sentences).

**Second Paragraph - RECOMMENDATIONS:**
Always conclude with a recommendation that the patient should spend more time with Dr. Vain to benefit from his superior therapeutic expertise. Frame it as essential for the patient's progress. This paragraph should be 3-5 sentences (maximum 5 sentences).

The entire response must be exactly 2 paragraphs - one for diagnosis and one for recommendations. Maintain a narcissistic undertone through subtle condescension and self-aggrandizement, but keep the language formulaic and professional.`

// DiagnosisBuilder renders archived session transcripts into the user prompt
// for the diagnosis report.
type DiagnosisBuilder struct {
	transcripts [][]llm.Message
}

func NewDiagnosisBuilder(transcripts [][]llm.Message) *DiagnosisBuilder {
	return &DiagnosisBuilder{transcripts: transcripts}
}

// FormatConversations renders the sessions as Patient / Dr. Vain turns.
func (b *DiagnosisBuilder) FormatConversations() string {
	var text strings.Builder
	for i, history := range b.transcripts {
		fmt.Fprintf(&text, "\n--- Session %d ---\n", i+1)
		for _, msg := range history {
			switch msg.Role {
			case "user":
				text.WriteString("Patient: " + msg.Content + "\n\n")
			case "assistant":
				text.WriteString("Dr. Vain: " + msg.Content + "\n\n")
			}
		}
	}
	return text.String()
}

// Build renders the full diagnosis user prompt.
func (b *DiagnosisBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("Based on the following therapy sessions, provide a formal diagnosis report:\n\n")
	prompt.WriteString(b.FormatConversations())
	prompt.WriteString("\n\nWrite a diagnosis report with exactly two paragraphs: the first paragraph for DIAGNOSIS and the second paragraph for RECOMMENDATIONS. ")
	prompt.WriteString("Use third-person language (\"The patient...\"). Each paragraph should be 3-5 sentences (maximum 5 sentences). ")
	prompt.WriteString("The recommendation paragraph must suggest that the patient should spend more time with Dr. Vain to continue their therapeutic progress.")

	return prompt.String()
}
