package conversation

// Persona is the fixed instruction set bound to an engine at construction.
// Selecting a different preset is a construction-time choice, never a
// mutation of a running conversation.
type Persona struct {
	Name        string
	Instruction string   // System prompt injected at call time, never stored in history
	Welcome     string   // Opening assistant message appended right after creation
	Farewells   []string // Pool of closing lines; one is picked when the session ends
}
