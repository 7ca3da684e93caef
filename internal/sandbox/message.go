package sandbox

// Role identifies a participant in the sandbox conversation.
type Role string

const (
	RoleSystem               Role = "system"
	RoleUser                 Role = "user"
	RoleAgent                Role = "agent"
	RoleExecutionEnvironment Role = "execution_environment"
)

// Message is the structured result of running one program. Program
// failures (compile errors, incomplete input, runtime panics) are carried
// here as data rather than raised, so the calling evaluator can score a
// broken program instead of crashing with it.
type Message struct {
	Sender    Role   `json:"sender"`
	Recipient Role   `json:"recipient"`
	Content   string `json:"content"`
	// Exception holds the terminal error line when the program failed.
	// Empty is the sole signal of a clean execution.
	Exception string `json:"tool_call_exception,omitempty"`
}

// OK reports whether the execution finished without a captured exception.
func (m Message) OK() bool { return m.Exception == "" }
