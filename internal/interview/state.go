package interview

import "time"

// State is the conversation phase.
type State int

const (
	StateGreeting State = iota
	StateCollectingInfo
	StateConfirmingInfo
	StateAskingTechQuestions
	StateClosing
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateGreeting:
		return "greeting"
	case StateCollectingInfo:
		return "collecting_info"
	case StateConfirmingInfo:
		return "confirming_info"
	case StateAskingTechQuestions:
		return "asking_tech_questions"
	case StateClosing:
		return "closing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Role is the author of a conversation log entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// LogEntry is one observed message. The log is append-only.
type LogEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
