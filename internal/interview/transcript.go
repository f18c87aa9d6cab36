package interview

import (
	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/store"
)

const transcriptTimeLayout = "2006-01-02 15:04:05"

// Transcript is the exportable view of a session.
type Transcript struct {
	Timestamp          string              `json:"timestamp"`
	SessionID          string              `json:"session_id"`
	Status             string              `json:"interview_status"`
	CandidateInfo      candidate.Record    `json:"candidate_info"`
	TechnicalQuestions []string            `json:"technical_questions"`
	TechnicalResponses map[string]store.QA `json:"technical_responses"`
	FullConversation   []LogEntry          `json:"full_conversation"`
}

// Transcript snapshots the session for export.
func (s *Session) Transcript() Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.submission(s.status)

	questions := sub.Questions
	if questions == nil {
		questions = []string{}
	}
	responses := sub.Responses()
	if responses == nil {
		responses = map[string]store.QA{}
	}

	return Transcript{
		Timestamp:          sub.SubmittedAt.Format(transcriptTimeLayout),
		SessionID:          sub.ID,
		Status:             string(sub.Status),
		CandidateInfo:      sub.Candidate,
		TechnicalQuestions: questions,
		TechnicalResponses: responses,
		FullConversation:   append([]LogEntry(nil), s.log...),
	}
}

// WriteTranscript exports the session as indented JSON.
func (s *Session) WriteTranscript(path string) error {
	return store.WriteJSON(path, s.Transcript())
}
