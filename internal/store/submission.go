package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/talentscout/internal/candidate"
)

// Status is the final state of an interview when it was handed to persistence.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
	StatusAbandoned  Status = "abandoned"
)

const (
	FieldSubmissionTime     = "submission_time"
	FieldInterviewStatus    = "interview_status"
	FieldTechnicalResponses = "technical_responses"
	submissionTimeLayout    = "2006-01-02 15:04:05"
	filenameTimestampLayout = "20060102_150405"
	fallbackFilenamePrefix  = "candidate"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Submission is a finalized interview.
type Submission struct {
	ID          string
	Candidate   candidate.Record
	Status      Status
	SubmittedAt time.Time
	Questions   []string
	// Answers maps a zero-based question index to the candidate's answer.
	Answers map[int]string
}

// QA is one technical question with its answer.
type QA struct {
	Question string `json:"question" mapstructure:"question"`
	Answer   string `json:"answer" mapstructure:"answer"`
}

// Fields flattens the submission into the map handed to stores and written
// to the local archive.
func (s Submission) Fields() (map[string]any, error) {
	fields := make(map[string]any)
	if err := mapstructure.Decode(s.Candidate, &fields); err != nil {
		return nil, fmt.Errorf("flatten candidate record: %w", err)
	}

	stack := []string(s.Candidate.TechStack)
	if stack == nil {
		stack = []string{}
	}
	fields["tech_stack"] = stack
	fields[FieldSubmissionTime] = s.SubmittedAt.Format(submissionTimeLayout)
	fields[FieldInterviewStatus] = string(s.Status)

	if responses := s.Responses(); len(responses) > 0 {
		fields[FieldTechnicalResponses] = responses
	}

	return fields, nil
}

// Responses returns the answered questions keyed "question_<n>" with n
// starting at one.
func (s Submission) Responses() map[string]QA {
	if len(s.Answers) == 0 {
		return nil
	}

	responses := make(map[string]QA, len(s.Answers))
	for i, question := range s.Questions {
		answer, ok := s.Answers[i]
		if !ok {
			continue
		}
		responses[fmt.Sprintf("question_%d", i+1)] = QA{Question: question, Answer: answer}
	}

	return responses
}

// Filename names the local artifact: the lowercased email, else the slugified
// name, else a generic prefix, followed by the submission timestamp.
func (s Submission) Filename() string {
	stamp := s.SubmittedAt.Format(filenameTimestampLayout)

	if email := strings.ToLower(strings.TrimSpace(s.Candidate.Email)); email != "" {
		return fmt.Sprintf("%s_%s.json", email, stamp)
	}

	if name := slugify(s.Candidate.Name); name != "" {
		return fmt.Sprintf("%s_%s.json", name, stamp)
	}

	return fmt.Sprintf("%s_%s.json", fallbackFilenamePrefix, stamp)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(slugPattern.ReplaceAllString(s, "_"), "_")
}
