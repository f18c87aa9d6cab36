package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/store"
)

type fakeCompleter struct {
	replies  []string
	errs     []error
	requests []ai.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return f.replies[len(f.replies)-1], nil
}

type fakeRecorder struct {
	err         error
	submissions []store.Submission
}

func (f *fakeRecorder) Record(_ context.Context, sub store.Submission) (string, error) {
	f.submissions = append(f.submissions, sub)
	if f.err != nil {
		return "", f.err
	}
	return sub.Filename(), nil
}

const twoQuestions = "1. **What is a goroutine?** (tests fundamentals)\n2. **Explain MVCC in PostgreSQL** (tests databases)"

var fieldAnswers = []string{
	"Jane Doe",
	"jane@example.com",
	"(555) 123-4567",
	"5",
	"Software Engineer",
	"Berlin",
	"Go, PostgreSQL, Docker",
}

func newTestSession(completer ai.Completer, recorder Recorder) *Session {
	ids := 0
	return New(Config{
		Completer: completer,
		Recorder:  recorder,
		Now:       func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) },
		NewID: func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		},
	})
}

func fillFields(t *testing.T, s *Session, answers []string) string {
	t.Helper()
	var reply string
	for _, a := range answers {
		reply = s.Handle(context.Background(), a)
	}
	return reply
}

func TestStartGreetsAndAsksForName(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
	assert.Equal(t, StateGreeting, s.State())

	reply := s.Start()
	assert.Contains(t, reply, "Welcome to TalentScout")
	assert.Contains(t, reply, candidate.FieldName.Prompt())

	field, collecting := s.Field()
	assert.True(t, collecting)
	assert.Equal(t, candidate.FieldName, field)

	assert.Equal(t, reply, s.Start(), "second start repeats the last message")
	assert.Len(t, s.Log(), 1)
}

func TestGreetingAcceptsAnyInput(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})

	reply := s.Handle(context.Background(), "Hello")
	assert.Equal(t, candidate.FieldName.Prompt(), reply)
	assert.Equal(t, StateCollectingInfo, s.State())
	assert.Equal(t, candidate.Record{}, s.Record())
}

func TestOneAnswerPerFieldReachesConfirmation(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
	s.Start()

	for i, answer := range fieldAnswers {
		require.Equal(t, StateCollectingInfo, s.State(), "before answer %d", i)
		field, _ := s.Field()
		require.Equal(t, candidate.Fields[i], field)

		reply := s.Handle(context.Background(), answer)
		if i < len(fieldAnswers)-1 {
			assert.Equal(t, candidate.Fields[i+1].Prompt(), reply)
		} else {
			assert.Contains(t, reply, "Let me summarize what you've shared:")
			assert.Contains(t, reply, "Tech Stack: docker, go, postgresql")
			assert.Contains(t, reply, "Is this information correct? (yes/no)")
		}
	}

	assert.Equal(t, StateConfirmingInfo, s.State())
	assert.Equal(t, candidate.Record{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "5551234567",
		Experience:      "5 years",
		DesiredPosition: "Software Engineer",
		Location:        "Berlin",
		TechStack:       candidate.TechStack{"docker", "go", "postgresql"},
	}, s.Record())
}

func TestInvalidEmailReprompts(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
	s.Start()
	s.Handle(context.Background(), "Jane Doe")

	reply := s.Handle(context.Background(), "not-an-email")
	assert.Equal(t, candidate.FieldEmail.InvalidPrompt(), reply)

	field, collecting := s.Field()
	assert.True(t, collecting)
	assert.Equal(t, candidate.FieldEmail, field)
	assert.Empty(t, s.Record().Email)
}

func TestInvalidPhoneReprompts(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
	s.Start()
	fillFields(t, s, fieldAnswers[:2])

	reply := s.Handle(context.Background(), "12345")
	assert.Equal(t, candidate.FieldPhone.InvalidPrompt(), reply)
	assert.Empty(t, s.Record().Phone)
}

func TestRoleWordsNeverBecomeName(t *testing.T) {
	tests := []string{"Python Developer", "Mary Lead", "John Senior", "Rose Cloud"}

	for _, answer := range tests {
		t.Run(answer, func(t *testing.T) {
			s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
			s.Start()

			reply := s.Handle(context.Background(), answer)
			assert.Equal(t, candidate.FieldEmail.Prompt(), reply)
			assert.Empty(t, s.Record().Name)
			assert.Equal(t, StateCollectingInfo, s.State())

			field, _ := s.Field()
			assert.Equal(t, candidate.FieldEmail, field)
		})
	}
}

func TestNameAnswerIsStored(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
	s.Start()

	s.Handle(context.Background(), "Jane Doe")
	assert.Equal(t, "Jane Doe", s.Record().Name)

	field, _ := s.Field()
	assert.Equal(t, candidate.FieldEmail, field)
}

func TestExitDuringEmailEndsWithoutStoringIt(t *testing.T) {
	recorder := &fakeRecorder{}
	s := newTestSession(&fakeCompleter{}, recorder)
	s.Start()
	s.Handle(context.Background(), "Jane Doe")

	reply := s.Handle(context.Background(), "ok bye")
	assert.Equal(t, msgGoodbye, reply)
	assert.True(t, s.Ended())
	assert.Empty(t, s.Record().Email)
	assert.Equal(t, store.StatusAbandoned, s.Status())

	require.Len(t, recorder.submissions, 1)
	assert.Equal(t, store.StatusAbandoned, recorder.submissions[0].Status)
	assert.Equal(t, "Jane Doe", recorder.submissions[0].Candidate.Name)

	for _, entry := range s.Log() {
		assert.NotEqual(t, "ok bye", entry.Content, "exit message must not be logged")
	}

	assert.Equal(t, msgEnded, s.Handle(context.Background(), "hello?"))
	assert.Len(t, recorder.submissions, 1)
}

func TestNonAffirmativeConfirmationResets(t *testing.T) {
	s := newTestSession(&fakeCompleter{}, &fakeRecorder{})
	s.Start()
	fillFields(t, s, fieldAnswers)

	reply := s.Handle(context.Background(), "no, my phone is wrong")
	assert.Equal(t, msgStartAgain+candidate.FieldName.Prompt(), reply)
	assert.Equal(t, StateCollectingInfo, s.State())
	assert.Equal(t, candidate.Record{}, s.Record())
}

func TestConfirmationGeneratesQuestionsAndCloses(t *testing.T) {
	completer := &fakeCompleter{replies: []string{twoQuestions}}
	recorder := &fakeRecorder{}
	s := newTestSession(completer, recorder)
	s.Start()
	fillFields(t, s, fieldAnswers)

	reply := s.Handle(context.Background(), "yes")
	assert.Equal(t, StateAskingTechQuestions, s.State())
	assert.Equal(t, []string{"What is a goroutine?", "Explain MVCC in PostgreSQL"}, s.Questions())
	assert.Contains(t, reply, "1. What is a goroutine?\n2. Explain MVCC in PostgreSQL")
	assert.Contains(t, reply, "Question 1 of 2: What is a goroutine?")

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Contains(t, req.Prompt, "tech stack: docker, go, postgresql")
	assert.NotContains(t, req.Prompt, "hiring assistant for TalentScout", "system prompt only leads an empty history")
	assert.NotEmpty(t, req.History)
	assert.Equal(t, ai.RoleModel, req.History[0].Role)
	assert.Equal(t, ai.Turn{Role: ai.RoleUser, Text: "yes"}, req.History[len(req.History)-1])

	reply = s.Handle(context.Background(), "A lightweight thread managed by the runtime")
	assert.Equal(t, "Question 2 of 2: Explain MVCC in PostgreSQL", reply)
	assert.Equal(t, StateAskingTechQuestions, s.State())

	reply = s.Handle(context.Background(), "Row versions per transaction")
	assert.Equal(t, msgClosing, reply)
	assert.True(t, s.Ended())

	require.Len(t, recorder.submissions, 1)
	sub := recorder.submissions[0]
	assert.Equal(t, store.StatusComplete, sub.Status)
	assert.Equal(t, "session-1", sub.ID)
	assert.Equal(t, map[int]string{
		0: "A lightweight thread managed by the runtime",
		1: "Row versions per transaction",
	}, sub.Answers)
	assert.Equal(t, sub.Filename(), s.ArtifactPath())
}

func TestUnnumberedCompletionFallsBackToLines(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"What is a channel?\n\nHow do you profile Go code?"}}
	s := newTestSession(completer, &fakeRecorder{})
	s.Start()
	fillFields(t, s, fieldAnswers)

	s.Handle(context.Background(), "y")
	assert.Equal(t, []string{"What is a channel?", "How do you profile Go code?"}, s.Questions())
}

func TestTechStackGateRejectsUnknownTechnologies(t *testing.T) {
	completer := &fakeCompleter{replies: []string{twoQuestions}}
	s := newTestSession(completer, &fakeRecorder{})
	s.Start()

	answers := append([]string(nil), fieldAnswers[:6]...)
	answers = append(answers, "Blorgonaut9000, Zyx")
	fillFields(t, s, answers)

	reply := s.Handle(context.Background(), "yes")
	assert.Equal(t, msgTechStackRejected, reply)
	assert.Equal(t, StateConfirmingInfo, s.State())
	assert.Empty(t, completer.requests)
}

func TestTechStackGateKeepsRecognizedSubset(t *testing.T) {
	completer := &fakeCompleter{replies: []string{twoQuestions}}
	s := newTestSession(completer, &fakeRecorder{})
	s.Start()

	answers := append([]string(nil), fieldAnswers[:6]...)
	answers = append(answers, "Python, Rust, Blorgonaut9000")
	fillFields(t, s, answers)
	require.Equal(t, candidate.TechStack{"blorgonaut9000", "python", "rust"}, s.Record().TechStack)

	s.Handle(context.Background(), "yes")
	assert.Equal(t, StateAskingTechQuestions, s.State())
	assert.Equal(t, candidate.TechStack{"python", "rust"}, s.Record().TechStack)
}

func TestGenerationFailureDegradesToApology(t *testing.T) {
	completer := &fakeCompleter{
		errs:    []error{fmt.Errorf("completion failed: %w", errors.New("unavailable"))},
		replies: []string{"", twoQuestions},
	}
	s := newTestSession(completer, &fakeRecorder{})
	s.Start()
	fillFields(t, s, fieldAnswers)

	reply := s.Handle(context.Background(), "yes")
	assert.Equal(t, msgGenerationFailed, reply)
	assert.Equal(t, StateConfirmingInfo, s.State())
	assert.False(t, s.Ended())

	s.Handle(context.Background(), "yes")
	assert.Equal(t, StateAskingTechQuestions, s.State())
	assert.Len(t, s.Questions(), 2)
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"1. Only question?"}}
	recorder := &fakeRecorder{err: errors.New("disk full")}
	s := newTestSession(completer, recorder)
	s.Start()
	fillFields(t, s, fieldAnswers)
	s.Handle(context.Background(), "yes")

	reply := s.Handle(context.Background(), "An answer")
	assert.Equal(t, msgClosing, reply)
	assert.True(t, s.Ended())
	assert.Equal(t, store.StatusComplete, s.Status())
	assert.Empty(t, s.ArtifactPath())
}

func TestResetSavesAbandonedAndStartsFresh(t *testing.T) {
	recorder := &fakeRecorder{}
	s := newTestSession(&fakeCompleter{}, recorder)
	s.Start()
	fillFields(t, s, fieldAnswers[:3])

	s.Reset(context.Background())

	require.Len(t, recorder.submissions, 1)
	assert.Equal(t, store.StatusAbandoned, recorder.submissions[0].Status)
	assert.Equal(t, "session-1", recorder.submissions[0].ID)
	assert.Equal(t, "5551234567", recorder.submissions[0].Candidate.Phone)

	assert.Equal(t, "session-2", s.ID())
	assert.Equal(t, StateGreeting, s.State())
	assert.Equal(t, candidate.Record{}, s.Record())
	assert.Empty(t, s.Log())
	assert.Equal(t, store.StatusIncomplete, s.Status())
}

func TestAbandonBeforeStartDoesNotPersist(t *testing.T) {
	recorder := &fakeRecorder{}
	s := newTestSession(&fakeCompleter{}, recorder)

	s.Abandon(context.Background())
	assert.True(t, s.Ended())
	assert.Empty(t, recorder.submissions)
}

func TestSaveWritesIncompleteSnapshot(t *testing.T) {
	recorder := &fakeRecorder{}
	s := newTestSession(&fakeCompleter{}, recorder)
	s.Start()
	fillFields(t, s, fieldAnswers[:2])

	path, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com_20250314_092653.json", path)

	require.Len(t, recorder.submissions, 1)
	assert.Equal(t, store.StatusIncomplete, recorder.submissions[0].Status)
	assert.False(t, s.Ended())
}

func TestWriteTranscript(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"1. Only question?"}}
	s := newTestSession(completer, &fakeRecorder{})
	s.Start()
	fillFields(t, s, fieldAnswers)
	s.Handle(context.Background(), "yes")
	s.Handle(context.Background(), "An answer")

	path := filepath.Join(t.TempDir(), "transcript.json")
	require.NoError(t, s.WriteTranscript(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		SessionID          string              `json:"session_id"`
		Status             string              `json:"interview_status"`
		CandidateInfo      candidate.Record    `json:"candidate_info"`
		TechnicalQuestions []string            `json:"technical_questions"`
		TechnicalResponses map[string]store.QA `json:"technical_responses"`
		FullConversation   []LogEntry          `json:"full_conversation"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, "complete", got.Status)
	assert.Equal(t, "Jane Doe", got.CandidateInfo.Name)
	assert.Equal(t, []string{"Only question?"}, got.TechnicalQuestions)
	assert.Equal(t, store.QA{Question: "Only question?", Answer: "An answer"}, got.TechnicalResponses["question_1"])
	assert.Len(t, got.FullConversation, len(s.Log()))
	assert.Equal(t, RoleAssistant, got.FullConversation[0].Role)
}

func TestIsExit(t *testing.T) {
	tests := map[string]bool{
		"ok bye":           true,
		"QUIT":             true,
		"I want to exit.":  true,
		"Goodbye!":         true,
		"jane@example.com": false,
		"yes":              false,
	}
	for input, want := range tests {
		assert.Equal(t, want, IsExit(input), input)
	}
}

func TestIsAffirmative(t *testing.T) {
	tests := map[string]bool{
		"yes":          true,
		"Yep":          true,
		" y ":          true,
		"correct":      true,
		"That's right": true,
		"right":        true,
		"no":           false,
		"nope":         false,
		"":             false,
	}
	for input, want := range tests {
		assert.Equal(t, want, IsAffirmative(input), input)
	}
}
