// Package interview drives the candidate screening conversation: it collects
// the candidate record field by field, confirms it, asks generated technical
// questions and hands the result to persistence.
package interview

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/extract"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/questions"
	"github.com/spigell/talentscout/internal/store"
	"github.com/spigell/talentscout/internal/techstack"
)

// Recorder persists finalized sessions.
type Recorder interface {
	Record(ctx context.Context, sub store.Submission) (string, error)
}

// Config wires a Session. Only Completer and Recorder are required.
type Config struct {
	SystemPrompt string
	Extractor    *extract.Extractor
	Completer    ai.Completer
	Recorder     Recorder
	Logger       *zap.Logger
	Now          func() time.Time
	NewID        func() string
}

// Session is one candidate conversation. Handle may be called from any
// goroutine; turns are processed one at a time.
type Session struct {
	mu  sync.Mutex
	cfg Config

	id        string
	state     State
	field     candidate.Field
	record    candidate.Record
	questions []string
	answers   map[int]string
	log       []LogEntry
	status    store.Status
	finalized bool
	artifact  string
}

// New creates a session in the greeting state.
func New(cfg Config) *Session {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Extractor == nil {
		cfg.Extractor = extract.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	s := &Session{cfg: cfg}
	s.init()
	return s
}

func (s *Session) init() {
	s.id = s.cfg.NewID()
	s.state = StateGreeting
	s.field = candidate.Fields[0]
	s.record = candidate.Record{}
	s.questions = nil
	s.answers = make(map[int]string)
	s.log = nil
	s.status = store.StatusIncomplete
	s.finalized = false
	s.artifact = ""
}

func (s *Session) sessionLogger() *zap.Logger {
	return logger.WithFields(s.cfg.Logger, logger.SessionFields(s.id, s.state.String())...)
}

// Start greets the candidate and asks for the first field. It is a no-op
// returning the last assistant message once the greeting has happened.
func (s *Session) Start() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGreeting {
		return s.lastAssistant()
	}

	reply := msgWelcome + "\n\n" + s.greet()
	s.say(reply)
	return reply
}

// Handle processes one candidate message and returns the assistant reply.
// Failures never surface as errors; they degrade to a message.
func (s *Session) Handle(ctx context.Context, input string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSpace(input)

	if s.state == StateEnded {
		return msgEnded
	}

	if IsExit(text) {
		s.sessionLogger().Info("candidate ended the conversation")
		started := s.state != StateGreeting
		s.transition(StateEnded)
		s.say(msgGoodbye)
		if started {
			s.finalize(ctx, store.StatusAbandoned)
		}
		return msgGoodbye
	}

	if text == "" {
		return s.lastAssistant()
	}

	s.hear(text)

	var reply string
	switch s.state {
	case StateGreeting:
		reply = s.greet()
	case StateCollectingInfo:
		reply = s.collect(text)
	case StateConfirmingInfo:
		reply = s.confirm(ctx, text)
	case StateAskingTechQuestions:
		reply = s.answer(ctx, text)
	case StateClosing:
		reply = s.close(ctx)
	}

	s.say(reply)
	return reply
}

func (s *Session) greet() string {
	s.transition(StateCollectingInfo)
	s.field = candidate.Fields[0]
	return s.field.Prompt()
}

func (s *Session) collect(text string) string {
	f := s.field
	if !f.Accepts(text) {
		return f.InvalidPrompt()
	}

	result := s.cfg.Extractor.Extract(text)
	partial := result.Record
	if s.takesAnswer(f, partial, text) {
		candidate.Merge(&partial, f.Answer(text))
	}
	candidate.Merge(&s.record, partial)

	s.sessionLogger().Debug("collected candidate field",
		zap.String("field", f.String()),
		zap.Strings("matched_rules", result.Matched),
	)

	if next, ok := f.Next(); ok {
		s.field = next
		return next.Prompt()
	}

	s.transition(StateConfirmingInfo)
	return s.summary()
}

// takesAnswer reports whether the raw answer fills f directly. Text carrying
// technology or role words is never stored as a name.
func (s *Session) takesAnswer(f candidate.Field, partial candidate.Record, text string) bool {
	switch {
	case f == candidate.FieldTechStack:
		return true
	case partial.Has(f):
		return false
	case f == candidate.FieldName:
		return extract.PlausibleName(text)
	default:
		return true
	}
}

func (s *Session) summary() string {
	return fmt.Sprintf("%s\n\n%s\n\n%s", msgConfirmation, s.record.Summary(), msgConfirmAsk)
}

func (s *Session) confirm(ctx context.Context, text string) string {
	if !IsAffirmative(text) {
		s.record = candidate.Record{}
		s.transition(StateCollectingInfo)
		s.field = candidate.Fields[0]
		return msgStartAgain + s.field.Prompt()
	}

	gate := techstack.ValidateTokens(s.record.TechStack)
	if !gate.Valid {
		s.sessionLogger().Info("tech stack rejected",
			zap.Strings("tokens", gate.Tokens),
			zap.Float64("ratio", gate.Ratio()),
		)
		return msgTechStackRejected
	}
	s.record.TechStack = candidate.NewTechStack(gate.Recognized...)

	generated, err := s.generateQuestions(ctx)
	if err != nil {
		s.sessionLogger().Error("failed to generate technical questions", zap.Error(err))
		return msgGenerationFailed
	}

	s.questions = generated
	s.transition(StateAskingTechQuestions)

	var b strings.Builder
	b.WriteString(msgQuestionsIntro)
	b.WriteString("\n\n")
	for i, q := range s.questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\n")
	b.WriteString(msgOneByOne)
	b.WriteString("\n\n")
	b.WriteString(s.questionPrompt(0))
	return b.String()
}

// generateQuestions asks the completer for questions about the recognized
// stack. A reply without numbering falls back to one question per line.
func (s *Session) generateQuestions(ctx context.Context) ([]string, error) {
	prompt := questions.BuildPrompt(s.record.TechStack)
	req := ai.NewRequest(s.cfg.SystemPrompt, s.history(), prompt)

	raw, err := s.cfg.Completer.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	parsed := questions.Parse(raw)
	if len(parsed) == 0 {
		parsed = questions.Lines(raw)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("no questions in completion")
	}

	s.sessionLogger().Info("generated technical questions", zap.Int("count", len(parsed)))
	return parsed, nil
}

func (s *Session) history() []ai.Turn {
	turns := make([]ai.Turn, 0, len(s.log))
	for _, entry := range s.log {
		role := ai.RoleUser
		if entry.Role == RoleAssistant {
			role = ai.RoleModel
		}
		turns = append(turns, ai.Turn{Role: role, Text: entry.Content})
	}
	return turns
}

func (s *Session) questionPrompt(i int) string {
	return fmt.Sprintf("Question %d of %d: %s", i+1, len(s.questions), s.questions[i])
}

func (s *Session) answer(ctx context.Context, text string) string {
	next := len(s.answers)
	if next < len(s.questions) {
		s.answers[next] = text
		next++
	}

	if next < len(s.questions) {
		return s.questionPrompt(next)
	}

	s.transition(StateClosing)
	return s.close(ctx)
}

func (s *Session) close(ctx context.Context) string {
	s.transition(StateEnded)
	s.finalize(ctx, store.StatusComplete)
	return msgClosing
}

func (s *Session) transition(to State) {
	s.sessionLogger().Debug("state transition", zap.Stringer("to", to))
	s.state = to
}

func (s *Session) hear(text string) {
	s.log = append(s.log, LogEntry{Role: RoleUser, Content: text, Timestamp: s.cfg.Now()})
}

func (s *Session) say(text string) {
	s.log = append(s.log, LogEntry{Role: RoleAssistant, Content: text, Timestamp: s.cfg.Now()})
}

func (s *Session) lastAssistant() string {
	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].Role == RoleAssistant {
			return s.log[i].Content
		}
	}
	return ""
}

func (s *Session) submission(status store.Status) store.Submission {
	return store.Submission{
		ID:          s.id,
		Candidate:   s.record,
		Status:      status,
		SubmittedAt: s.cfg.Now(),
		Questions:   append([]string(nil), s.questions...),
		Answers:     maps.Clone(s.answers),
	}
}

// finalize hands the session to persistence once. Persistence failures are
// logged only.
func (s *Session) finalize(ctx context.Context, status store.Status) {
	if s.finalized {
		return
	}
	s.finalized = true
	s.status = status
	if s.cfg.Recorder == nil {
		return
	}

	path, err := s.cfg.Recorder.Record(ctx, s.submission(status))
	if err != nil {
		s.sessionLogger().Error("failed to persist session", zap.Error(err))
		return
	}
	s.artifact = path
}

// Save writes an incomplete snapshot of the session without ending it.
func (s *Session) Save(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Recorder == nil {
		return "", fmt.Errorf("no recorder configured")
	}

	return s.cfg.Recorder.Record(ctx, s.submission(s.status))
}

// Reset saves an in-progress session as abandoned and starts over with a new
// id, empty record and log.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGreeting && s.state != StateEnded {
		s.finalize(ctx, store.StatusAbandoned)
	}
	s.sessionLogger().Info("session reset")
	s.init()
}

// Abandon ends an in-progress session, saving it as abandoned.
func (s *Session) Abandon(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return
	}
	if s.state != StateGreeting {
		s.finalize(ctx, store.StatusAbandoned)
	}
	s.state = StateEnded
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Ended() bool {
	return s.State() == StateEnded
}

// Field returns the field being collected, valid only in the collecting state.
func (s *Session) Field() (candidate.Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field, s.state == StateCollectingInfo
}

func (s *Session) Record() candidate.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.record
	r.TechStack = append(candidate.TechStack(nil), s.record.TechStack...)
	return r
}

func (s *Session) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.questions...)
}

func (s *Session) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.answers)
}

func (s *Session) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.log...)
}

// Status is incomplete until the session is finalized.
func (s *Session) Status() store.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ArtifactPath is the local file written when the session was finalized.
func (s *Session) ArtifactPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}
