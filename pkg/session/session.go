// Package session holds the per-browser chat log and drives one translation
// request at a time through the gateway.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/translate"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

// Role identifies the speaker of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in the conversation. Turns are never modified after
// they are appended.
type ChatTurn struct {
	Role    Role
	Content string
	// Kind and Offline are set on assistant turns only.
	Kind      gateway.Kind
	Offline   bool
	CreatedAt time.Time
}

// IsError reports whether the turn should be rendered as an error.
func (t ChatTurn) IsError() bool {
	if t.Role != RoleAssistant {
		return false
	}
	return gateway.Result{Kind: t.Kind, Offline: t.Offline}.State() == gateway.StateFailed
}

// Translator is the gateway capability a session needs.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) gateway.Result
}

// Outcome describes a finished Submit call.
type Outcome struct {
	State     gateway.State
	Result    gateway.Result
	Direction translate.Direction
	// User and Assistant are the appended turns; both are zero when the request was rejected.
	User      ChatTurn
	Assistant ChatTurn
}

// Session is one isolated chat log with its conversation memory.
type Session struct {
	id        string
	createdAt time.Time

	translator Translator
	logger     *logrus.Logger
	now        func() time.Time

	// submitMu serialises submissions so only one translation is in flight.
	submitMu sync.Mutex

	mu         sync.RWMutex
	turns      []ChatTurn
	state      gateway.State
	lastActive time.Time
	memory     *memory.ConversationBuffer
}

func newSession(id string, translator Translator, logger *logrus.Logger, now func() time.Time) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	if now == nil {
		now = time.Now
	}
	created := now()
	return &Session{
		id:         id,
		createdAt:  created,
		translator: translator,
		logger:     logger,
		now:        now,
		state:      gateway.StateIdle,
		lastActive: created,
		memory:     memory.NewConversationBuffer(),
	}
}

// New creates a standalone session that is not tracked by a Manager.
func New(id string, translator Translator, logger *logrus.Logger) *Session {
	return newSession(id, translator, logger, nil)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastActive returns the time of the last submit or clear.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// State returns the current request state: Idle, or Validating/Dispatched while a
// submission is being handled.
func (s *Session) State() gateway.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Turns returns a copy of the chat log.
func (s *Session) Turns() []ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// TranslationCount is the number of completed exchanges.
func (s *Session) TranslationCount() int {
	return s.Len() / 2
}

func (s *Session) setState(state gateway.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Submit validates text, sends it through the gateway and appends the user and
// assistant turns. Blank input is rejected and nothing is appended.
func (s *Session) Submit(ctx context.Context, text string, direction translate.Direction) Outcome {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	defer s.setState(gateway.StateIdle)

	s.setState(gateway.StateValidating)
	if strings.TrimSpace(text) == "" {
		s.touch()
		return Outcome{
			State:     gateway.StateRejected,
			Result:    gateway.Result{Kind: gateway.KindEmptyInput, Input: text},
			Direction: direction,
		}
	}

	direction = direction.Resolve(text)
	source, target := direction.Pair()

	user := ChatTurn{Role: RoleUser, Content: text, CreatedAt: s.now()}
	s.mu.Lock()
	s.turns = append(s.turns, user)
	s.state = gateway.StateDispatched
	s.mu.Unlock()

	result := s.translator.Translate(ctx, text, source, target)

	assistant := ChatTurn{
		Role:      RoleAssistant,
		Content:   result.Message(),
		Kind:      result.Kind,
		Offline:   result.Offline,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.turns = append(s.turns, assistant)
	s.lastActive = assistant.CreatedAt
	s.mu.Unlock()

	s.remember(ctx, text, assistant.Content)

	outcome := Outcome{
		State:     result.State(),
		Result:    result,
		Direction: direction,
		User:      user,
		Assistant: assistant,
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"direction":  direction,
		"state":      outcome.State,
		"turns":      s.Len(),
	}).Debug("Chat request handled")

	return outcome
}

func (s *Session) remember(ctx context.Context, prompt, reply string) {
	history := s.memory.ChatHistory
	if err := history.AddUserMessage(ctx, prompt); err != nil {
		s.logger.WithError(err).WithField("session_id", s.id).Warn("Failed to record user message in memory")
		return
	}
	if err := history.AddAIMessage(ctx, reply); err != nil {
		s.logger.WithError(err).WithField("session_id", s.id).Warn("Failed to record reply in memory")
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// Clear empties the chat log and resets conversation memory.
func (s *Session) Clear(ctx context.Context) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.mu.Lock()
	removed := len(s.turns)
	s.turns = nil
	s.lastActive = s.now()
	s.mu.Unlock()

	if err := s.memory.Clear(ctx); err != nil {
		return fmt.Errorf("reset conversation memory: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"removed":    removed,
	}).Info("Chat history cleared")
	return nil
}

// Memory returns the messages held in conversation memory.
func (s *Session) Memory(ctx context.Context) ([]llms.ChatMessage, error) {
	return s.memory.ChatHistory.Messages(ctx)
}
