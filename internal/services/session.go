package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"axom-backend/internal/logger"
	"axom-backend/internal/models"
)

// Provider produces the next model reply given the recorded turns and the new user text.
// history does not include message.
type Provider interface {
	Generate(ctx context.Context, history []models.Turn, message string) (string, error)
}

// SessionObserver is told about every exchange attempt and every reset, in state order.
type SessionObserver interface {
	ExchangeRecorded(ctx context.Context, ex models.Exchange)
	SessionReset(ctx context.Context, at time.Time, history []models.Turn)
}

const observerTimeout = 5 * time.Second

// ChatSession owns the single process-wide conversation.
//
// sendMu serializes SendMessage and Reset across the whole provider round-trip.
// mu guards turns only for short copies and appends, so History never waits on the provider.
type ChatSession struct {
	provider Provider
	observer SessionObserver
	timeout  time.Duration

	sendMu sync.Mutex
	mu     sync.RWMutex
	turns  []models.Turn
}

// NewChatSession creates a session holding the seed turns. observer may be nil;
// timeout <= 0 disables the per-call deadline.
func NewChatSession(provider Provider, observer SessionObserver, timeout time.Duration) *ChatSession {
	s := &ChatSession{
		provider: provider,
		observer: observer,
		timeout:  timeout,
	}
	s.initialize()
	return s
}

func (s *ChatSession) initialize() {
	s.mu.Lock()
	s.turns = SeedTurns()
	s.mu.Unlock()
}

// SendMessage records text as a user turn, asks the provider for a continuation and records
// the reply. On provider failure the user turn stays in the history unanswered and a
// *ProviderError is returned. The returned history is the snapshot right after this exchange.
// Blank text is rejected with a *ValidationError before the session is touched.
func (s *ChatSession) SendMessage(ctx context.Context, text string) (string, []models.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, &ValidationError{Message: ErrNoMessage}
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	prior := models.CloneTurns(s.turns)
	s.turns = append(s.turns, models.NewTurn(models.RoleUser, text))
	s.mu.Unlock()

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.provider.Generate(callCtx, prior, text)

	ex := models.Exchange{
		ID:          uuid.New(),
		UserMessage: text,
		CreatedAt:   time.Now().UTC(),
	}

	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("model provider timed out after %s: %w", s.timeout, err)
		}
		history := s.History()

		msg := err.Error()
		ex.Status = models.StatusFailed
		ex.ErrorMessage = &msg
		ex.HistoryLength = len(history)
		logger.Warnw("Model provider call failed", "error", msg, "latency", time.Since(start).String())
		s.notifyExchange(ctx, ex)

		return "", nil, &ProviderError{Err: err}
	}

	s.mu.Lock()
	s.turns = append(s.turns, models.NewTurn(models.RoleModel, reply))
	history := models.CloneTurns(s.turns)
	s.mu.Unlock()

	ex.Reply = reply
	ex.Status = models.StatusSuccess
	ex.HistoryLength = len(history)
	logger.Infow("Chat exchange completed",
		"exchange_id", ex.ID.String(),
		"history_length", ex.HistoryLength,
		"latency", time.Since(start).String(),
	)
	s.notifyExchange(ctx, ex)

	return reply, history, nil
}

// Reset discards the conversation and restores the seed turns. It waits for any in-flight send.
func (s *ChatSession) Reset(ctx context.Context) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.initialize()
	logger.Info("Chat session reset")

	if s.observer != nil {
		obsCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), observerTimeout)
		defer cancel()
		s.observer.SessionReset(obsCtx, time.Now().UTC(), s.History())
	}
}

// History returns a copy of the turns in chronological order.
func (s *ChatSession) History() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneTurns(s.turns)
}

func (s *ChatSession) notifyExchange(ctx context.Context, ex models.Exchange) {
	if s.observer == nil {
		return
	}
	obsCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), observerTimeout)
	defer cancel()
	s.observer.ExchangeRecorded(obsCtx, ex)
}
