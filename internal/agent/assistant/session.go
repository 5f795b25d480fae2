package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/property-assistant/server/internal/agent/assistant/conversations"
	"github.com/property-assistant/server/internal/agent/assistant/parsers"
	"github.com/property-assistant/server/internal/agent/assistant/prompts"
	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

// ErrSessionClosed is wrapped by the error returned from a closed session.
var ErrSessionClosed = errors.New("session closed")

// Session is one user's chat. At most one call is in flight at a time; a
// second Chat while one is pending is rejected, never queued.
type Session struct {
	id     string
	client *Client
	state  *conversations.State

	inFlight atomic.Bool

	// mu guards totals and closed. It is held while a finished call records
	// its turns so Close cannot interleave with that.
	mu     sync.Mutex
	totals model.Tally
	closed bool

	lifetime context.Context
	cancel   context.CancelFunc
}

func (s *Session) ID() string {
	return s.id
}

// Chat sends text with the bounded session history and records the round
// trip. On failure the user turn and an error-marked assistant turn are
// recorded and the typed error is returned. Nothing is recorded when the
// session is closed before the response arrives.
func (s *Session) Chat(ctx context.Context, text string) (*model.ChatResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		logx.Debug().Str("session_id", s.id).Msg("chat rejected, call in flight")
		return nil, errx.Busy()
	}
	defer s.inFlight.Store(false)

	if s.isClosed() {
		return nil, closedError()
	}
	// nothing was attempted, so nothing is recorded
	if !s.client.Enabled() {
		return nil, errx.NotConfigured()
	}

	snapshot, err := s.state.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, err := prompts.BuildChat(ctx, snapshot, text, prompts.HistoryLimits{
		MaxTurns:  s.client.cfg.Conversation.MaxTurns,
		MaxTokens: s.client.cfg.Conversation.MaxHistoryTokens,
	})
	if err != nil {
		return nil, err
	}

	// the call ends with whichever of the caller or the session goes first
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.lifetime, cancel)
	defer stop()

	var answer string
	comp, usage, err := s.client.complete(callCtx, p, s.client.cfg.Chat.Task())
	if err == nil {
		answer, err = parsers.SanitizeAnswer(comp.Text)
	}

	return s.record(ctx, p.User.Content, answer, usage, err)
}

// record appends the finished round trip unless the session was closed.
func (s *Session) record(ctx context.Context, userText, answer string, usage model.UsageReport, callErr error) (*model.ChatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closedLocked() {
		logx.Debug().Str("session_id", s.id).Msg("session closed, response dropped")
		return nil, closedError()
	}

	// a canceled caller still gets its transcript written
	wctx := context.WithoutCancel(ctx)

	if usage.Model != "" {
		s.totals = s.totals.Add(usage)
	}
	if err := s.state.Append(wctx, conversations.NewTurn(model.RoleUser, userText)); err != nil {
		return nil, err
	}

	if callErr != nil {
		if err := s.state.Append(wctx, conversations.ErrorTurn(errx.UserMessage(callErr))); err != nil {
			return nil, err
		}
		logx.Warn().
			Err(callErr).
			Str("session_id", s.id).
			Str("kind", string(errx.KindOf(callErr))).
			Msg("chat round trip failed")
		return nil, callErr
	}

	reply := conversations.NewTurn(model.RoleAssistant, answer)
	reply.Usage = &usage
	if err := s.state.Append(wctx, reply); err != nil {
		return nil, err
	}

	logx.Info().
		Str("session_id", s.id).
		Str("model", usage.Model).
		Int("total_tokens", usage.TotalTokens).
		Str("cost_usd", usage.Cost.String()).
		Str("session_cost_usd", s.totals.Cost.String()).
		Msg("chat round trip")

	return &model.ChatResult{
		SessionID: s.id,
		Response:  answer,
		Usage:     usage,
		Totals:    s.totals,
	}, nil
}

// ClearHistory discards every turn and zeroes the usage totals. It is
// rejected while a call is in flight.
func (s *Session) ClearHistory(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return errx.Busy()
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedLocked() {
		return closedError()
	}
	if err := s.state.Reset(ctx); err != nil {
		return err
	}
	s.totals = model.Tally{}
	logx.Debug().Str("session_id", s.id).Msg("conversation cleared")
	return nil
}

// History returns an ordered copy of the transcript, error-marked turns included.
func (s *Session) History(ctx context.Context) ([]model.Turn, error) {
	return s.state.Snapshot(ctx)
}

// Totals returns the running usage tally since the session began or was last cleared.
func (s *Session) Totals() model.Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Close ends the session and cancels any pending call. A response that
// arrives afterwards is dropped. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closedLocked()
}

func (s *Session) closedLocked() bool {
	return s.closed || s.lifetime.Err() != nil
}

func closedError() error {
	return errx.Canceled(ErrSessionClosed)
}
