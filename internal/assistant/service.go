// Package assistant orchestrates one conversation turn: resolve the intent,
// dispatch the command, record the turn.
package assistant

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"asistan/internal/dispatch"
	"asistan/internal/domain"
	"asistan/internal/resolver"
	"asistan/internal/store"
)

const respEmptyInput = "Sizi duyamadım, tekrar eder misiniz?"

// TurnLog persists resolved turns. The pgx history store implements it; the
// service runs without one.
type TurnLog interface {
	AppendTurn(ctx context.Context, turn domain.ConversationTurn) error
	CountTurns(ctx context.Context) (int, error)
	PathCounts(ctx context.Context) (map[domain.ResolutionPath]int, error)
}

type Service struct {
	resolver   *resolver.Resolver
	dispatcher *dispatch.Dispatcher
	notes      *store.Notes
	reminders  *store.Reminders
	turnLog    TurnLog
	clock      func() time.Time
	logger     *slog.Logger

	ulidMu      sync.Mutex
	ulidEntropy *ulid.MonotonicEntropy
}

type Option func(*Service)

// WithTurnLog enables turn persistence.
func WithTurnLog(log TurnLog) Option {
	return func(s *Service) { s.turnLog = log }
}

// WithClock fixes the service's notion of now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func New(res *resolver.Resolver, disp *dispatch.Dispatcher, notes *store.Notes, reminders *store.Reminders, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		resolver:    res,
		dispatcher:  disp,
		notes:       notes,
		reminders:   reminders,
		clock:       time.Now,
		logger:      logger,
		ulidEntropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureModel loads the persisted classifier or trains a fresh one.
func (s *Service) EnsureModel() error {
	return s.resolver.EnsureModel()
}

// Train retrains the classifier from the current catalog and returns the
// held-out accuracy.
func (s *Service) Train() (float64, error) {
	return s.resolver.Train()
}

// HandleUtterance runs one turn. The reply is never empty; resolution and
// dispatch failures surface as canned Turkish responses, not errors.
func (s *Service) HandleUtterance(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	turnStart := s.clock()

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.ChatResponse{
			SessionID:  sessionID,
			Reply:      respEmptyInput,
			Intent:     domain.IntentUnknown,
			Confidence: 0,
			Path:       domain.PathRules,
		}, nil
	}

	resolveStart := s.clock()
	resolution := s.resolver.Resolve(text)
	resolveDur := s.clock().Sub(resolveStart)

	dispatchStart := s.clock()
	reply := s.dispatcher.Dispatch(resolution.Intent, text, resolution.Confidence)
	dispatchDur := s.clock().Sub(dispatchStart)

	turn := domain.ConversationTurn{
		TurnID:     s.newTurnID(),
		SessionID:  sessionID,
		TerminalID: req.TerminalID,
		UserText:   text,
		Reply:      reply,
		Intent:     resolution.Intent,
		Confidence: resolution.Confidence,
		Path:       resolution.Path,
		CreatedAt:  s.clock().UTC(),
	}
	if s.turnLog != nil {
		if err := s.turnLog.AppendTurn(ctx, turn); err != nil {
			s.logger.Warn("append turn failed", "turn_id", turn.TurnID, "error", err)
		}
	}

	s.logger.Info("turn timing",
		"session_id", sessionID,
		"terminal_id", req.TerminalID,
		"intent", resolution.Intent,
		"confidence", resolution.Confidence,
		"path", resolution.Path,
		"resolve_ms", resolveDur.Milliseconds(),
		"dispatch_ms", dispatchDur.Milliseconds(),
		"total_ms", s.clock().Sub(turnStart).Milliseconds(),
	)

	return domain.ChatResponse{
		SessionID:  sessionID,
		Reply:      reply,
		Intent:     resolution.Intent,
		Confidence: resolution.Confidence,
		Path:       resolution.Path,
	}, nil
}

// Stats reports the sidebar counters: stored notes, reminders and, when the
// turn log is enabled, total turns.
func (s *Service) Stats(ctx context.Context) domain.Stats {
	stats := domain.Stats{
		Notes:     s.notes.Len(),
		Reminders: s.reminders.Len(),
	}
	if s.turnLog != nil {
		count, err := s.turnLog.CountTurns(ctx)
		if err != nil {
			s.logger.Warn("count turns failed", "error", err)
		} else {
			stats.Turns = &count
		}
		paths, err := s.turnLog.PathCounts(ctx)
		if err != nil {
			s.logger.Warn("path counts failed", "error", err)
		} else {
			stats.PathCounts = paths
		}
	}
	return stats
}

func (s *Service) newTurnID() string {
	s.ulidMu.Lock()
	defer s.ulidMu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(s.clock()), s.ulidEntropy).String())
}
