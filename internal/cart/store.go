package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
	"github.com/demolux/storefront/pkg/metrics"
	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the cart session id.
const SessionCookie = "demolux_cart_session"

// NewSessionID returns a fresh cart session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like an id issued by NewSessionID.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// Store is the cart of one session. Stored state is loaded on first access and
// the state is written back after every transition.
type Store struct {
	sessionID string
	storage   Storage
	metrics   *metrics.CartMetrics
	logg      *logger.Logger

	mu       sync.Mutex
	state    State
	hydrated bool
}

// State returns the current cart.
func (s *Store) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hydrate(ctx); err != nil {
		return Empty(), err
	}
	return s.state, nil
}

// Dispatch applies action and persists the resulting state.
func (s *Store) Dispatch(ctx context.Context, action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hydrate(ctx); err != nil {
		return Empty(), err
	}

	next := Reduce(s.state, action)
	s.metrics.IncAction(action.Name())
	if err := s.persist(ctx, next); err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

func (s *Store) hydrate(ctx context.Context) error {
	if s.hydrated {
		return nil
	}
	raw, err := s.storage.Load(ctx, s.sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	s.state = Empty()
	if len(raw) > 0 {
		var stored State
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.metrics.IncCorrupt()
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"session_id": s.sessionID,
				"error":      err.Error(),
			}), "cart.corrupt_state_reset")
		} else {
			s.state = Reduce(s.state, LoadCart{State: stored})
		}
	}
	s.hydrated = true
	return nil
}

func (s *Store) persist(ctx context.Context, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.storage.Save(ctx, s.sessionID, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Service hands out per-session stores.
type Service interface {
	Store(sessionID string) (*Store, error)
}

type service struct {
	storage Storage
	metrics *metrics.CartMetrics
	logg    *logger.Logger
}

// NewService builds the cart service on top of storage.
func NewService(storage Storage, m *metrics.CartMetrics, logg *logger.Logger) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{storage: storage, metrics: m, logg: logg}, nil
}

func (s *service) Store(sessionID string) (*Store, error) {
	if !ValidSessionID(sessionID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session")
	}
	return &Store{
		sessionID: strings.TrimSpace(sessionID),
		storage:   s.storage,
		metrics:   s.metrics,
		logg:      s.logg,
	}, nil
}
