package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
)

// SessionStore keeps reconciliation sessions until their ExpiresAt.
// Values are copied on the way in and out so callers never share slices.
type SessionStore struct {
	sessions sync.Map // sessionID -> domain.ReconciliationSession
	now      func() time.Time
}

// StoreOption configures the in-memory stores.
type StoreOption func(*storeOptions)

type storeOptions struct {
	now func() time.Time
}

// WithStoreClock replaces time.Now for expiry checks.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.now = now
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewSessionStore(opts ...StoreOption) *SessionStore {
	o := applyStoreOptions(opts)
	return &SessionStore{now: o.now}
}

var _ portsrepo.ReconciliationSessionStore = (*SessionStore)(nil)

func (s *SessionStore) PutSession(ctx context.Context, session domain.ReconciliationSession) error {
	s.sweep()
	s.sessions.Store(session.SessionID, cloneSession(session))
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	v, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionExpired
	}
	session := v.(domain.ReconciliationSession)
	if s.expired(session.ExpiresAt) {
		s.sessions.Delete(sessionID)
		return nil, apperrors.ErrSessionExpired
	}
	c := cloneSession(session)
	return &c, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.sessions.Delete(sessionID)
	return nil
}

func (s *SessionStore) expired(at time.Time) bool {
	return !at.IsZero() && !s.now().Before(at)
}

func (s *SessionStore) sweep() {
	s.sessions.Range(func(key, value any) bool {
		if s.expired(value.(domain.ReconciliationSession).ExpiresAt) {
			s.sessions.Delete(key)
		}
		return true
	})
}

// PendingBatchStore keeps prepared SEPA batches for a fixed TTL.
type PendingBatchStore struct {
	batches sync.Map // batchRef -> *pendingBatch
	ttl     time.Duration
	now     func() time.Time
}

type pendingBatch struct {
	batch     domain.SepaBatch
	expiresAt time.Time
}

func NewPendingBatchStore(ttl time.Duration, opts ...StoreOption) *PendingBatchStore {
	o := applyStoreOptions(opts)
	return &PendingBatchStore{ttl: ttl, now: o.now}
}

var _ portsrepo.PendingBatchStore = (*PendingBatchStore)(nil)

func (s *PendingBatchStore) AddBatch(ctx context.Context, batch domain.SepaBatch) error {
	entry := &pendingBatch{batch: cloneBatch(batch), expiresAt: s.now().Add(s.ttl)}
	for {
		existing, loaded := s.batches.LoadOrStore(batch.BatchRef, entry)
		if !loaded {
			return nil
		}
		if s.now().Before(existing.(*pendingBatch).expiresAt) {
			return apperrors.ErrDuplicate
		}
		// Expired: drop it (unless another caller already replaced it) and retry
		s.batches.CompareAndDelete(batch.BatchRef, existing)
	}
}

func (s *PendingBatchStore) GetBatch(ctx context.Context, batchRef string) (*domain.SepaBatch, error) {
	v, ok := s.batches.Load(batchRef)
	if !ok {
		return nil, apperrors.ErrSessionExpired
	}
	entry := v.(*pendingBatch)
	if !s.now().Before(entry.expiresAt) {
		s.batches.Delete(batchRef)
		return nil, apperrors.ErrSessionExpired
	}
	b := cloneBatch(entry.batch)
	return &b, nil
}

func (s *PendingBatchStore) DeleteBatch(ctx context.Context, batchRef string) error {
	s.batches.Delete(batchRef)
	return nil
}
