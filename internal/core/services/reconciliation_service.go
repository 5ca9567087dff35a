package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/SscSPs/ledenbeheer/internal/core/matching"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/core/statement"
	"github.com/SscSPs/ledenbeheer/internal/report"
	"github.com/google/uuid"
)

const defaultSessionTTL = 2 * time.Hour

type reconciliationService struct {
	BaseService
	feeRepo    portsrepo.FeeRepositoryFacade
	sessions   portsrepo.ReconciliationSessionStore
	sessionTTL time.Duration
}

// ReconciliationServiceOption is a functional option for configuring the reconciliation service
type ReconciliationServiceOption func(*reconciliationService)

// WithSessionTTL sets how long an unconfirmed import is kept.
func WithSessionTTL(ttl time.Duration) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithReconciliationClock replaces time.Now.
func WithReconciliationClock(now func() time.Time) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.clock = now
	}
}

// NewReconciliationService creates a reconciliation service over the fee
// repository and a session store.
func NewReconciliationService(feeRepo portsrepo.FeeRepositoryFacade, sessions portsrepo.ReconciliationSessionStore, options ...ReconciliationServiceOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		feeRepo:    feeRepo,
		sessions:   sessions,
		sessionTTL: defaultSessionTTL,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) ImportStatement(ctx context.Context, format domain.StatementFormat, fileName string, content []byte, userID string) (*domain.ReconciliationSession, error) {
	txs, warnings := statement.Parse(format, string(content))
	for _, w := range warnings {
		s.LogDebug(ctx, "Statement parse warning", slog.Int("line", w.Line), slog.String("warning", w.Message))
	}

	openFees, err := s.feeRepo.ListOpenFees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load open fees for reconciliation")
		return nil, err
	}

	now := s.Now()
	session := domain.ReconciliationSession{
		SessionID: uuid.NewString(),
		Format:    format,
		FileName:  fileName,
		Results:   matching.GuessMatches(txs, openFees),
		Warnings:  warnings,
		OpenFees:  openFees,
		CreatedBy: userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if session.Warnings == nil {
		session.Warnings = []domain.ParseWarning{}
	}

	if err := s.sessions.PutSession(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to store reconciliation session")
		return nil, err
	}

	counts := session.CountByConfidence()
	s.LogInfo(ctx, "Statement imported",
		slog.String("session_id", session.SessionID),
		slog.String("format", string(format)),
		slog.Int("transactions", len(txs)),
		slog.Int("warnings", len(warnings)),
		slog.Int("certain", counts[domain.ConfidenceCertain]),
		slog.Int("possible", counts[domain.ConfidencePossible]),
		slog.Int("unknown", counts[domain.ConfidenceUnknown]))
	return &session, nil
}

func (s *reconciliationService) GetSession(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	return s.sessions.GetSession(ctx, sessionID)
}

func (s *reconciliationService) SetManualMatch(ctx context.Context, sessionID string, index int, feeID *string) (*domain.ReconciliationSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Results) {
		return nil, fmt.Errorf("result index %d out of range: %w", index, apperrors.ErrValidation)
	}

	current := session.Results[index]
	var chosen *domain.Fee
	if feeID != nil {
		if current.Transaction.Debit {
			return nil, fmt.Errorf("a debit line cannot pay a fee: %w", apperrors.ErrValidation)
		}
		fee, ok := session.FindOpenFee(*feeID)
		if !ok {
			return nil, fmt.Errorf("fee %s is not an open fee of this import: %w", *feeID, apperrors.ErrValidation)
		}
		chosen = fee
	}
	session.Results[index] = current.WithManualMatch(chosen)

	if err := s.sessions.PutSession(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to update reconciliation session", slog.String("session_id", sessionID))
		return nil, err
	}

	s.LogDebug(ctx, "Manual match set",
		slog.String("session_id", sessionID),
		slog.Int("index", index),
		slog.String("confidence", string(session.Results[index].Confidence)))
	return session, nil
}

func (s *reconciliationService) ConfirmSession(ctx context.Context, sessionID string, indexes []int, userID string) (*domain.ReconciliationSummary, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var summary domain.ReconciliationSummary
	for attempt := 0; ; attempt++ {
		selected, unselected, err := selectResults(session.Results, indexes)
		if err != nil {
			return nil, err
		}

		summary = matching.ApplyConfirmedMatches(selected)
		for _, r := range unselected {
			if r.Confidence.IsResolved() {
				summary.Skipped = append(summary.Skipped, r)
			} else {
				summary.Unresolved = append(summary.Unresolved, r)
			}
		}
		if len(summary.Applied) == 0 {
			break
		}

		err = s.feeRepo.ApplyPayments(ctx, summary.Applied, userID, s.Now())
		if err == nil {
			break
		}
		if attempt == 0 && errors.Is(err, apperrors.ErrConflict) {
			refreshed, rerr := s.refreshMatchedFees(ctx, session)
			if rerr != nil {
				s.LogError(ctx, rerr, "Failed to reload matched fees", slog.String("session_id", sessionID))
				return nil, rerr
			}
			if refreshed > 0 {
				if perr := s.sessions.PutSession(ctx, *session); perr != nil {
					s.LogError(ctx, perr, "Failed to update reconciliation session", slog.String("session_id", sessionID))
					return nil, perr
				}
				s.LogWarn(ctx, "Fees paid elsewhere since import, retrying without them",
					slog.String("session_id", sessionID),
					slog.Int("refreshed", refreshed))
				continue
			}
		}
		// The session is kept so the board member can retry or adjust
		s.LogError(ctx, err, "Failed to persist payments", slog.String("session_id", sessionID))
		return nil, err
	}

	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.LogWarn(ctx, "Failed to drop confirmed session", slog.String("session_id", sessionID), slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Reconciliation confirmed",
		slog.String("session_id", sessionID),
		slog.Int("applied", len(summary.Applied)),
		slog.Int("unresolved", len(summary.Unresolved)),
		slog.Int("conflicts", len(summary.Conflicts)),
		slog.Int("skipped", len(summary.Skipped)))
	return &summary, nil
}

// refreshMatchedFees reloads the fees matched in the session and replaces the
// copies that are no longer open. It returns how many fees changed.
func (s *reconciliationService) refreshMatchedFees(ctx context.Context, session *domain.ReconciliationSession) (int, error) {
	seen := make(map[string]struct{})
	refreshed := 0
	for _, r := range session.Results {
		if r.Match == nil || !r.Match.IsOpen() {
			continue
		}
		if _, ok := seen[r.Match.FeeID]; ok {
			continue
		}
		seen[r.Match.FeeID] = struct{}{}

		current, err := s.feeRepo.FindFeeByID(ctx, r.Match.FeeID)
		if err != nil {
			return 0, err
		}
		if !current.IsOpen() {
			session.RefreshFee(*current)
			refreshed++
		}
	}
	return refreshed, nil
}

// selectResults splits results into the ones picked by index, in ascending
// order, and the rest. No indexes selects everything.
func selectResults(results []domain.MatchResult, indexes []int) ([]domain.MatchResult, []domain.MatchResult, error) {
	if len(indexes) == 0 {
		return results, nil, nil
	}
	picked := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(results) {
			return nil, nil, fmt.Errorf("result index %d out of range: %w", idx, apperrors.ErrValidation)
		}
		picked[idx] = struct{}{}
	}

	selected := make([]domain.MatchResult, 0, len(picked))
	unselected := make([]domain.MatchResult, 0, len(results)-len(picked))
	for i, r := range results {
		if _, ok := picked[i]; ok {
			selected = append(selected, r)
		} else {
			unselected = append(unselected, r)
		}
	}
	return selected, unselected, nil
}

func (s *reconciliationService) DiscardSession(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.LogError(ctx, err, "Failed to discard session", slog.String("session_id", sessionID))
		return err
	}
	s.LogInfo(ctx, "Reconciliation session discarded", slog.String("session_id", sessionID))
	return nil
}

func (s *reconciliationService) SessionReport(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	body, err := report.ReconciliationWorkbook(session)
	if err != nil {
		s.LogError(ctx, err, "Failed to render reconciliation report", slog.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to render reconciliation report: %w", err)
	}
	return body, nil
}
