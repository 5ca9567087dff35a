package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testFee(id string, method domain.PaymentMethod, due time.Time) domain.Fee {
	return domain.Fee{
		FeeID:        id,
		MemberID:     "m-" + id,
		MemberNumber: "0001",
		PeriodStart:  base,
		PeriodEnd:    base.AddDate(0, 11, 30),
		DueDate:      due,
		Amount:       decimal.RequireFromString("30.00"),
		Method:       method,
		Status:       domain.FeeOpen,
		HasMandate:   method == domain.MethodSEPA,
		AuditFields:  domain.AuditFields{CreatedAt: base},
	}
}

func TestFeeRepository_ListFeesPaginates(t *testing.T) {
	ctx := context.Background()
	var seed []domain.Fee
	for i := 0; i < 5; i++ {
		seed = append(seed, testFee(fmt.Sprintf("f%d", i), domain.MethodTransfer, base.AddDate(0, 0, i)))
	}
	repo := NewFeeRepository(seed...)

	var ids []string
	var token *string
	pages := 0
	for {
		page, next, err := repo.ListFees(ctx, portsrepo.FeeFilter{}, 2, token)
		require.NoError(t, err)
		for _, f := range page {
			ids = append(ids, f.FeeID)
		}
		pages++
		if next == nil {
			break
		}
		token = next
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{"f4", "f3", "f2", "f1", "f0"}, ids, "newest due date first, no duplicates")

	bad := "%%%"
	_, _, err := repo.ListFees(ctx, portsrepo.FeeFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFeeRepository_ListFeesFiltersOnEffectiveStatus(t *testing.T) {
	ctx := context.Background()
	paidAt := base
	paid := testFee("paid", domain.MethodSEPA, base.AddDate(0, 1, 0))
	paid.Status = domain.FeePaid
	paid.PaidAt = &paidAt
	repo := NewFeeRepository(
		testFee("overdue", domain.MethodTransfer, base.AddDate(0, 0, 5)),
		testFee("open", domain.MethodSEPA, base.AddDate(0, 2, 0)),
		paid,
	)
	now := base.AddDate(0, 0, 10)

	overdue, _, err := repo.ListFees(ctx, portsrepo.FeeFilter{Status: domain.FeeOverdue, Now: now}, 10, nil)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "overdue", overdue[0].FeeID)

	open, _, err := repo.ListFees(ctx, portsrepo.FeeFilter{Status: domain.FeeOpen, Now: now}, 10, nil)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "open", open[0].FeeID)

	sepa, _, err := repo.ListFees(ctx, portsrepo.FeeFilter{Method: domain.MethodSEPA, Now: now}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, sepa, 2)

	openFees, err := repo.ListOpenFees(ctx)
	require.NoError(t, err)
	assert.Len(t, openFees, 2)
}

func TestFeeRepository_DueDayIsNotOverdue(t *testing.T) {
	ctx := context.Background()
	due := base.AddDate(0, 0, 14)
	repo := NewFeeRepository(testFee("due-today", domain.MethodTransfer, due))

	evening := due.Add(23*time.Hour + 59*time.Minute)
	overdue, _, err := repo.ListFees(ctx, portsrepo.FeeFilter{Status: domain.FeeOverdue, Now: evening}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, overdue)
	open, _, err := repo.ListFees(ctx, portsrepo.FeeFilter{Status: domain.FeeOpen, Now: evening}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	overdue, _, err = repo.ListFees(ctx, portsrepo.FeeFilter{Status: domain.FeeOverdue, Now: due.AddDate(0, 0, 1)}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)
}

func TestFeeRepository_ApplyPaymentsIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewFeeRepository(
		testFee("a", domain.MethodTransfer, base.AddDate(0, 1, 0)),
		testFee("b", domain.MethodTransfer, base.AddDate(0, 1, 0)),
	)
	paidAt := base.AddDate(0, 0, 3)

	a, _ := repo.FindFeeByID(ctx, "a")
	require.NoError(t, repo.ApplyPayments(ctx, []domain.Fee{a.MarkPaid(paidAt)}, "u1", paidAt))

	b, _ := repo.FindFeeByID(ctx, "b")
	err := repo.ApplyPayments(ctx, []domain.Fee{b.MarkPaid(paidAt), a.MarkPaid(paidAt)}, "u1", paidAt)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := repo.FindFeeByID(ctx, "b")
	require.NoError(t, err)
	assert.True(t, stored.IsOpen(), "b must not be written when a conflicts")

	stored, err = repo.FindFeeByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.FeePaid, stored.Status)
	assert.Equal(t, paidAt, *stored.PaidAt)
	assert.Equal(t, "u1", stored.LastUpdatedBy)
}

func TestFeeRepository_AssignSepaBatchRef(t *testing.T) {
	ctx := context.Background()
	repo := NewFeeRepository(
		testFee("s1", domain.MethodSEPA, base.AddDate(0, 1, 0)),
		testFee("s2", domain.MethodSEPA, base.AddDate(0, 1, 0)),
		testFee("t1", domain.MethodTransfer, base.AddDate(0, 1, 0)),
	)

	err := repo.AssignSepaBatchRef(ctx, "SEPA-1", []string{"s1", "t1"}, "u1", base)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	s1, _ := repo.FindFeeByID(ctx, "s1")
	assert.Nil(t, s1.SepaBatchRef)

	require.NoError(t, repo.AssignSepaBatchRef(ctx, "SEPA-1", []string{"s1"}, "u1", base))
	s1, _ = repo.FindFeeByID(ctx, "s1")
	require.NotNil(t, s1.SepaBatchRef)
	assert.Equal(t, "SEPA-1", *s1.SepaBatchRef)

	err = repo.AssignSepaBatchRef(ctx, "SEPA-2", []string{"s2", "s1"}, "u1", base)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "already batched")
	err = repo.AssignSepaBatchRef(ctx, "SEPA-2", []string{"gone"}, "u1", base)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFeeRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewFeeRepository(testFee("a", domain.MethodTransfer, base))

	f, err := repo.FindFeeByID(ctx, "a")
	require.NoError(t, err)
	f.Status = domain.FeePaid

	again, _ := repo.FindFeeByID(ctx, "a")
	assert.Equal(t, domain.FeeOpen, again.Status)

	_, err = repo.FindFeeByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.SaveFee(ctx, testFee("a", domain.MethodCash, base)), apperrors.ErrDuplicate)

	exists, err := repo.FeeExistsForPeriod(ctx, "m-a", base, base.AddDate(0, 11, 30))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestScreenRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewScreenRepository()

	hall := domain.PublicScreen{ScreenID: "1", Slug: "hall", Kind: domain.ScreenAnnouncement, IsActive: true, SortOrder: 2}
	prayer := domain.PublicScreen{ScreenID: "2", Slug: "prayer", Kind: domain.ScreenPrayerTimes, SortOrder: 1}
	require.NoError(t, repo.SaveScreen(ctx, hall))
	require.NoError(t, repo.SaveScreen(ctx, prayer))
	assert.ErrorIs(t, repo.SaveScreen(ctx, domain.PublicScreen{ScreenID: "3", Slug: "hall"}), apperrors.ErrDuplicate)

	all, err := repo.ListScreens(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "prayer", all[0].Slug, "ordered by sort order")

	active, err := repo.ListScreens(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	prayer.Slug = "hall"
	assert.ErrorIs(t, repo.UpdateScreen(ctx, prayer), apperrors.ErrDuplicate)

	found, err := repo.FindScreenBySlug(ctx, "hall")
	require.NoError(t, err)
	assert.Equal(t, "1", found.ScreenID)

	require.NoError(t, repo.RemoveScreen(ctx, "1"))
	assert.ErrorIs(t, repo.RemoveScreen(ctx, "1"), apperrors.ErrNotFound)
	_, err = repo.FindScreenByID(ctx, "1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: "u1", Username: "admin", Email: "Admin@Example.org"}))
	assert.ErrorIs(t, repo.SaveUser(ctx, domain.User{UserID: "u2", Username: "admin"}), apperrors.ErrDuplicate)

	u, err := repo.FindUserByEmail(ctx, "admin@example.org")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)

	_, err = repo.FindUserByEmail(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_ExpiryAndCopies(t *testing.T) {
	ctx := context.Background()
	now := base
	store := NewSessionStore(WithStoreClock(func() time.Time { return now }))

	fee := testFee("a", domain.MethodTransfer, base)
	session := domain.ReconciliationSession{
		SessionID: "s1",
		Results:   []domain.MatchResult{{Match: &fee, Confidence: domain.ConfidencePossible}},
		OpenFees:  []domain.Fee{fee},
		ExpiresAt: base.Add(time.Hour),
	}
	require.NoError(t, store.PutSession(ctx, session))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	got.Results[0].Confidence = domain.ConfidenceUnknown
	got.Results[0].Match.Status = domain.FeePaid

	again, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConfidencePossible, again.Results[0].Confidence)
	assert.Equal(t, domain.FeeOpen, again.Results[0].Match.Status)

	now = base.Add(time.Hour)
	_, err = store.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = store.GetSession(ctx, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}

func TestPendingBatchStore(t *testing.T) {
	ctx := context.Background()
	now := base
	store := NewPendingBatchStore(time.Minute, WithStoreClock(func() time.Time { return now }))

	batch := domain.SepaBatch{BatchRef: "SEPA-20260101-000000", XML: []byte("<Document/>")}
	require.NoError(t, store.AddBatch(ctx, batch))
	assert.ErrorIs(t, store.AddBatch(ctx, batch), apperrors.ErrDuplicate)

	got, err := store.GetBatch(ctx, batch.BatchRef)
	require.NoError(t, err)
	assert.Equal(t, batch.XML, got.XML)

	now = base.Add(time.Minute)
	_, err = store.GetBatch(ctx, batch.BatchRef)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	require.NoError(t, store.AddBatch(ctx, batch), "an expired reference can be reused")
	require.NoError(t, store.DeleteBatch(ctx, batch.BatchRef))
	_, err = store.GetBatch(ctx, batch.BatchRef)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}
