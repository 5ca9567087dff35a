package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/apperrors"
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/SscSPs/ledenbeheer/internal/models"
	"github.com/SscSPs/ledenbeheer/internal/utils/mapping"
	"github.com/SscSPs/ledenbeheer/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feeColumns = `
	fee_id, member_id, member_number, member_first_name, member_last_name,
	period_start, period_end, due_date, amount, payment_method, status,
	paid_at, has_mandate, sepa_batch_ref,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxFeeRepository struct {
	BaseRepository
}

func newPgxFeeRepository(pool *pgxpool.Pool) *PgxFeeRepository {
	return &PgxFeeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.FeeRepositoryFacade = (*PgxFeeRepository)(nil)
	_ portsrepo.RepositoryWithTx    = (*PgxFeeRepository)(nil)
)

func scanFee(row pgx.Row) (models.Fee, error) {
	var m models.Fee
	err := row.Scan(
		&m.FeeID,
		&m.MemberID,
		&m.MemberNumber,
		&m.MemberFirstName,
		&m.MemberLastName,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.DueDate,
		&m.Amount,
		&m.PaymentMethod,
		&m.Status,
		&m.PaidAt,
		&m.HasMandate,
		&m.SepaBatchRef,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectFees(rows pgx.Rows) ([]models.Fee, error) {
	defer rows.Close()
	result := make([]models.Fee, 0)
	for rows.Next() {
		m, err := scanFee(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fee row", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fee rows", err)
	}
	return result, nil
}

func (r *PgxFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE fee_id = $1;`
	m, err := scanFee(r.Pool.QueryRow(ctx, query, feeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fee "+feeID, err)
	}
	fee := mapping.ToDomainFee(m)
	return &fee, nil
}

// overdueCutoff is the latest due date that is overdue at now.
func overdueCutoff(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -1)
}

// ListFees pages through fees with keyset pagination on
// (due_date, created_at, fee_id). OVERDUE is evaluated against filter.Now:
// a fee turns overdue at midnight UTC after its due date, like
// Fee.EffectiveStatus, so the due date is compared with now minus one day.
func (r *PgxFeeRepository) ListFees(ctx context.Context, filter portsrepo.FeeFilter, limit int, nextToken *string) ([]domain.Fee, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	conditions := make([]string, 0, 4)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	switch filter.Status {
	case "":
	case domain.FeePaid:
		conditions = append(conditions, "status = 'PAID'")
	case domain.FeeOpen:
		conditions = append(conditions, "status = 'OPEN' AND due_date > "+arg(overdueCutoff(filter.Now))+"::timestamp")
	case domain.FeeOverdue:
		conditions = append(conditions, "status = 'OPEN' AND due_date <= "+arg(overdueCutoff(filter.Now))+"::timestamp")
	default:
		return nil, nil, fmt.Errorf("%w: unknown fee status %q", apperrors.ErrValidation, filter.Status)
	}
	if filter.Method != "" {
		conditions = append(conditions, "payment_method = "+arg(string(filter.Method)))
	}
	if filter.MemberNumber != "" {
		conditions = append(conditions, "member_number = "+arg(filter.MemberNumber))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		conditions = append(conditions, fmt.Sprintf("(due_date, created_at, fee_id) < (%s, %s, %s)",
			arg(cursor.SortDate), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := `SELECT ` + feeColumns + ` FROM fees`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY due_date DESC, created_at DESC, fee_id DESC LIMIT " + arg(fetchLimit) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query fees", err)
	}
	modelFees, err := collectFees(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(modelFees) > limit {
		last := modelFees[limit-1]
		token := pagination.EncodeToken(last.DueDate, last.CreatedAt, last.FeeID)
		nextTokenVal = &token
		modelFees = modelFees[:limit]
	}
	return mapping.ToDomainFeeSlice(modelFees), nextTokenVal, nil
}

func (r *PgxFeeRepository) ListOpenFees(ctx context.Context) ([]domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees
		WHERE status = 'OPEN' AND paid_at IS NULL
		ORDER BY due_date ASC, member_number ASC, fee_id ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open fees", err)
	}
	modelFees, err := collectFees(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainFeeSlice(modelFees), nil
}

func (r *PgxFeeRepository) FeeExistsForPeriod(ctx context.Context, memberID string, periodStart, periodEnd time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM fees WHERE member_id = $1 AND period_start = $2 AND period_end = $3
	);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, memberID, periodStart, periodEnd).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check fee for member "+memberID, err)
	}
	return exists, nil
}

func (r *PgxFeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	m := mapping.ToModelFee(fee)
	query := `INSERT INTO fees (` + feeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`
	_, err := r.Pool.Exec(ctx, query,
		m.FeeID,
		m.MemberID,
		m.MemberNumber,
		m.MemberFirstName,
		m.MemberLastName,
		m.PeriodStart,
		m.PeriodEnd,
		m.DueDate,
		m.Amount,
		m.PaymentMethod,
		m.Status,
		m.PaidAt,
		m.HasMandate,
		m.SepaBatchRef,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("fee for member %s and period already exists: %w", m.MemberID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save fee "+m.FeeID, err)
	}
	return nil
}

type lockedFee struct {
	status       string
	method       string
	paidAt       *time.Time
	sepaBatchRef *string
}

// lockFees selects the given fees FOR UPDATE inside tx. Missing fees are
// absent from the returned map.
func lockFees(ctx context.Context, tx pgx.Tx, feeIDs []string) (map[string]lockedFee, error) {
	rows, err := tx.Query(ctx, `
		SELECT fee_id, status, payment_method, paid_at, sepa_batch_ref
		FROM fees WHERE fee_id = ANY($1)
		ORDER BY fee_id
		FOR UPDATE;`, feeIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock fees", err)
	}
	defer rows.Close()

	locked := make(map[string]lockedFee, len(feeIDs))
	for rows.Next() {
		var id string
		var l lockedFee
		if err := rows.Scan(&id, &l.status, &l.method, &l.paidAt, &l.sepaBatchRef); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked fee", err)
		}
		locked[id] = l
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked fees", err)
	}
	return locked, nil
}

// ApplyPayments marks fees paid in a single transaction. The rows are locked
// first so a concurrent confirm cannot pay the same fee twice.
func (r *PgxFeeRepository) ApplyPayments(ctx context.Context, fees []domain.Fee, userID string, at time.Time) error {
	if len(fees) == 0 {
		return nil
	}
	ids := make([]string, len(fees))
	for i, f := range fees {
		if f.PaidAt == nil {
			return fmt.Errorf("fee %s has no payment date: %w", f.FeeID, apperrors.ErrValidation)
		}
		ids[i] = f.FeeID
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := lockFees(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		l, ok := locked[id]
		if !ok {
			return fmt.Errorf("fee %s no longer exists: %w", id, apperrors.ErrConflict)
		}
		if l.status == string(domain.FeePaid) || l.paidAt != nil {
			return fmt.Errorf("fee %s is already paid: %w", id, apperrors.ErrConflict)
		}
	}

	for _, f := range fees {
		_, err := tx.Exec(ctx, `
			UPDATE fees
			SET status = 'PAID', paid_at = $1, last_updated_at = $2, last_updated_by = $3
			WHERE fee_id = $4;`,
			*f.PaidAt, at, userID, f.FeeID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark fee "+f.FeeID+" paid", err)
		}
	}
	return r.Commit(ctx, tx)
}

func (r *PgxFeeRepository) AssignSepaBatchRef(ctx context.Context, batchRef string, feeIDs []string, userID string, at time.Time) error {
	if len(feeIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := lockFees(ctx, tx, feeIDs)
	if err != nil {
		return err
	}
	for _, id := range feeIDs {
		l, ok := locked[id]
		if !ok {
			return fmt.Errorf("fee %s no longer exists: %w", id, apperrors.ErrConflict)
		}
		if l.status != string(domain.FeeOpen) || l.paidAt != nil || l.method != string(domain.MethodSEPA) || l.sepaBatchRef != nil {
			return fmt.Errorf("fee %s can no longer be collected in this batch: %w", id, apperrors.ErrConflict)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE fees
		SET sepa_batch_ref = $1, last_updated_at = $2, last_updated_by = $3
		WHERE fee_id = ANY($4);`,
		batchRef, at, userID, feeIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to assign batch reference "+batchRef, err)
	}
	if tag.RowsAffected() != int64(len(locked)) {
		return fmt.Errorf("batch %s updated %d of %d fees: %w", batchRef, tag.RowsAffected(), len(locked), apperrors.ErrConflict)
	}
	return r.Commit(ctx, tx)
}
