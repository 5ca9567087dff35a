package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// feeRecord is one fee in a fee file. Dates are YYYY-MM-DD; paidAt also
// accepts RFC 3339. JSON files decode through the same YAML tags.
type feeRecord struct {
	FeeID        string `yaml:"feeID"`
	MemberID     string `yaml:"memberID"`
	MemberNumber string `yaml:"memberNumber"`
	FirstName    string `yaml:"firstName"`
	LastName     string `yaml:"lastName"`
	PeriodStart  string `yaml:"periodStart"`
	PeriodEnd    string `yaml:"periodEnd"`
	DueDate      string `yaml:"dueDate"`
	Amount       string `yaml:"amount"`
	Method       string `yaml:"method"`
	Status       string `yaml:"status"`
	PaidAt       string `yaml:"paidAt"`
	HasMandate   bool   `yaml:"hasMandate"`
	SepaBatchRef string `yaml:"sepaBatchRef"`
}

type feeFile struct {
	Fees []feeRecord `yaml:"fees"`
}

// loadFees reads a fee file. A missing dueDate is derived from periodEnd and dueDays.
func loadFees(path string, dueDays int) ([]domain.Fee, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fee file: %w", err)
	}
	return parseFees(raw, dueDays)
}

func parseFees(raw []byte, dueDays int) ([]domain.Fee, error) {
	var file feeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode fee file: %w", err)
	}

	now := time.Now().UTC()
	fees := make([]domain.Fee, 0, len(file.Fees))
	seen := make(map[string]bool, len(file.Fees))
	for i, rec := range file.Fees {
		fee, err := rec.toDomain(dueDays, now)
		if err != nil {
			return nil, fmt.Errorf("fee #%d (%s): %w", i+1, rec.MemberNumber, err)
		}
		if seen[fee.FeeID] {
			return nil, fmt.Errorf("fee #%d: duplicate feeID %q", i+1, fee.FeeID)
		}
		seen[fee.FeeID] = true
		fees = append(fees, fee)
	}
	return fees, nil
}

func (r feeRecord) toDomain(dueDays int, now time.Time) (domain.Fee, error) {
	periodStart, err := parseDay("periodStart", r.PeriodStart)
	if err != nil {
		return domain.Fee{}, err
	}
	periodEnd, err := parseDay("periodEnd", r.PeriodEnd)
	if err != nil {
		return domain.Fee{}, err
	}
	dueDate := domain.DueDateForPeriod(periodEnd, dueDays)
	if r.DueDate != "" {
		if dueDate, err = parseDay("dueDate", r.DueDate); err != nil {
			return domain.Fee{}, err
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return domain.Fee{}, fmt.Errorf("invalid amount %q", r.Amount)
	}

	fee := domain.Fee{
		FeeID:           r.FeeID,
		MemberID:        r.MemberID,
		MemberNumber:    r.MemberNumber,
		MemberFirstName: r.FirstName,
		MemberLastName:  r.LastName,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		DueDate:         dueDate,
		Amount:          amount.Round(2),
		Method:          domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(r.Method))),
		Status:          domain.FeeOpen,
		HasMandate:      r.HasMandate,
	}
	if fee.FeeID == "" {
		fee.FeeID = uuid.NewString()
	}
	if fee.MemberID == "" {
		fee.MemberID = fee.MemberNumber
	}
	if r.Status != "" {
		fee.Status = domain.FeeStatus(strings.ToUpper(strings.TrimSpace(r.Status)))
	}
	if r.PaidAt != "" {
		paidAt, err := parseTimestamp(r.PaidAt)
		if err != nil {
			return domain.Fee{}, err
		}
		fee.PaidAt = &paidAt
		fee.Status = domain.FeePaid
	}
	if r.SepaBatchRef != "" {
		ref := r.SepaBatchRef
		fee.SepaBatchRef = &ref
	}
	fee.CreatedAt = now
	fee.CreatedBy = cliUser
	fee.LastUpdatedAt = now
	fee.LastUpdatedBy = cliUser

	if err := fee.Validate(); err != nil {
		return domain.Fee{}, err
	}
	return fee, nil
}

func parseDay(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", field, s)
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return parseDay("paidAt", s)
}
