package matching

import (
	"testing"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyConfirmedMatches(t *testing.T) {
	a := openFee("a", "0001", "30.00")
	b := openFee("b", "0002", "45.00")
	txDate := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	results := []domain.MatchResult{
		{Transaction: credit("30.00", "0001"), Match: &a, Confidence: domain.ConfidenceCertain},
		{Transaction: credit("45.00", ""), Match: &b, Confidence: domain.ConfidenceManual},
		{Transaction: credit("10.00", "?"), Confidence: domain.ConfidenceUnknown},
		{Transaction: credit("30.00", "0001 again"), Match: &a, Confidence: domain.ConfidencePossible},
	}

	summary := ApplyConfirmedMatches(results)

	require.Len(t, summary.Applied, 2)
	for _, f := range summary.Applied {
		assert.Equal(t, domain.FeePaid, f.Status)
		require.NotNil(t, f.PaidAt)
		assert.Equal(t, txDate, *f.PaidAt)
	}
	assert.Equal(t, "a", summary.Applied[0].FeeID)
	assert.Equal(t, "b", summary.Applied[1].FeeID)

	require.Len(t, summary.Unresolved, 1)
	assert.Equal(t, "?", summary.Unresolved[0].Transaction.Description)

	require.Len(t, summary.Conflicts, 1)
	assert.Equal(t, "0001 again", summary.Conflicts[0].Transaction.Description)

	// inputs untouched
	assert.Equal(t, domain.FeeOpen, a.Status)
	assert.Nil(t, a.PaidAt)
}

func TestApplyConfirmedMatches_EdgeCases(t *testing.T) {
	paid := openFee("p", "0001", "30.00").MarkPaid(time.Now())
	open := openFee("o", "0002", "30.00")
	undated := credit("30.00", "")
	undated.Date = time.Time{}

	summary := ApplyConfirmedMatches([]domain.MatchResult{
		{Transaction: credit("30.00", ""), Confidence: domain.ConfidenceCertain},
		{Transaction: undated, Match: &open, Confidence: domain.ConfidenceManual},
		{Transaction: credit("30.00", ""), Match: &paid, Confidence: domain.ConfidenceManual},
	})

	assert.Empty(t, summary.Applied)
	assert.Len(t, summary.Unresolved, 2)
	assert.Len(t, summary.Conflicts, 1)
}

func TestApplyConfirmedMatches_Empty(t *testing.T) {
	summary := ApplyConfirmedMatches(nil)
	assert.NotNil(t, summary.Applied)
	assert.Empty(t, summary.Applied)
	assert.Empty(t, summary.Unresolved)
	assert.Empty(t, summary.Conflicts)
}
