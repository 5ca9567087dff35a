package sepa

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	batchRefLayout   = "20060102-150405"
	creationLayout   = "2006-01-02T15:04:05"
	collectionLayout = "2006-01-02"
)

// Generator renders direct debit batches for one creditor.
type Generator struct {
	creditor domain.SepaCreditor
	now      func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator for creditor.
func NewGenerator(creditor domain.SepaCreditor, opts ...GeneratorOption) *Generator {
	g := &Generator{creditor: creditor, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BatchRef formats the reference of a batch created at t.
func BatchRef(t time.Time) string {
	return domain.SepaBatchRefPrefix + t.Format(batchRefLayout)
}

// GenerateBatch renders fees as one pain.008 document. It does not filter:
// callers pass the Eligible list of SelectEligible. An empty list produces a
// valid document with zero transactions and a control sum of 0.00.
func (g *Generator) GenerateBatch(fees []domain.Fee, executionDate time.Time) (domain.SepaBatch, error) {
	now := g.now()
	ref := BatchRef(now)

	total := decimal.Zero
	for _, f := range fees {
		total = total.Add(f.Amount)
	}
	total = total.Round(2)

	included := make([]domain.Fee, len(fees))
	copy(included, fees)

	doc := g.document(ref, now, len(fees), total, executionDate)
	body, err := encode(doc)
	if err != nil {
		return domain.SepaBatch{}, fmt.Errorf("failed to render sepa batch %s: %w", ref, err)
	}

	return domain.SepaBatch{
		BatchRef:      ref,
		CreatedAt:     now,
		ExecutionDate: executionDate,
		Fees:          included,
		TotalAmount:   total,
		XML:           body,
	}, nil
}

func (g *Generator) document(ref string, now time.Time, count int, total decimal.Decimal, executionDate time.Time) Document {
	ctrlSum := total.StringFixed(2)

	var party *PartyName
	if g.creditor.Name != "" {
		party = &PartyName{Name: g.creditor.Name}
	}
	var scheme *CreditorScheme
	if g.creditor.CreditorID != "" {
		scheme = &CreditorScheme{ID: g.creditor.CreditorID, SchemeName: "SEPA"}
	}

	return Document{
		Initiation: CustomerDirectDebit{
			GroupHeader: GroupHeader{
				MessageID:        ref,
				CreationDateTime: now.Format(creationLayout),
				NumberOfTxs:      count,
				ControlSum:       ctrlSum,
				InitiatingParty:  party,
			},
			PaymentInfo: PaymentInfo{
				PaymentInfoID: ref,
				PaymentMethod: "DD",
				NumberOfTxs:   count,
				ControlSum:    ctrlSum,
				PaymentType: PaymentType{
					ServiceLevel:    "SEPA",
					LocalInstrument: "CORE",
					SequenceType:    "RCUR",
				},
				RequestedCollectionDt: executionDate.Format(collectionLayout),
				Creditor:              party,
				CreditorAccountIBAN:   g.creditor.IBAN,
				CreditorAgentBIC:      g.creditor.BIC,
				CreditorSchemeID:      scheme,
			},
		},
	}
}

func encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
