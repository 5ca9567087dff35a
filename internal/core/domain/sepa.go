package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SepaBatchRefPrefix prefixes every generated batch reference.
const SepaBatchRefPrefix = "SEPA-"

// SepaBatch is a snapshot of one direct debit export. It is never stored as
// an entity; only BatchRef is written back onto the included fees.
type SepaBatch struct {
	BatchRef      string          `json:"batchRef"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExecutionDate time.Time       `json:"executionDate"`
	Fees          []Fee           `json:"fees"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	XML           []byte          `json:"-"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// FileName is the download name of the batch document.
func (b SepaBatch) FileName() string {
	return b.BatchRef + ".xml"
}

// SepaEligibility splits a fee list for direct debit export.
type SepaEligibility struct {
	Eligible []Fee `json:"eligible"`
	// MissingMandate are SEPA fees that are open but cannot be collected.
	MissingMandate []Fee `json:"missingMandate"`
	// AlreadyBatched are open SEPA fees that were included in an earlier batch.
	AlreadyBatched []Fee    `json:"alreadyBatched"`
	Warnings       []string `json:"warnings"`
}

// SepaCreditor identifies the collecting organisation in the export.
type SepaCreditor struct {
	Name       string
	IBAN       string
	BIC        string
	CreditorID string
}
