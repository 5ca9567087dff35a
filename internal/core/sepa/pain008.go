package sepa

import "encoding/xml"

// Namespace of the customer direct debit initiation message.
const Namespace = "urn:iso:std:iso:20022:tech:xsd:pain.008.001.02"

// Document is the root of a pain.008 message. Only the group header and one
// payment information block are produced; per-debtor DrctDbtTxInf entries
// are not part of the export.
type Document struct {
	XMLName    xml.Name            `xml:"urn:iso:std:iso:20022:tech:xsd:pain.008.001.02 Document"`
	Initiation CustomerDirectDebit `xml:"CstmrDrctDbtInitn"`
}

type CustomerDirectDebit struct {
	GroupHeader GroupHeader `xml:"GrpHdr"`
	PaymentInfo PaymentInfo `xml:"PmtInf"`
}

type GroupHeader struct {
	MessageID        string     `xml:"MsgId"`
	CreationDateTime string     `xml:"CreDtTm"`
	NumberOfTxs      int        `xml:"NbOfTxs"`
	ControlSum       string     `xml:"CtrlSum"`
	InitiatingParty  *PartyName `xml:"InitgPty,omitempty"`
}

type PartyName struct {
	Name string `xml:"Nm"`
}

type PaymentInfo struct {
	PaymentInfoID         string          `xml:"PmtInfId"`
	PaymentMethod         string          `xml:"PmtMtd"`
	NumberOfTxs           int             `xml:"NbOfTxs"`
	ControlSum            string          `xml:"CtrlSum"`
	PaymentType           PaymentType     `xml:"PmtTpInf"`
	RequestedCollectionDt string          `xml:"ReqdColltnDt"`
	Creditor              *PartyName      `xml:"Cdtr,omitempty"`
	CreditorAccountIBAN   string          `xml:"CdtrAcct>Id>IBAN,omitempty"`
	CreditorAgentBIC      string          `xml:"CdtrAgt>FinInstnId>BIC,omitempty"`
	CreditorSchemeID      *CreditorScheme `xml:"CdtrSchmeId,omitempty"`
}

type PaymentType struct {
	ServiceLevel    string `xml:"SvcLvl>Cd"`
	LocalInstrument string `xml:"LclInstrm>Cd"`
	SequenceType    string `xml:"SeqTp"`
}

type CreditorScheme struct {
	ID         string `xml:"Id>PrvtId>Othr>Id"`
	SchemeName string `xml:"Id>PrvtId>Othr>SchmeNm>Prtry"`
}
