// Package models holds the shared types and wire constants of the consent
// domain.
package models

// HTTP header names carried by consent API requests.
const (
	HeaderConsentCustodianID = "x-cm-consent-custodian-id"
	HeaderConsentRequestID   = "x-cm-consent-request-id"
	HeaderPerformerID        = "x-cm-performer-id"
	HeaderDataRecipientID    = "x-cm-data-recipient-id"
	HeaderDataCustodianID    = "x-cm-data-custodian-id"
	HeaderIssuerID           = "x-hpass-issuer-id"
)

// Collection name prefixes. Each consent custodian gets its own set of
// collections named "<prefix>-<custodianID>".
const (
	PrefixConsentRequests     = "consent-requests"
	PrefixConsentReceipts     = "consent-receipts"
	PrefixConsentTransactions = "consent-transactions"
)

// RequestsCollection returns the consent request collection for a custodian.
func RequestsCollection(custodianID string) string {
	return PrefixConsentRequests + "-" + custodianID
}

// ReceiptsCollection returns the consent receipt collection for a custodian.
func ReceiptsCollection(custodianID string) string {
	return PrefixConsentReceipts + "-" + custodianID
}

// TransactionsCollection returns the consent transaction collection for a custodian.
func TransactionsCollection(custodianID string) string {
	return PrefixConsentTransactions + "-" + custodianID
}

// Status is the lifecycle state of a consent request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// CustodianConfig is the consent configuration of an organization as served
// by the organization directory.
type CustodianConfig struct {
	OrgID           string
	IssuerID        string
	ConsentSchemaID string
	MapperName      string
}

// Transaction records one action taken against an issued consent receipt.
// Timestamp is epoch seconds.
type Transaction struct {
	ReceiptID string `json:"receiptID"`
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

// ActionCollect is recorded when a consent receipt is issued.
const ActionCollect = "collect"

// CreateRequest is the body of a consent request creation call. Field order
// matters: validation reports the first missing field in this order.
type CreateRequest struct {
	Performer     string `json:"performer"`
	DataCustodian string `json:"dataCustodian"`
	DataRecipient string `json:"dataRecipient"`
	Purpose       string `json:"purpose"`
	Datatype      string `json:"datatype"`
}

// ReceiptQuery identifies the receipts to return. All fields are required and
// validated in declaration order.
type ReceiptQuery struct {
	ConsentCustodian string
	DataCustodian    string
	DataRecipient    string
	Performer        string
	Purpose          string
	Datatype         string
}

// Selector returns the document-store selector matching this query. The
// consent custodian is not part of the selector since it names the
// collection.
func (q ReceiptQuery) Selector() map[string]any {
	return map[string]any{
		"dataCustodian": q.DataCustodian,
		"dataRecipient": q.DataRecipient,
		"performer":     q.Performer,
		"purpose":       q.Purpose,
		"datatype":      q.Datatype,
	}
}

// Invitation is the body of a consent invitation call.
type Invitation struct {
	ConsentRequest map[string]any `json:"consentRequest"`
	Contact        string         `json:"contact" validate:"required,email"`
}
