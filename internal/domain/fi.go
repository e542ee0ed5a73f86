package domain

import "time"

// FISessionStatus tracks the AA fetch pipeline session state.
type FISessionStatus string

const (
	FISessionPending FISessionStatus = "PENDING"
	FISessionReady   FISessionStatus = "READY"
	FISessionFailed  FISessionStatus = "FAILED"
)

// FISession is the per-txn_id record spanning FI/request and FI/fetch.
type FISession struct {
	TxnID               string          `json:"txn_id"`
	SessionID           string          `json:"session_id"`
	ConsentID           string          `json:"consent_id"`
	FIType              FIType          `json:"fi_type"`
	MaskedAccountNumber string          `json:"masked_account_number,omitempty"`
	Status              FISessionStatus `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	Payload             []byte          `json:"payload"`
	JWSSignature        string          `json:"jws_signature"`
	SessionKey          []byte          `json:"-"` // travels with the session only in degraded/dev mode, never persisted
	Degraded            bool            `json:"degraded"`
}

// TransactionType is CREDIT or DEBIT.
type TransactionType string

const (
	TxnCredit TransactionType = "CREDIT"
	TxnDebit  TransactionType = "DEBIT"
)

// Transaction is the normalised shape every raw AA transaction record maps to.
type Transaction struct {
	TxnID     string          `json:"txn_id"`
	Date      time.Time       `json:"date"`
	Type      TransactionType `json:"type"`
	Mode      string          `json:"mode"`
	Amount    float64         `json:"amount"`
	Balance   float64         `json:"balance"`
	Narration string          `json:"narration"`
	Reference string          `json:"reference"`
	Category  string          `json:"category"`
}

// Categories is the fixed narration-keyword category table used by the transaction analysers.
var Categories = []string{
	"Salary", "Rent", "Utilities", "EMI", "Investment", "Shopping", "Food", "Travel", "UPI_Transfer",
}

// CategoryMisc is the fallback category for uncategorised transactions.
const CategoryMisc = "Misc"
