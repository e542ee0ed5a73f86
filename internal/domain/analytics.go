package domain

import "time"

// Bill is one utility bill record fed into the reliability analyser.
type Bill struct {
	BillID   string     `json:"bill_id"`
	Category string     `json:"category"`  // ELECTRICITY, WATER, GAS, BROADBAND, MOBILE_POSTPAID
	Amount   float64    `json:"amount"`
	DueDate  *time.Time `json:"due_date"`
	PaidDate *time.Time `json:"paid_date"`
	Status   string     `json:"status"`    // PAID, UNPAID
}

// UtilityCategories enumerates the billers tracked in the per-category rollup.
var UtilityCategories = []string{"ELECTRICITY", "WATER", "GAS", "BROADBAND", "MOBILE_POSTPAID"}

// GSTReturnType enumerates the filing types the compliance analyser classifies.
type GSTReturnType string

const (
	GSTR1  GSTReturnType = "GSTR-1"
	GSTR3B GSTReturnType = "GSTR-3B"
)

// GSTFiling is one filing period's record fed into the compliance analyser.
type GSTFiling struct {
	ReturnType   GSTReturnType `json:"return_type"`
	Period       time.Time     `json:"period"` // first day of the filing month
	FilingDate   time.Time     `json:"filing_date"`
	Turnover     float64       `json:"turnover"`
	TaxPaid      float64       `json:"tax_paid"`
}

// QuizQuestion is one entry in the fixed 20-question behavioural pool.
type QuizQuestion struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// QuizResponse is a single answered question.
type QuizResponse struct {
	ID     int    `json:"id"`
	Choice string `json:"choice"`
}

// SocialPlatformMetrics is what a PlatformFetcher returns for one connected profile.
type SocialPlatformMetrics struct {
	Platform             string    `json:"platform"`
	Identifier           string    `json:"identifier"`
	NetworkSize          int       `json:"network"`
	PostsLast6Months     int       `json:"posts_last_6_months"`
	AccountCreatedAt     time.Time `json:"account_created_at"`
	InteractionRate      float64   `json:"interaction_rate"`
}
