package application

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

// TransactionAnalysis is the output of ParseAndAnalyzeTransactions.
type TransactionAnalysis struct {
	TotalInflow       float64                  `json:"totalInflow"`
	TotalOutflow      float64                  `json:"totalOutflow"`
	NetFlow           float64                  `json:"netFlow"`
	SavingsRate       float64                  `json:"savingsRate"`
	CreditCount       int                      `json:"creditCount"`
	DebitCount        int                      `json:"debitCount"`
	CategoryBreakdown map[string]CategoryTotal `json:"categoryBreakdown"`
	RecurringPayments []RecurringGroup         `json:"recurringPayments"`
	Credits           []domain.Transaction     `json:"credits"`
	Debits            []domain.Transaction     `json:"debits"`
}

// CategoryTotal is one entry of the category breakdown.
type CategoryTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// RecurringGroup is one detected recurring-payment cluster.
type RecurringGroup struct {
	Key       string  `json:"key"`
	Count     int     `json:"count"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

var narrationCategoryKeywords = map[string]string{
	"salary": "Salary", "sal ": "Salary",
	"rent": "Rent",
	"electricity": "Utilities", "water bill": "Utilities", "utility": "Utilities", "utilities": "Utilities",
	"emi": "EMI", "loan": "EMI",
	"mutual fund": "Investment", "sip": "Investment", "investment": "Investment",
	"amazon": "Shopping", "flipkart": "Shopping", "shopping": "Shopping",
	"swiggy": "Food", "zomato": "Food", "restaurant": "Food", "food": "Food",
	"irctc": "Travel", "flight": "Travel", "uber": "Travel", "ola": "Travel", "travel": "Travel",
	"upi": "UPI_Transfer",
}

var creditKeywords = regexp.MustCompile(`(?i)credit|received|deposit`)

// ParseTransactions dispatches over the five accepted upstream shapes and
// returns the raw record list, tolerant of the shape actually received.
func ParseTransactions(raw []byte) ([]map[string]any, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: malformed transaction payload", domain.ErrInvalidInput)
	}

	switch v := generic.(type) {
	case []any:
		return toRecordSlice(v), nil
	case map[string]any:
		if records := digStringPath(v, "Account", "Transactions", "Transaction"); records != nil {
			return toRecordSlice(asSlice(records)), nil
		}
		if records, ok := v["Transactions"]; ok {
			return toRecordSlice(asSlice(records)), nil
		}
		if records, ok := v["transactions"]; ok {
			return toRecordSlice(asSlice(records)), nil
		}
		if records, ok := v["data"]; ok {
			return toRecordSlice(asSlice(records)), nil
		}
		if looksLikeTransaction(v) {
			return []map[string]any{v}, nil
		}
		return nil, fmt.Errorf("%w: unrecognised transaction payload shape", domain.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unrecognised transaction payload shape", domain.ErrInvalidInput)
	}
}

func digStringPath(v map[string]any, path ...string) any {
	cur := any(v)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		next, ok := m[key]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// asSlice normalises "array or single object" into a slice.
func asSlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case nil:
		return nil
	default:
		return []any{t}
	}
}

func toRecordSlice(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func looksLikeTransaction(v map[string]any) bool {
	for _, key := range []string{"amount", "Amount", "narration", "Narration", "txnId", "TxnId"} {
		if _, ok := v[key]; ok {
			return true
		}
	}
	return false
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func firstNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func nonNegativeReal(v float64, ok bool) float64 {
	if !ok || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// NormalizeTransaction maps one raw record to the Transaction schema.
func NormalizeTransaction(raw map[string]any) domain.Transaction {
	narration := firstString(raw, "narration", "Narration", "description", "Description")
	txnType := classifyTransactionType(firstString(raw, "type", "Type", "txnType", "TxnType"), narration)
	amountVal, amountOK := firstNumber(raw, "amount", "Amount", "txnAmount", "TxnAmount")
	balanceVal, balanceOK := firstNumber(raw, "balance", "Balance", "runningBalance", "RunningBalance")

	var date time.Time
	if raw2 := firstString(raw, "date", "Date", "valueDate", "ValueDate", "txnDate"); raw2 != "" {
		if parsed, err := time.Parse(time.RFC3339, raw2); err == nil {
			date = parsed
		} else if parsed, err := time.Parse("2006-01-02", raw2); err == nil {
			date = parsed
		}
	}

	return domain.Transaction{
		TxnID:     firstString(raw, "txnId", "TxnId", "id", "reference", "Reference"),
		Date:      date,
		Type:      txnType,
		Mode:      firstString(raw, "mode", "Mode"),
		Amount:    nonNegativeReal(amountVal, amountOK),
		Balance:   nonNegativeReal(balanceVal, balanceOK),
		Narration: narration,
		Reference: firstString(raw, "reference", "Reference"),
		Category:  categorizeNarration(narration),
	}
}

func classifyTransactionType(explicit, narration string) domain.TransactionType {
	switch strings.ToUpper(strings.TrimSpace(explicit)) {
	case "CREDIT", "CR", "C":
		return domain.TxnCredit
	case "DEBIT", "DR", "D":
		return domain.TxnDebit
	}
	if creditKeywords.MatchString(narration) {
		return domain.TxnCredit
	}
	return domain.TxnDebit
}

func categorizeNarration(narration string) string {
	lower := strings.ToLower(narration)
	for keyword, category := range narrationCategoryKeywords {
		if strings.Contains(lower, keyword) {
			return category
		}
	}
	return domain.CategoryMisc
}

// AnalyzeTransactions computes credit/debit analytics over a normalised slice.
func AnalyzeTransactions(transactions []domain.Transaction) TransactionAnalysis {
	credits := make([]domain.Transaction, 0)
	debits := make([]domain.Transaction, 0)
	categoryBreakdown := make(map[string]CategoryTotal)
	var totalInflow, totalOutflow float64

	for _, txn := range transactions {
		bucket := categoryBreakdown[txn.Category]
		bucket.Count++
		bucket.Amount += txn.Amount
		categoryBreakdown[txn.Category] = bucket

		if txn.Type == domain.TxnCredit {
			credits = append(credits, txn)
			totalInflow += txn.Amount
		} else {
			debits = append(debits, txn)
			totalOutflow += txn.Amount
		}
	}

	totalInflow = round2(totalInflow)
	totalOutflow = round2(totalOutflow)
	netFlow := round2(totalInflow - totalOutflow)
	savingsRate := 0.0
	if totalInflow != 0 {
		savingsRate = round2(netFlow / totalInflow)
	}
	for cat, bucket := range categoryBreakdown {
		bucket.Amount = round2(bucket.Amount)
		categoryBreakdown[cat] = bucket
	}

	return TransactionAnalysis{
		TotalInflow:       totalInflow,
		TotalOutflow:      totalOutflow,
		NetFlow:           netFlow,
		SavingsRate:       savingsRate,
		CreditCount:       len(credits),
		DebitCount:        len(debits),
		CategoryBreakdown: categoryBreakdown,
		RecurringPayments: detectRecurringPayments(debits),
		Credits:           capSlice(credits, 50),
		Debits:            capSlice(debits, 50),
	}
}

func detectRecurringPayments(debits []domain.Transaction) []RecurringGroup {
	type group struct {
		key    string
		amount float64
		count  int
	}
	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, txn := range debits {
		narrPrefix := txn.Narration
		if len(narrPrefix) > 10 {
			narrPrefix = narrPrefix[:10]
		}
		key := fmt.Sprintf("%.2f|%s", txn.Amount, narrPrefix)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, amount: txn.Amount}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
	}

	result := make([]RecurringGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.count < 2 {
			continue
		}
		frequency := "Monthly"
		if g.count > 5 {
			frequency = "Weekly/Biweekly"
		}
		result = append(result, RecurringGroup{
			Key:       g.key,
			Count:     g.count,
			Amount:    round2(g.amount),
			Frequency: frequency,
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return capSlice(result, 5)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func capSlice[T any](items []T, max int) []T {
	if len(items) <= max {
		return items
	}
	return items[:max]
}

// ParseAndAnalyzeTransactions is the entry point exercised by FI/fetch
// handoff and by the standalone upi.analyse/credit.process operations.
func ParseAndAnalyzeTransactions(raw []byte) (TransactionAnalysis, []domain.Transaction, error) {
	records, err := ParseTransactions(raw)
	if err != nil {
		return TransactionAnalysis{}, nil, err
	}
	transactions := make([]domain.Transaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, NormalizeTransaction(record))
	}
	return AnalyzeTransactions(transactions), transactions, nil
}
