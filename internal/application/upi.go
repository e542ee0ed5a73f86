package application

import (
	"math"
	"sort"
	"strings"

	"github.com/novascore/credit-engine/internal/domain"
)

// UpiAnalytics is the output of AnalyzeUPI.
type UpiAnalytics struct {
	TransactionCount       int              `json:"transactionCount"`
	TotalVolume            float64          `json:"totalVolume"`
	AvgTransactionAmt      float64          `json:"avgTransactionAmt"`
	MonthlyFrequency       map[string]int   `json:"monthlyFrequency"`
	MCCBreakdown           []MCCRollup      `json:"mccBreakdown"`
	MerchantDiversityScore float64          `json:"merchantDiversityScore"`
	TopMerchants           []MerchantVolume `json:"topMerchants"`
}

// MCCRollup is the per-merchant-category rollup.
type MCCRollup struct {
	MCC      string  `json:"mcc"`
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Volume   float64 `json:"volume"`
}

// MerchantVolume is one top-merchant entry.
type MerchantVolume struct {
	Narration string  `json:"narration"`
	Volume    float64 `json:"volume"`
}

var mccNarrationPatterns = []struct {
	keyword  string
	mcc      string
	category string
}{
	{"salary", "6012", "Salary"},
	{"rent", "6513", "Rent"},
	{"utility", "4900", "Utility"},
	{"grocer", "5411", "Grocery"},
	{"fuel", "5541", "Fuel"},
	{"telecom", "4812", "Telecom"},
	{"insurance", "6300", "Insurance"},
	{"healthcare", "8062", "Healthcare"},
	{"shopping", "5311", "Shopping"},
	{"food", "5812", "Food"},
	{"transport", "4121", "Transport"},
	{"professional", "7392", "Professional"},
	{"loan", "6010", "Loan/EMI"},
	{"emi", "6010", "Loan/EMI"},
	{"investment", "6211", "Investment"},
}

func inferMCC(narration string) (mcc, category string) {
	lower := strings.ToLower(narration)
	for _, p := range mccNarrationPatterns {
		if strings.Contains(lower, p.keyword) {
			return p.mcc, p.category
		}
	}
	return "0000", "Uncategorised"
}

// AnalyzeUPI filters mode="UPI" (case-insensitive) and computes inflow/outflow analytics.
func AnalyzeUPI(transactions []domain.Transaction, mccOf func(domain.Transaction) (string, string)) UpiAnalytics {
	if mccOf == nil {
		mccOf = func(t domain.Transaction) (string, string) { return inferMCC(t.Narration) }
	}

	upi := make([]domain.Transaction, 0)
	for _, txn := range transactions {
		if strings.EqualFold(txn.Mode, "UPI") {
			upi = append(upi, txn)
		}
	}

	monthlyFrequency := make(map[string]int)
	rollups := make(map[string]*MCCRollup)
	merchantVolume := make(map[string]float64)
	var totalVolume float64

	for _, txn := range upi {
		totalVolume += txn.Amount
		if !txn.Date.IsZero() {
			monthlyFrequency[txn.Date.Format("2006-01")]++
		}
		mcc, category := mccOf(txn)
		r, ok := rollups[mcc]
		if !ok {
			r = &MCCRollup{MCC: mcc, Category: category}
			rollups[mcc] = r
		}
		r.Count++
		r.Volume += txn.Amount
		merchantVolume[txn.Narration] += txn.Amount
	}

	mccBreakdown := make([]MCCRollup, 0, len(rollups))
	for _, r := range rollups {
		r.Volume = round2(r.Volume)
		mccBreakdown = append(mccBreakdown, *r)
	}
	sort.Slice(mccBreakdown, func(i, j int) bool { return mccBreakdown[i].MCC < mccBreakdown[j].MCC })

	topMerchants := make([]MerchantVolume, 0, len(merchantVolume))
	for narration, volume := range merchantVolume {
		topMerchants = append(topMerchants, MerchantVolume{Narration: narration, Volume: round2(volume)})
	}
	sort.Slice(topMerchants, func(i, j int) bool { return topMerchants[i].Volume > topMerchants[j].Volume })
	topMerchants = capSlice(topMerchants, 10)

	avg := 0.0
	if len(upi) > 0 {
		avg = round2(totalVolume / float64(len(upi)))
	}

	return UpiAnalytics{
		TransactionCount:       len(upi),
		TotalVolume:            round2(totalVolume),
		AvgTransactionAmt:      avg,
		MonthlyFrequency:       monthlyFrequency,
		MCCBreakdown:           mccBreakdown,
		MerchantDiversityScore: shannonDiversity(rollups),
		TopMerchants:           topMerchants,
	}
}

// shannonDiversity computes the normalised Shannon entropy over MCC category counts.
func shannonDiversity(rollups map[string]*MCCRollup) float64 {
	n := len(rollups)
	total := 0
	for _, r := range rollups {
		total += r.Count
	}
	if n <= 1 || total == 0 {
		return 0
	}
	var entropy float64
	for _, r := range rollups {
		p := float64(r.Count) / float64(total)
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}
	score := entropy / math.Log(float64(n))
	return math.Round(score*1000) / 1000
}
