package application

import (
	"math"
	"sort"

	"github.com/novascore/credit-engine/internal/domain"
)

// ReliabilityReport is the output of AnalyzeUtilityReliability.
type ReliabilityReport struct {
	ReliabilityScore  float64                          `json:"reliabilityScore"`
	ConsistencyScore  int                              `json:"consistencyScore"`
	OnTime            int                              `json:"onTime"`
	MinorDelays       int                              `json:"minorDelays"`
	MajorDelays       int                              `json:"majorDelays"`
	Unpaid            int                              `json:"unpaid"`
	Trend             string                           `json:"trend"`             // IMPROVING, DECLINING, STABLE
	CategoryBreakdown map[string]UtilityCategoryRollup `json:"categoryBreakdown"`
}

// UtilityCategoryRollup is the per-category rollup.
type UtilityCategoryRollup struct {
	Total         int     `json:"total"`
	OnTime        int     `json:"onTime"`
	MinorDelay    int     `json:"minorDelay"`
	MajorDelay    int     `json:"majorDelay"`
	Unpaid        int     `json:"unpaid"`
	TotalAmount   float64 `json:"totalAmount"`
	WeightedScore float64 `json:"weightedScore"`
}

var billPoints = map[string]int{"ON_TIME": 10, "MINOR_DELAY": 6, "MAJOR_DELAY": 2, "UNPAID": 0}

// classifyBill applies the reliability classification rules to one bill.
func classifyBill(bill domain.Bill) string {
	if bill.Status == "UNPAID" || bill.PaidDate == nil {
		return "UNPAID"
	}
	if bill.DueDate == nil {
		return "MAJOR_DELAY"
	}
	if !bill.PaidDate.After(*bill.DueDate) {
		return "ON_TIME"
	}
	delayDays := int(math.Ceil(bill.PaidDate.Sub(*bill.DueDate).Hours() / 24))
	if delayDays <= 5 {
		return "MINOR_DELAY"
	}
	return "MAJOR_DELAY"
}

// AnalyzeUtilityReliability classifies bills and aggregates reliability metrics.
func AnalyzeUtilityReliability(bills []domain.Bill) ReliabilityReport {
	report := ReliabilityReport{CategoryBreakdown: make(map[string]UtilityCategoryRollup)}
	if len(bills) == 0 {
		return report
	}

	sorted := make([]domain.Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].DueDate, sorted[j].DueDate
		if di == nil || dj == nil {
			return false
		}
		return di.Before(*dj)
	})

	earnedTotal := 0
	points := make([]int, 0, len(sorted))
	for _, bill := range sorted {
		status := classifyBill(bill)
		earned := billPoints[status]
		earnedTotal += earned
		points = append(points, earned)

		switch status {
		case "ON_TIME":
			report.OnTime++
		case "MINOR_DELAY":
			report.MinorDelays++
		case "MAJOR_DELAY":
			report.MajorDelays++
		case "UNPAID":
			report.Unpaid++
		}

		rollup := report.CategoryBreakdown[bill.Category]
		rollup.Total++
		rollup.TotalAmount += bill.Amount
		switch status {
		case "ON_TIME":
			rollup.OnTime++
		case "MINOR_DELAY":
			rollup.MinorDelay++
		case "MAJOR_DELAY":
			rollup.MajorDelay++
		case "UNPAID":
			rollup.Unpaid++
		}
		report.CategoryBreakdown[bill.Category] = rollup
	}

	total := len(sorted)
	report.ReliabilityScore = math.Round(float64(earnedTotal)/float64(total*10)*100*100) / 100
	report.ConsistencyScore = int(math.Round(float64(report.OnTime) / float64(total) * 100))
	report.Trend = computeTrend(points)

	for category, rollup := range report.CategoryBreakdown {
		rollup.TotalAmount = round2(rollup.TotalAmount)
		if rollup.Total > 0 {
			earnedInCategory := rollup.OnTime*10 + rollup.MinorDelay*6 + rollup.MajorDelay*2
			rollup.WeightedScore = math.Round(float64(earnedInCategory)/float64(rollup.Total*10)*100*100) / 100
		}
		report.CategoryBreakdown[category] = rollup
	}

	return report
}

// computeTrend compares the mean of the last 3 chronological bills to the overall mean.
func computeTrend(points []int) string {
	if len(points) < 4 {
		return "STABLE"
	}
	overallMean := mean(points)
	recentMean := mean(points[len(points)-3:])
	diff := recentMean - overallMean
	switch {
	case diff > 1:
		return "IMPROVING"
	case diff < -1:
		return "DECLINING"
	default:
		return "STABLE"
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
