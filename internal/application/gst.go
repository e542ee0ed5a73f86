package application

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

// ComplianceReport is the output of AnalyzeGSTCompliance.
type ComplianceReport struct {
	ComplianceScore float64                       `json:"complianceScore"`
	AvgTurnover     float64                       `json:"avgTurnover"`
	Breakdown       map[string]GSTReturnBreakdown `json:"breakdown"`
	Filings         []GSTFilingResult             `json:"filings"`
}

// GSTReturnBreakdown is the per-return-type rollup.
type GSTReturnBreakdown struct {
	Total          int     `json:"total"`
	OnTime         int     `json:"onTime"`
	Delayed        int     `json:"delayed"`
	TotalTurnover  float64 `json:"totalTurnover"`
	TotalTaxPaid   float64 `json:"totalTaxPaid"`
	ComplianceRate float64 `json:"complianceRate"`
}

// GSTFilingResult classifies one filing.
type GSTFilingResult struct {
	ReturnType string    `json:"returnType"`
	DueDate    time.Time `json:"dueDate"`
	FilingDate time.Time `json:"filingDate"`
	Status     string    `json:"status"`     // ON_TIME, DELAYED
	DelayDays  int       `json:"delayDays"`
}

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ValidateGSTIN checks the 15-character GSTIN shape.
func ValidateGSTIN(gstin string) error {
	if !gstinPattern.MatchString(gstin) {
		return fmt.Errorf("%w: malformed gstin", domain.ErrInvalidInput)
	}
	return nil
}

// ExtractPANFromGSTIN pulls the embedded 10-character PAN out of a valid GSTIN.
func ExtractPANFromGSTIN(gstin string) (string, error) {
	if err := ValidateGSTIN(gstin); err != nil {
		return "", err
	}
	return gstin[2:12], nil
}

// gstDueDate returns the due date for a filing period, per return type.
// Both types fall due in the month after the filing period, at 23:59:59 local.
func gstDueDate(returnType domain.GSTReturnType, period time.Time) time.Time {
	nextMonth := time.Date(period.Year(), period.Month()+1, 1, 23, 59, 59, 0, period.Location())
	day := 20
	if returnType == domain.GSTR1 {
		day = 11
	}
	return time.Date(nextMonth.Year(), nextMonth.Month(), day, 23, 59, 59, 0, period.Location())
}

// AnalyzeGSTCompliance classifies filings and aggregates compliance metrics.
func AnalyzeGSTCompliance(filings []domain.GSTFiling) ComplianceReport {
	breakdown := make(map[string]GSTReturnBreakdown)
	results := make([]GSTFilingResult, 0, len(filings))
	var onTimeTotal int
	var turnoverSum float64

	for _, f := range filings {
		due := gstDueDate(f.ReturnType, f.Period)
		status := "ON_TIME"
		delayDays := 0
		if f.FilingDate.After(due) {
			status = "DELAYED"
			delayDays = int(math.Ceil(f.FilingDate.Sub(due).Seconds() / 86400))
			if delayDays < 1 {
				delayDays = 1
			}
		}
		results = append(results, GSTFilingResult{
			ReturnType: string(f.ReturnType),
			DueDate:    due,
			FilingDate: f.FilingDate,
			Status:     status,
			DelayDays:  delayDays,
		})

		key := string(f.ReturnType)
		b := breakdown[key]
		b.Total++
		b.TotalTurnover += f.Turnover
		b.TotalTaxPaid += f.TaxPaid
		if status == "ON_TIME" {
			b.OnTime++
			onTimeTotal++
		} else {
			b.Delayed++
		}
		breakdown[key] = b
		turnoverSum += f.Turnover
	}

	for key, b := range breakdown {
		if b.Total > 0 {
			b.ComplianceRate = round4(float64(b.OnTime) / float64(b.Total))
		}
		b.TotalTurnover = round2(b.TotalTurnover)
		b.TotalTaxPaid = round2(b.TotalTaxPaid)
		breakdown[key] = b
	}

	complianceScore := 0.0
	avgTurnover := 0.0
	if len(filings) > 0 {
		complianceScore = round4(float64(onTimeTotal) / float64(len(filings)))
		avgTurnover = round2(turnoverSum / float64(len(filings)))
	}

	return ComplianceReport{
		ComplianceScore: complianceScore,
		AvgTurnover:     avgTurnover,
		Breakdown:       breakdown,
		Filings:         results,
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
