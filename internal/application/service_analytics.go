package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/novascore/credit-engine/internal/domain"
)

// UPIAnalyse implements upi.analyse: either the caller supplies raw
// transactions directly, or a previously fetched FI session is replayed.
func (s *Service) UPIAnalyse(ctx context.Context, req UPIAnalyseRequest) (UpiAnalytics, error) {
	transactions := req.Transactions
	if len(transactions) == 0 {
		if req.SessionID == "" {
			return UpiAnalytics{}, fmt.Errorf("%w: transactions or session_id is required", domain.ErrInvalidInput)
		}
		session, err := s.fiSessions.GetBySessionID(ctx, req.SessionID)
		if err != nil {
			return UpiAnalytics{}, err
		}
		if session == nil {
			return UpiAnalytics{}, domain.ErrNotFound
		}
		fetched, err := s.FIFetch(ctx, FIFetchRequest{SessionID: req.SessionID})
		if err != nil {
			return UpiAnalytics{}, err
		}
		transactions = append(fetched.Analysis.Credits, fetched.Analysis.Debits...)
	}
	return AnalyzeUPI(transactions, nil), nil
}

// GSTFetch implements gst.fetch: validates the GSTIN, pulls filings from
// the configured GSP, and degrades to a synthesised sample on unreachability.
func (s *Service) GSTFetch(ctx context.Context, req GSTFetchRequest) (ComplianceReport, error) {
	if err := ValidateGSTIN(req.GSTIN); err != nil {
		return ComplianceReport{}, err
	}

	filings, err := s.fetchGSTFilings(ctx, req.GSTIN)
	if err != nil {
		s.logDegraded(ctx, "gst.fetch", "GSP unreachable, using synthesised filings")
		filings = sampleGSTFilings(s.nowFn())
	}
	return AnalyzeGSTCompliance(filings), nil
}

func (s *Service) fetchGSTFilings(ctx context.Context, gstin string) ([]domain.GSTFiling, error) {
	if s.cfg.GSPBaseURL == "" {
		return nil, domain.ErrUpstreamUnreachable
	}
	resp, err := s.http.Get(ctx, fmt.Sprintf("%s/filings/%s", s.cfg.GSPBaseURL, gstin), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	var filings []domain.GSTFiling
	if err := json.Unmarshal(resp.Body, &filings); err != nil {
		return nil, fmt.Errorf("%w: malformed GSP response", domain.ErrUpstreamUnreachable)
	}
	return filings, nil
}

func sampleGSTFilings(now time.Time) []domain.GSTFiling {
	filings := make([]domain.GSTFiling, 0, 3)
	for i := 0; i < 3; i++ {
		period := time.Date(now.Year(), now.Month()-time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		filings = append(filings, domain.GSTFiling{
			ReturnType: domain.GSTR3B,
			Period:     period,
			FilingDate: period.AddDate(0, 1, 15),
			Turnover:   500000,
			TaxPaid:    45000,
		})
	}
	return filings
}

// UtilityFetch implements utility.fetch: pulls bills from the
// configured BBPS endpoint and degrades to a synthesised sample on unreachability.
func (s *Service) UtilityFetch(ctx context.Context, req UtilityFetchRequest) (ReliabilityReport, error) {
	if req.Mobile == "" && req.CustomerID == "" {
		return ReliabilityReport{}, fmt.Errorf("%w: mobile or customer_id is required", domain.ErrInvalidInput)
	}

	bills, err := s.fetchUtilityBills(ctx, req)
	if err != nil {
		s.logDegraded(ctx, "utility.fetch", "BBPS unreachable, using synthesised bills")
		bills = sampleUtilityBills(s.nowFn())
	}
	return AnalyzeUtilityReliability(bills), nil
}

func (s *Service) fetchUtilityBills(ctx context.Context, req UtilityFetchRequest) ([]domain.Bill, error) {
	if s.cfg.BBPSBaseURL == "" {
		return nil, domain.ErrUpstreamUnreachable
	}
	key := req.CustomerID
	if key == "" {
		key = req.Mobile
	}
	resp, err := s.http.Get(ctx, fmt.Sprintf("%s/bills/%s", s.cfg.BBPSBaseURL, key), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	var bills []domain.Bill
	if err := json.Unmarshal(resp.Body, &bills); err != nil {
		return nil, fmt.Errorf("%w: malformed BBPS response", domain.ErrUpstreamUnreachable)
	}
	return bills, nil
}

func sampleUtilityBills(now time.Time) []domain.Bill {
	due := now.AddDate(0, -1, 0)
	paidOnTime := due.Add(-24 * time.Hour)
	paidLate := due.Add(72 * time.Hour)
	return []domain.Bill{
		{BillID: "sample-1", Category: "ELECTRICITY", Amount: 1800, DueDate: &due, PaidDate: &paidOnTime, Status: "PAID"},
		{BillID: "sample-2", Category: "WATER", Amount: 400, DueDate: &due, PaidDate: &paidLate, Status: "PAID"},
	}
}

// BehaviourQuestions implements behaviour.questions.
func (s *Service) BehaviourQuestions() ([]QuizQuestionView, []int, error) {
	return SelectQuizQuestions()
}

// BehaviourSubmit implements behaviour.submit.
func (s *Service) BehaviourSubmit(req BehaviourSubmitRequest) (ScoredQuiz, error) {
	return ScoreQuiz(QuizQuestionPool, req.OfferedIDs, req.Responses)
}

// SocialConnect implements social.connect: validates the supplied
// profile URLs, fetches per-platform metadata and persists the minimal record.
func (s *Service) SocialConnect(ctx context.Context, req SocialConnectRequest) (SocialScoreResult, error) {
	profiles, err := ValidateSocialURLs(req.ProfileURLs)
	if err != nil {
		return SocialScoreResult{}, err
	}
	metrics, err := fetchAll(ctx, s.platformFetcher, profiles)
	if err != nil {
		return SocialScoreResult{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}

	now := s.nowFn()
	aggregate := AggregateSocialMetrics(metrics, now)

	result := SocialScoreResult{
		SessionID:     uuid.NewString(),
		SocialScore:   aggregate.SocialScore,
		PlatformsUsed: aggregate.PlatformsUsed,
		CreatedAt:     now,
	}
	s.socialStore.put(result)
	return result, nil
}

// Score implements the aggregated single-endpoint scoring surface kept
// alongside the rich per-source operations (see DESIGN.md open-question
// decision on the duplicated entry points).
func (s *Service) Score(req ScoreRequest) (domain.NovaScoreResult, error) {
	result, err := ComputeNovaScore(req.Inputs, s.nowFn().UnixMilli())
	if err != nil {
		return domain.NovaScoreResult{}, err
	}
	s.auditLog.record(auditEntry{
		AuditHash: result.AuditHash,
		Score:     result.Score,
		Tier:      string(result.Tier),
		CreatedAt: s.nowFn().UTC().Format(time.RFC3339),
	})
	return result, nil
}
