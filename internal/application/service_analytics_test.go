package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/novascore/credit-engine/internal/adapters/memstore"
	"github.com/novascore/credit-engine/internal/adapters/socialfetch"
	"github.com/novascore/credit-engine/internal/domain"
)

func newAnalyticsService() *Service {
	return NewService(Dependencies{
		Config:          Config{},
		Consents:        memstore.NewConsentStore(),
		FISessions:      memstore.NewFISessionStore(),
		Identity:        memstore.NewIdentityStore(),
		PlatformFetcher: socialfetch.NewSampleFetcher(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	})
}

func TestUPIAnalyse_UsesSuppliedTransactionsDirectly(t *testing.T) {
	svc := newAnalyticsService()
	txns := []domain.Transaction{
		{Amount: 500, Type: domain.TxnCredit, Mode: "UPI", Narration: "payment from friend"},
		{Amount: 200, Type: domain.TxnDebit, Mode: "UPI", Narration: "grocery store"},
	}
	result, err := svc.UPIAnalyse(context.Background(), UPIAnalyseRequest{Transactions: txns})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TransactionCount != 2 {
		t.Errorf("expected 2 UPI transactions counted, got %d", result.TransactionCount)
	}
}

func TestUPIAnalyse_RejectsWhenNeitherTransactionsNorSessionSupplied(t *testing.T) {
	svc := newAnalyticsService()
	if _, err := svc.UPIAnalyse(context.Background(), UPIAnalyseRequest{}); err == nil {
		t.Fatal("expected an error when neither transactions nor session_id is supplied")
	}
}

func TestUPIAnalyse_ReplaysDegradedFISession(t *testing.T) {
	svc, consentID := newFIService(scriptedHTTP{err: errors.New("unreachable")})
	reqResp, err := svc.FIRequest(context.Background(), FIRequestRequest{ConsentID: consentID, FIType: "UPI"})
	if err != nil {
		t.Fatalf("unexpected error requesting: %v", err)
	}

	result, err := svc.UPIAnalyse(context.Background(), UPIAnalyseRequest{SessionID: reqResp.SessionID})
	if err != nil {
		t.Fatalf("unexpected error analysing a degraded session's transactions: %v", err)
	}
	if result.TransactionCount == 0 {
		t.Error("expected the synthesised sample transactions to be counted")
	}
}

func TestUPIAnalyse_RejectsUnknownSessionID(t *testing.T) {
	svc := newAnalyticsService()
	if _, err := svc.UPIAnalyse(context.Background(), UPIAnalyseRequest{SessionID: "missing"}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGSTFetch_DegradesToSampleFilingsWithoutGSPConfigured(t *testing.T) {
	svc := newAnalyticsService()
	report, err := svc.GSTFetch(context.Background(), GSTFetchRequest{GSTIN: "27AAPFU0939F1ZV"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Filings) == 0 {
		t.Error("expected a synthesised sample of filings when no GSP is configured")
	}
}

func TestGSTFetch_RejectsInvalidGSTIN(t *testing.T) {
	svc := newAnalyticsService()
	if _, err := svc.GSTFetch(context.Background(), GSTFetchRequest{GSTIN: "not-a-gstin"}); err == nil {
		t.Fatal("expected an error for an invalid GSTIN")
	}
}

func TestUtilityFetch_DegradesToSampleBillsWithoutBBPSConfigured(t *testing.T) {
	svc := newAnalyticsService()
	report, err := svc.UtilityFetch(context.Background(), UtilityFetchRequest{Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ReliabilityScore == 0 {
		t.Error("expected a nonzero reliability score from the synthesised sample bills")
	}
}

func TestUtilityFetch_RejectsMissingIdentifier(t *testing.T) {
	svc := newAnalyticsService()
	if _, err := svc.UtilityFetch(context.Background(), UtilityFetchRequest{}); err == nil {
		t.Fatal("expected an error when neither mobile nor customer_id is supplied")
	}
}

func TestBehaviourQuestions_ReturnsSelectableQuiz(t *testing.T) {
	svc := newAnalyticsService()
	views, ids, err := svc.BehaviourQuestions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != len(ids) {
		t.Errorf("expected matching views/ids lengths, got %d/%d", len(views), len(ids))
	}
}

func TestSocialConnect_AggregatesFetchedMetrics(t *testing.T) {
	svc := newAnalyticsService()
	result, err := svc.SocialConnect(context.Background(), SocialConnectRequest{
		ProfileURLs: []string{"https://www.linkedin.com/in/jane-doe/"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if len(result.PlatformsUsed) != 1 {
		t.Errorf("expected 1 platform used, got %d", len(result.PlatformsUsed))
	}
}

func TestSocialConnect_RejectsUnrecognisedURLs(t *testing.T) {
	svc := newAnalyticsService()
	if _, err := svc.SocialConnect(context.Background(), SocialConnectRequest{ProfileURLs: []string{"https://example.com/x"}}); err == nil {
		t.Fatal("expected an error when no profile URL is recognised")
	}
}

func TestScore_RecordsAuditEntry(t *testing.T) {
	svc := newAnalyticsService()
	result, err := svc.Score(ScoreRequest{Inputs: NovaScoreInputs{UPIInflow: 1000, UPIOutflow: 1000}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recent := svc.auditLog.recent(1)
	if len(recent) != 1 || recent[0].AuditHash != result.AuditHash {
		t.Errorf("expected the score to be recorded in the audit ring, got %+v", recent)
	}
}
