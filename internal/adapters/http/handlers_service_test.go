package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/novascore/credit-engine/internal/adapters/memstore"
	"github.com/novascore/credit-engine/internal/adapters/security"
	"github.com/novascore/credit-engine/internal/adapters/socialfetch"
	"github.com/novascore/credit-engine/internal/application"
	"github.com/novascore/credit-engine/internal/ports"
)

// fakeHTTP always fails the outbound call, forcing every Aadhaar dispatch
// down the degraded/test-OTP path without touching the network.
type fakeHTTP struct{}

func (fakeHTTP) Post(ctx context.Context, url string, headers map[string]string, body []byte) (ports.HTTPResponse, error) {
	return ports.HTTPResponse{}, errors.New("connection refused")
}
func (fakeHTTP) Get(ctx context.Context, url string, headers map[string]string) (ports.HTTPResponse, error) {
	return ports.HTTPResponse{}, errors.New("connection refused")
}

// newFullService wires every adapter with in-memory/degraded defaults so the
// full router can be exercised end to end without any live dependency.
func newFullService() *application.Service {
	return application.NewService(application.Dependencies{
		Config: application.Config{
			DegradedMode:    true,
			TestOTP:         "123456",
			OTPMaxAttempts:  3,
			LockoutDuration: time.Minute,
			JWTExpiry:       time.Hour,
			UIDAIAuthURL:    "https://uidai.example/otp/",
			AUACode:         "AUA1",
			SubAUACode:      "SUB1",
			LicenseKey:      "license",
		},
		Http:            fakeHTTP{},
		Identity:        memstore.NewIdentityStore(),
		Consents:        memstore.NewConsentStore(),
		FISessions:      memstore.NewFISessionStore(),
		Sealer:          security.NewAESGCM(),
		KeyWrapper:      security.NewRSAOAEPWrapper(),
		TokenSigner:     security.NewHMACTokenSigner([]byte("test-secret"), time.Hour),
		JWSSigner:       security.NewDetachedJWSSigner("client-1", nil, []byte("hmac-secret"), true),
		PlatformFetcher: socialfetch.NewSampleFetcher(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	})
}

func newFullRouter() (http.Handler, *application.Service) {
	svc := newFullService()
	return NewRouter(NewHandler(svc)), svc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response envelope: %v, body=%s", err, rec.Body.String())
	}
	return out
}

func TestAadhaarInitiateHandler_DegradedModeReturnsTxnID(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/aadhaar/initiate", map[string]string{"aadhaar": "123456789012"})
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	if data["txn_id"] == "" || data["txn_id"] == nil {
		t.Errorf("expected a non-empty txn_id, got %+v", data)
	}
}

func TestAadhaarInitiateHandler_RejectsMalformedInput(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/aadhaar/initiate", map[string]string{"aadhaar": "not-digits"})
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAadhaarInitiateHandler_RejectsUnknownFields(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/aadhaar/initiate", map[string]string{"aadhaar": "123456789012", "bogus_field": "x"})
	if rec.Code != 400 {
		t.Fatalf("expected 400 for an unknown field, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAadhaarVerifyHandler_SucceedsWithTestOTP(t *testing.T) {
	router, _ := newFullRouter()
	initRec := doJSON(t, router, "POST", "/v1/aadhaar/initiate", map[string]string{"aadhaar": "123456789012"})
	initEnv := decodeEnvelope(t, initRec)
	txnID := initEnv["data"].(map[string]any)["txn_id"].(string)

	rec := doJSON(t, router, "POST", "/v1/aadhaar/verify", map[string]string{
		"aadhaar": "123456789012", "otp": "123456", "txn_id": txnID,
	})
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if data["jwt"] == "" || data["jwt"] == nil {
		t.Errorf("expected a signed jwt in the response, got %+v", data)
	}
}

func TestAadhaarVerifyHandler_WrongOTPMapsTo400(t *testing.T) {
	router, _ := newFullRouter()
	initRec := doJSON(t, router, "POST", "/v1/aadhaar/initiate", map[string]string{"aadhaar": "123456789013"})
	initEnv := decodeEnvelope(t, initRec)
	txnID := initEnv["data"].(map[string]any)["txn_id"].(string)

	rec := doJSON(t, router, "POST", "/v1/aadhaar/verify", map[string]string{
		"aadhaar": "123456789013", "otp": "000000", "txn_id": txnID,
	})
	if rec.Code != 400 {
		t.Fatalf("expected 400 for the wrong otp, got %d: %s", rec.Code, rec.Body.String())
	}
}

func validConsentBody() map[string]any {
	return map[string]any{
		"user_reference_id": "user-123",
		"fi_types":          []string{"upi"},
		"data_range_from":   "2025-01-01T00:00:00Z",
		"data_range_to":     "2026-01-01T00:00:00Z",
		"data_life_unit":    "MONTH",
		"data_life_value":   6,
	}
}

func TestConsentCreateHandler_ReturnsCreatedWithID(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/consent", validConsentBody())
	if rec.Code != 201 {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if data["consent_id"] == "" || data["consent_id"] == nil {
		t.Errorf("expected a non-empty consent_id, got %+v", data)
	}
}

func TestConsentCreateHandler_RejectsUnsupportedFIType(t *testing.T) {
	router, _ := newFullRouter()
	body := validConsentBody()
	body["fi_types"] = []string{"CRYPTO"}
	rec := doJSON(t, router, "POST", "/v1/consent", body)
	if rec.Code != 400 && rec.Code != 422 {
		t.Fatalf("expected a client error for an unsupported fi type, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConsentGetHandler_RoundTripsThroughRoute(t *testing.T) {
	router, _ := newFullRouter()
	createRec := doJSON(t, router, "POST", "/v1/consent", validConsentBody())
	createEnv := decodeEnvelope(t, createRec)
	consentID := createEnv["data"].(map[string]any)["consent_id"].(string)

	rec := doJSON(t, router, "GET", "/v1/consent/"+consentID, nil)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConsentGetHandler_UnknownIDReturns404(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "GET", "/v1/consent/aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa", nil)
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConsentListByUserHandler_ReturnsCreatedConsent(t *testing.T) {
	router, _ := newFullRouter()
	doJSON(t, router, "POST", "/v1/consent", validConsentBody())

	rec := doJSON(t, router, "GET", "/v1/consent/by-user/user-123", nil)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	list, ok := env["data"].([]any)
	if !ok || len(list) == 0 {
		t.Errorf("expected at least one consent listed, got %+v", env["data"])
	}
}

func TestConsentRevokeHandler_SecondRevokeIsConflict(t *testing.T) {
	router, _ := newFullRouter()
	createRec := doJSON(t, router, "POST", "/v1/consent", validConsentBody())
	createEnv := decodeEnvelope(t, createRec)
	consentID := createEnv["data"].(map[string]any)["consent_id"].(string)

	firstRec := doJSON(t, router, "POST", "/v1/consent/"+consentID+"/revoke", nil)
	if firstRec.Code != 200 {
		t.Fatalf("expected 200 on first revoke, got %d: %s", firstRec.Code, firstRec.Body.String())
	}
	secondRec := doJSON(t, router, "POST", "/v1/consent/"+consentID+"/revoke", nil)
	if secondRec.Code != 409 {
		t.Fatalf("expected 409 on the second revoke, got %d: %s", secondRec.Code, secondRec.Body.String())
	}
}

func TestUPIAnalyseHandler_UsesSuppliedTransactions(t *testing.T) {
	router, _ := newFullRouter()
	body := map[string]any{
		"transactions": []map[string]any{
			{"amount": 500, "type": "CREDIT", "mode": "UPI", "narration": "payment from friend"},
			{"amount": 200, "type": "DEBIT", "mode": "UPI", "narration": "grocery store"},
		},
	}
	rec := doJSON(t, router, "POST", "/v1/upi/analyse", body)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUPIAnalyseHandler_RejectsEmptyRequest(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/upi/analyse", map[string]any{})
	if rec.Code != 400 && rec.Code != 422 {
		t.Fatalf("expected a client error for an empty request, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGSTFetchHandler_DegradesToSampleFilings(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/gst/fetch", map[string]string{"gstin": "27AAPFU0939F1ZV"})
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUtilityFetchHandler_DegradesToSampleBills(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/utility/fetch", map[string]string{"mobile": "9876543210"})
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBehaviourQuestionsHandler_ReturnsQuestionsAndIDs(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "GET", "/v1/behaviour/questions", nil)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if _, ok := data["offered_ids"]; !ok {
		t.Errorf("expected offered_ids in the response, got %+v", data)
	}
}

func TestSocialConnectHandler_RejectsUnrecognisedURL(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/social/connect", map[string]any{
		"profile_urls": []string{"https://example.com/x"},
	})
	if rec.Code != 400 && rec.Code != 422 {
		t.Fatalf("expected a client error for an unrecognised profile url, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScoreHandler_ReturnsTierAndAuditHash(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/score", map[string]any{
		"inputs": map[string]any{"upi_inflow": 1000, "upi_outflow": 1000},
	})
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if data["tier"] == "" || data["tier"] == nil {
		t.Errorf("expected a tier in the response, got %+v", data)
	}
	if data["audit_hash"] == "" || data["audit_hash"] == nil {
		t.Errorf("expected an audit_hash in the response, got %+v", data)
	}
}

func TestFIRequestHandler_RejectsMissingConsentID(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/fi/request", map[string]string{"fi_type": "DEPOSIT"})
	if rec.Code != 400 && rec.Code != 422 {
		t.Fatalf("expected a client error for a missing consent id, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFIFetchHandler_RejectsUnknownSession(t *testing.T) {
	router, _ := newFullRouter()
	rec := doJSON(t, router, "POST", "/v1/fi/fetch", map[string]string{"session_id": "does-not-exist"})
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
