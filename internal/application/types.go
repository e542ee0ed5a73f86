package application

import (
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

// Config carries every tunable that bootstrap resolves from defaults, YAML
// and environment overrides (see app/bootstrap/config.go).
type Config struct {
	OTPExpiry            time.Duration
	OTPMaxAttempts       int
	LockoutDuration      time.Duration
	JWTSecret            string
	JWTExpiry            time.Duration
	DegradedMode         bool
	TestOTP              string
	UIDAIAuthURL         string
	UIDAIPublicKeyPEM    string
	AUACode              string
	SubAUACode           string
	LicenseKey           string
	JWSClientID          string
	JWSPrivateKeyPEM     string
	JWSHMACSecret        string
	JWSAllowFallback     bool
	AABaseURL            string
	AAClientAPIKey       string
	FIUEntityID          string
	FIRequestTimeout     time.Duration
	SocialFetchTimeout   time.Duration

	GSPBaseURL   string
	GSPTimeout   time.Duration
	BBPSBaseURL  string
	BBPSTimeout  time.Duration
}

// AadhaarInitiateRequest is the input to aadhaar.initiate.
type AadhaarInitiateRequest struct {
	Aadhaar   string `json:"aadhaar"`
	DemoPhone string `json:"demo_phone,omitempty"`
}

// AadhaarInitiateResponse is the output of aadhaar.initiate.
type AadhaarInitiateResponse struct {
	TxnID string `json:"txn_id"`
}

// AadhaarVerifyRequest is the input to aadhaar.verify.
type AadhaarVerifyRequest struct {
	Aadhaar string `json:"aadhaar"`
	OTP     string `json:"otp"`
	TxnID   string `json:"txn_id"`
}

// AadhaarVerifyResponse is the output of aadhaar.verify.
type AadhaarVerifyResponse struct {
	JWT string `json:"jwt"`
}

// ConsentCreateRequest is the input to consent.create.
type ConsentCreateRequest struct {
	UserReferenceID string             `json:"user_reference_id"`
	FITypes         []string           `json:"fi_types"`
	DataRangeFrom   string             `json:"data_range_from"`
	DataRangeTo     string             `json:"data_range_to"`
	DataLifeUnit    string             `json:"data_life_unit"`
	DataLifeValue   int                `json:"data_life_value"`
	PurposeCode     string             `json:"purpose_code,omitempty"`
	PurposeText     string             `json:"purpose_text,omitempty"`
	FrequencyUnit   string             `json:"frequency_unit,omitempty"`
	FrequencyValue  int                `json:"frequency_value,omitempty"`
}

// FIRequestRequest is the input to fi.request.
type FIRequestRequest struct {
	ConsentID        string   `json:"consent_id"`
	FIType           string   `json:"fi_type"`
	MaskedAccount    string   `json:"masked_account,omitempty"`
	LinkRef          string   `json:"link_ref,omitempty"`
	From             string   `json:"from,omitempty"`
	To               string   `json:"to,omitempty"`
}

// FIRequestResponse is the output of fi.request.
type FIRequestResponse struct {
	TxnID        string `json:"txn_id"`
	SessionID    string `json:"session_id"`
	Timestamp    string `json:"timestamp"`
	JWSSignature string `json:"jws_signature"`
	AAResponse   any    `json:"aa_response"`
}

// FIFetchRequest is the input to fi.fetch.
type FIFetchRequest struct {
	SessionID      string   `json:"session_id"`
	FIPID          string   `json:"fip_id,omitempty"`
	LinkRefNumbers []string `json:"link_ref_numbers,omitempty"`
}

// FIFetchResponse is the output of fi.fetch.
type FIFetchResponse struct {
	TxnID     string              `json:"txn_id"`
	SessionID string              `json:"session_id"`
	Analysis  TransactionAnalysis `json:"analysis"`
}

// UPIAnalyseRequest is the input to upi.analyse. Either Transactions is supplied
// directly, or SessionID names a previously fetched FI session.
type UPIAnalyseRequest struct {
	Transactions []domain.Transaction `json:"transactions,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
}

// GSTFetchRequest is the input to gst.fetch.
type GSTFetchRequest struct {
	GSTIN       string   `json:"gstin"`
	ReturnTypes []string `json:"return_types,omitempty"`
}

// UtilityFetchRequest is the input to utility.fetch.
type UtilityFetchRequest struct {
	Mobile     string   `json:"mobile,omitempty"`
	CustomerID string   `json:"customer_id,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// BehaviourSubmitRequest is the input to behaviour.submit.
type BehaviourSubmitRequest struct {
	OfferedIDs []int                 `json:"offered_ids"`
	Responses  []domain.QuizResponse `json:"responses"`
}

// SocialConnectRequest is the input to social.connect.
type SocialConnectRequest struct {
	ProfileURLs []string `json:"profile_urls"`
}

// SocialScoreResult is the persisted-and-returned output of social.connect.
type SocialScoreResult struct {
	SessionID     string    `json:"session_id"`
	SocialScore   float64   `json:"social_score"`
	PlatformsUsed []string  `json:"platforms_used"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScoreRequest is the input to the aggregated single-endpoint scoring operation,
// kept alongside the rich per-source surface for callers that already have the
// four underlying numbers.
type ScoreRequest struct {
	Inputs NovaScoreInputs `json:"inputs"`
}
