package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/curve25519"

	"github.com/novascore/credit-engine/internal/domain"
)

func decodeAABlob(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

type fiRequestPayload struct {
	Ver         string           `json:"ver"`
	Timestamp   string           `json:"timestamp"`
	TxnID       string           `json:"txnid"`
	FIDataRange fiDataRangeJSON  `json:"FIDataRange"`
	Consent     fiConsentRef     `json:"Consent"`
	KeyMaterial fiKeyMaterial    `json:"KeyMaterial"`
	FI          []fiRequestEntry `json:"FI"`
}

type fiConsentRef struct {
	ID               string `json:"id"`
	DigitalSignature string `json:"digitalSignature"`
}

type fiDataRangeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type fiKeyMaterial struct {
	CryptoAlg   string             `json:"cryptoAlg"`
	Curve       string             `json:"curve"`
	Params      fiKeyMaterialParam `json:"params"`
	DHPublicKey fiDHPublicKey      `json:"DHPublicKey"`
	Nonce       string             `json:"Nonce"`
}

type fiKeyMaterialParam struct {
	KeyPairGenerator string `json:"KeyPairGenerator"`
}

type fiDHPublicKey struct {
	Expiry     string `json:"expiry"`
	Parameters string `json:"Parameters"`
	KeyValue   string `json:"KeyValue"`
}

type fiRequestEntry struct {
	FIPID string           `json:"fipId"`
	Data  []fiRequestDatum `json:"data"`
}

type fiRequestDatum struct {
	LinkRefNumber   string `json:"linkRefNumber"`
	MaskedAccNumber string `json:"maskedAccNumber"`
	FIType          string `json:"fiType"`
}

// FIRequest builds and dispatches an AA FI/request envelope, signs it with
// the detached-JWS signer and stores the resulting session keyed by txn_id.
func (s *Service) FIRequest(ctx context.Context, req FIRequestRequest) (FIRequestResponse, error) {
	if req.ConsentID == "" {
		return FIRequestResponse{}, fmt.Errorf("%w: consent_id is required", domain.ErrInvalidInput)
	}
	fiType := domain.FIType(req.FIType)
	if !domain.AllowedFITypes[fiType] {
		return FIRequestResponse{}, fmt.Errorf("%w: unsupported fi_type %q", domain.ErrInvalidInput, req.FIType)
	}
	consent, err := s.consents.Get(ctx, req.ConsentID)
	if err != nil {
		return FIRequestResponse{}, err
	}
	if consent.Status != domain.ConsentActive {
		return FIRequestResponse{}, fmt.Errorf("%w: consent %s is not active", domain.ErrConflict, req.ConsentID)
	}

	now := s.nowFn()
	txnID := uuid.NewString()
	from, to := req.From, req.To
	if from == "" {
		from = consent.DataRange.From.UTC().Format(time.RFC3339)
	}
	if to == "" {
		to = consent.DataRange.To.UTC().Format(time.RFC3339)
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	dhPrivate := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(dhPrivate); err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	dhPublic, err := curve25519.X25519(dhPrivate, curve25519.Basepoint)
	if err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	payload := fiRequestPayload{
		Ver:         "2.0.0",
		Timestamp:   now.UTC().Format(time.RFC3339),
		TxnID:       txnID,
		FIDataRange: fiDataRangeJSON{From: from, To: to},
		Consent:     fiConsentRef{ID: req.ConsentID, DigitalSignature: ""},
		KeyMaterial: fiKeyMaterial{
			CryptoAlg: "ECDH",
			Curve:     "Curve25519",
			Params:    fiKeyMaterialParam{KeyPairGenerator: "ECDH"},
			DHPublicKey: fiDHPublicKey{
				Expiry:     now.Add(24 * time.Hour).UTC().Format(time.RFC3339),
				Parameters: "",
				KeyValue:   base64.StdEncoding.EncodeToString(dhPublic),
			},
			Nonce: hex.EncodeToString(nonce),
		},
		FI: []fiRequestEntry{{
			FIPID: "dev-fip",
			Data: []fiRequestDatum{{
				LinkRefNumber:   req.LinkRef,
				MaskedAccNumber: req.MaskedAccount,
				FIType:          string(fiType),
			}},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	jws, err := s.jwsSigner.Sign(body)
	if err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	sessionKey := make([]byte, 32)
	if _, err := rand.Read(sessionKey); err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	session := domain.FISession{
		TxnID:               txnID,
		ConsentID:           req.ConsentID,
		FIType:              fiType,
		MaskedAccountNumber: req.MaskedAccount,
		Status:              domain.FISessionPending,
		CreatedAt:           now,
		Payload:             body,
		JWSSignature:        jws,
		SessionKey:          sessionKey,
	}

	var aaResponse any
	headers := map[string]string{
		"Content-Type":    "application/json",
		"X-JWS-Signature": jws,
		"client_api_key":  s.cfg.AAClientAPIKey,
		"fiu_entity_id":   s.cfg.FIUEntityID,
	}
	resp, err := s.http.Post(ctx, s.cfg.AABaseURL+"/FI/request", headers, body)
	if err != nil {
		session.SessionID = "dev-session-" + firstEight(txnID)
		session.Degraded = true
		session.Status = domain.FISessionReady
		s.logDegraded(ctx, "fi.request", "AA request/request unreachable, synthesising session id")
	} else {
		var parsed map[string]any
		if jsonErr := json.Unmarshal(resp.Body, &parsed); jsonErr == nil {
			aaResponse = parsed
			if sid, ok := parsed["sessionId"].(string); ok && sid != "" {
				session.SessionID = sid
			} else if sid, ok := parsed["SessionId"].(string); ok && sid != "" {
				session.SessionID = sid
			}
		}
		if session.SessionID == "" {
			session.SessionID = "dev-session-" + firstEight(txnID)
			session.Degraded = true
		}
		session.Status = domain.FISessionReady
	}

	if err := s.fiSessions.Put(ctx, session); err != nil {
		return FIRequestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	return FIRequestResponse{
		TxnID:        txnID,
		SessionID:    session.SessionID,
		Timestamp:    payload.Timestamp,
		JWSSignature: jws,
		AAResponse:   aaResponse,
	}, nil
}

type fiFetchPayload struct {
	Ver            string   `json:"ver"`
	Timestamp      string   `json:"timestamp"`
	TxnID          string   `json:"txnid"`
	SessionID      string   `json:"sessionId"`
	FIPID          string   `json:"fipId,omitempty"`
	LinkRefNumbers []string `json:"linkRefNumber"`
}

type fiFetchAAResponse struct {
	EncryptedFI string `json:"encryptedFI"`
	FI          string `json:"FI"`
}

// FIFetch retrieves and decrypts financial information for a previously
// requested session, then hands the plaintext to the transaction parser.
func (s *Service) FIFetch(ctx context.Context, req FIFetchRequest) (FIFetchResponse, error) {
	if req.SessionID == "" {
		return FIFetchResponse{}, fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}
	session, err := s.fiSessions.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return FIFetchResponse{}, err
	}
	if session == nil {
		return FIFetchResponse{}, domain.ErrNotFound
	}

	now := s.nowFn()
	payload := fiFetchPayload{
		Ver:            "2.0.0",
		Timestamp:      now.UTC().Format(time.RFC3339),
		TxnID:          session.TxnID,
		SessionID:      session.SessionID,
		FIPID:          req.FIPID,
		LinkRefNumbers: req.LinkRefNumbers,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return FIFetchResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	jws, err := s.jwsSigner.Sign(body)
	if err != nil {
		return FIFetchResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	headers := map[string]string{
		"Content-Type":    "application/json",
		"X-JWS-Signature": jws,
		"client_api_key":  s.cfg.AAClientAPIKey,
		"fiu_entity_id":   s.cfg.FIUEntityID,
	}

	var plaintext []byte
	if session.Degraded {
		sample, marshalErr := json.Marshal(sampleFITransactions(now))
		if marshalErr != nil {
			return FIFetchResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, marshalErr)
		}
		plaintext = sample
	} else {
		resp, err := s.http.Post(ctx, s.cfg.AABaseURL+"/FI/fetch", headers, body)
		if err != nil {
			return FIFetchResponse{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
		}
		var aaResp fiFetchAAResponse
		if jsonErr := json.Unmarshal(resp.Body, &aaResp); jsonErr != nil {
			return FIFetchResponse{}, fmt.Errorf("%w: malformed FI/fetch response", domain.ErrInternal)
		}
		switch {
		case aaResp.EncryptedFI != "":
			plaintext, err = s.decryptFI(aaResp.EncryptedFI, session.SessionKey)
			if err != nil {
				return FIFetchResponse{}, err
			}
		case aaResp.FI != "":
			plaintext = []byte(aaResp.FI)
		default:
			return FIFetchResponse{}, fmt.Errorf("%w: response carried neither encryptedFI nor FI", domain.ErrDecryptionFailure)
		}
	}

	analysis, _, err := ParseAndAnalyzeTransactions(plaintext)
	if err != nil {
		return FIFetchResponse{}, err
	}

	return FIFetchResponse{
		TxnID:     session.TxnID,
		SessionID: session.SessionID,
		Analysis:  analysis,
	}, nil
}

// decryptFI splits the base64-decoded AA blob into IV(12B) || ciphertext || tag(16B)
// and opens it under AES-256-GCM with the per-session key.
func (s *Service) decryptFI(encryptedFI string, sessionKey []byte) ([]byte, error) {
	raw, err := decodeAABlob(encryptedFI)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64 blob", domain.ErrDecryptionFailure)
	}
	if len(raw) < 12+16 {
		return nil, fmt.Errorf("%w: blob too short", domain.ErrDecryptionFailure)
	}
	iv := raw[:12]
	tag := raw[len(raw)-16:]
	ciphertext := raw[12 : len(raw)-16]

	plaintext, err := s.sealer.Open(sessionKey, iv, ciphertext, tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptionFailure, err)
	}
	return plaintext, nil
}

// sampleFITransactions synthesises a plausible FI/fetch data response when no
// live AA connection is available, mirroring sampleGSTFilings/sampleUtilityBills.
func sampleFITransactions(now time.Time) []domain.Transaction {
	salaryDate := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, time.UTC)
	rentDate := salaryDate.AddDate(0, 0, 4)
	groceryDate := salaryDate.AddDate(0, 0, 10)
	transferDate := salaryDate.AddDate(0, 0, 15)
	return []domain.Transaction{
		{TxnID: "sample-txn-1", Date: salaryDate, Type: domain.TxnCredit, Mode: "NEFT", Amount: 65000, Balance: 78500, Narration: "Salary credit", Reference: "SAL-0001", Category: "Salary"},
		{TxnID: "sample-txn-2", Date: rentDate, Type: domain.TxnDebit, Mode: "UPI", Amount: 18000, Balance: 60500, Narration: "Rent payment", Reference: "RENT-0001", Category: "Rent"},
		{TxnID: "sample-txn-3", Date: groceryDate, Type: domain.TxnDebit, Mode: "UPI", Amount: 3200, Balance: 57300, Narration: "Grocery store", Reference: "UPI-0002", Category: "Shopping"},
		{TxnID: "sample-txn-4", Date: transferDate, Type: domain.TxnCredit, Mode: "UPI", Amount: 2500, Balance: 59800, Narration: "UPI transfer received", Reference: "UPI-0003", Category: "UPI_Transfer"},
	}
}

func firstEight(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}
