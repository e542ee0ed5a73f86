package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novascore/credit-engine/internal/adapters/security"
	"github.com/novascore/credit-engine/internal/domain"
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	otpPattern     = regexp.MustCompile(`^\d{6}$`)
	authSuccessRe  = regexp.MustCompile(`ret=['"]y['"]`)
)

// AadhaarInitiate implements the IDLE -> AWAITING_OTP transition.
func (s *Service) AadhaarInitiate(ctx context.Context, req AadhaarInitiateRequest) (AadhaarInitiateResponse, error) {
	aadhaar := strings.TrimSpace(req.Aadhaar)
	if !aadhaarPattern.MatchString(aadhaar) {
		return AadhaarInitiateResponse{}, fmt.Errorf("%w: aadhaar must be 12 digits", domain.ErrInvalidIdentifier)
	}
	hashedID := security.SHA256Hex([]byte(aadhaar))

	locked, err := s.identity.IsLocked(ctx, hashedID)
	if err != nil {
		return AadhaarInitiateResponse{}, fmt.Errorf("check lockout: %w", err)
	}
	if locked {
		remaining, _ := s.identity.RemainingLockout(ctx, hashedID)
		return AadhaarInitiateResponse{}, fmt.Errorf("%w: retry after %s", domain.ErrLocked, remaining.Round(time.Second))
	}

	txnID := uuid.NewString()
	now := s.nowFn()
	pid := buildPIDXML(now, "")
	sessionKey := security.RandomBytes(32)

	envelope, _, err := s.buildAuthEnvelope(aadhaar, txnID, now, pid, sessionKey)
	if err != nil {
		return AadhaarInitiateResponse{}, err
	}

	if err := s.dispatchAuthEnvelope(ctx, aadhaar, envelope); err != nil {
		if !errors.Is(err, domain.ErrUpstreamUnreachable) || !s.cfg.DegradedMode {
			return AadhaarInitiateResponse{}, err
		}
		s.logDegraded(ctx, "aadhaar_initiate", "upstream unreachable, delivering configured test otp")
	}

	if req.DemoPhone != "" && s.sms != nil {
		_ = s.sms.Send(ctx, req.DemoPhone, "Your Aadhaar OTP request has been initiated.")
	}

	if err := s.identity.PutSession(ctx, hashedID, domain.OTPSession{TxnID: txnID, CreatedAt: now}); err != nil {
		return AadhaarInitiateResponse{}, fmt.Errorf("store otp session: %w", err)
	}

	return AadhaarInitiateResponse{TxnID: txnID}, nil
}

// AadhaarVerify implements the AWAITING_OTP -> VERIFIED|LOCKED transition.
func (s *Service) AadhaarVerify(ctx context.Context, req AadhaarVerifyRequest) (AadhaarVerifyResponse, error) {
	aadhaar := strings.TrimSpace(req.Aadhaar)
	if !aadhaarPattern.MatchString(aadhaar) {
		return AadhaarVerifyResponse{}, fmt.Errorf("%w: aadhaar must be 12 digits", domain.ErrInvalidIdentifier)
	}
	otp := strings.TrimSpace(req.OTP)
	if !otpPattern.MatchString(otp) {
		return AadhaarVerifyResponse{}, fmt.Errorf("%w: otp must be 6 digits", domain.ErrOTPInvalid)
	}
	txnID := strings.TrimSpace(req.TxnID)
	if txnID == "" {
		return AadhaarVerifyResponse{}, fmt.Errorf("%w: txn_id is required", domain.ErrNoSession)
	}

	hashedID := security.SHA256Hex([]byte(aadhaar))

	locked, err := s.identity.IsLocked(ctx, hashedID)
	if err != nil {
		return AadhaarVerifyResponse{}, fmt.Errorf("check lockout: %w", err)
	}
	if locked {
		remaining, _ := s.identity.RemainingLockout(ctx, hashedID)
		return AadhaarVerifyResponse{}, fmt.Errorf("%w: retry after %s", domain.ErrLocked, remaining.Round(time.Second))
	}

	session, err := s.identity.GetSession(ctx, hashedID)
	if err != nil {
		return AadhaarVerifyResponse{}, fmt.Errorf("fetch otp session: %w", err)
	}
	if session == nil {
		return AadhaarVerifyResponse{}, domain.ErrNoSession
	}
	if session.TxnID != txnID {
		return AadhaarVerifyResponse{}, domain.ErrTxnMismatch
	}

	now := s.nowFn()
	pid := buildPIDXML(now, otp)
	sessionKey := security.RandomBytes(32)
	envelope, _, err := s.buildAuthEnvelope(aadhaar, txnID, now, pid, sessionKey)
	if err != nil {
		return AadhaarVerifyResponse{}, err
	}

	success := false
	if err := s.dispatchAuthEnvelope(ctx, aadhaar, envelope); err != nil {
		if errors.Is(err, domain.ErrUpstreamUnreachable) && s.cfg.DegradedMode {
			success = otp == s.cfg.TestOTP
			s.logDegraded(ctx, "aadhaar_verify", "upstream unreachable, falling back to configured test otp")
		}
	} else {
		success = true // dispatchAuthEnvelope only returns nil when the backend accepted the response
	}

	if !success {
		locked, attemptsLeft, incErr := s.identity.IncrementFailed(ctx, hashedID, now, s.cfg.OTPMaxAttempts, s.cfg.LockoutDuration)
		if incErr != nil {
			return AadhaarVerifyResponse{}, fmt.Errorf("record failed attempt: %w", incErr)
		}
		if locked {
			return AadhaarVerifyResponse{}, fmt.Errorf("%w: too many failed attempts", domain.ErrLocked)
		}
		return AadhaarVerifyResponse{}, fmt.Errorf("%w: %d attempts remaining", domain.ErrOTPInvalid, attemptsLeft)
	}

	claims := domain.AuthClaims{Subject: hashedID, TxnID: txnID, IssuedAt: now, ExpiresAt: now.Add(s.cfg.JWTExpiry)}
	token, err := s.tokenSigner.Sign(claims)
	if err != nil {
		return AadhaarVerifyResponse{}, fmt.Errorf("sign jwt: %w", err)
	}

	_ = s.identity.ClearSession(ctx, hashedID)
	_ = s.identity.Reset(ctx, hashedID)

	return AadhaarVerifyResponse{JWT: token}, nil
}

// buildPIDXML constructs the UIDAI PID block; otp is empty for initiate.
func buildPIDXML(ts time.Time, otp string) []byte {
	return []byte(fmt.Sprintf(
		`<Pid ts="%s" ver="2.0" wadh=""><Pv otp="%s"/></Pid>`,
		security.AadhaarTimestamp(ts), security.XMLEscape(otp),
	))
}

// buildAuthEnvelope seals the PID, wraps the session key, and assembles the
// Auth XML envelope. Returns whether the wrap step fell back to the
// degraded sentinel.
func (s *Service) buildAuthEnvelope(aadhaar, txnID string, ts time.Time, pid, sessionKey []byte) (envelope []byte, degraded bool, err error) {
	iv, ciphertext, tag, err := s.sealer.Seal(sessionKey, pid)
	if err != nil {
		return nil, false, fmt.Errorf("seal pid: %w", err)
	}
	sealedData := append(append([]byte{}, iv...), append(ciphertext, tag...)...)
	mac := security.HMACSHA256(sessionKey, pid)

	wrappedKey, wrapErr := s.keyWrapper.Wrap([]byte(s.cfg.UIDAIPublicKeyPEM), sessionKey)
	if wrapErr != nil {
		if !s.cfg.DegradedMode {
			return nil, false, fmt.Errorf("wrap session key: %w", wrapErr)
		}
		degraded = true
		wrappedKey = []byte("DEGRADED_KEY_UNAVAILABLE")
		s.logDegraded(context.Background(), "uidai_key_wrap", "uidai public key unavailable, using dev sentinel")
	}

	skeyCI := security.AadhaarTimestamp(ts)
	envelope = []byte(fmt.Sprintf(
		`<Auth uid="%s" ac="%s" sa="%s" ver="2.5" txn="%s" lk="%s" rc="Y" tid="public">`+
			`<Uses pi="n" pa="n" pfa="n" bio="n" bt="n" pin="n" otp="y"/>`+
			`<Tkn type="001" value=""/>`+
			`<Meta udc="AADHAAR_OTP_AUTH" fdc="" idc="" pip="" lot="P" lov=""/>`+
			`<Skey ci="%s">%s</Skey>`+
			`<Hmac>%s</Hmac>`+
			`<Data type="X">%s</Data>`+
			`</Auth>`,
		security.XMLEscape(aadhaar), security.XMLEscape(s.cfg.AUACode), security.XMLEscape(s.cfg.SubAUACode),
		security.XMLEscape(txnID), security.XMLEscape(s.cfg.LicenseKey),
		skeyCI, base64.StdEncoding.EncodeToString(wrappedKey),
		base64.StdEncoding.EncodeToString(mac),
		base64.StdEncoding.EncodeToString(sealedData),
	))
	return envelope, degraded, nil
}

// dispatchAuthEnvelope posts the Auth envelope and reports whether the
// backend accepted it (ret="y" or ret='y').
func (s *Service) dispatchAuthEnvelope(ctx context.Context, aadhaar string, envelope []byte) error {
	if s.http == nil {
		return fmt.Errorf("http capability not configured")
	}
	uidBytes := []byte(aadhaar)
	url := fmt.Sprintf("%s%s/%c/%c", s.cfg.UIDAIAuthURL, s.cfg.AUACode, uidBytes[0], uidBytes[1])
	resp, err := s.http.Post(ctx, url, map[string]string{"Content-Type": "application/xml"}, envelope)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	if !authSuccessRe.Match(resp.Body) {
		return fmt.Errorf("uidai rejected auth request")
	}
	return nil
}

func (s *Service) logDegraded(ctx context.Context, operation, message string) {
	slog.Default().WarnContext(ctx, message,
		"service", "credit-engine",
		"module", "application",
		"layer", "application",
		"operation", operation,
		"outcome", "degraded",
	)
}
