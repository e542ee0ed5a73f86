package security

import (
	"encoding/base64"
	"strings"
	"time"
)

// B64URLEncode is unpadded RFC 4648 §5 base64url, used throughout JWS and
// signature encoding.
func B64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// B64URLDecode decodes unpadded base64url, tolerating a caller that mistakenly
// included padding.
func B64URLDecode(s string) ([]byte, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XMLEscape escapes the five XML entities used in every PID/Auth XML attribute
// and text node.
func XMLEscape(s string) string {
	return xmlEscaper.Replace(s)
}

const istOffset = 5*time.Hour + 30*time.Minute

var istLocation = time.FixedZone("IST", int(istOffset.Seconds()))

// AadhaarTimestamp renders t in IST with the UIDAI envelope's exact layout.
func AadhaarTimestamp(t time.Time) string {
	return t.In(istLocation).Format("2006-01-02T15:04:05-07:00")
}

// ISOTimestampUTC renders t in UTC with a trailing Z, used everywhere outside
// the Aadhaar envelope.
func ISOTimestampUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
