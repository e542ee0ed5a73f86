package ports

import (
	"context"

	"github.com/novascore/credit-engine/internal/domain"
)

// HTTPResponse is the transport-neutral result of an outbound call.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// Http is the narrow outbound-transport capability the core depends on.
// Concrete implementations (raw net/http client, a test double) are injected;
// the core never constructs an http.Client itself.
type Http interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (HTTPResponse, error)
	Get(ctx context.Context, url string, headers map[string]string) (HTTPResponse, error)
}

// SmsSender is the one-method OTP delivery contract; SMS vendors are a plug-in.
type SmsSender interface {
	Send(ctx context.Context, toMobile, message string) error
}

// PlatformFetcher resolves a validated social profile URL into metrics.
// A headless-browser scraper and an OAuth-token exchange are both valid
// implementations; the aggregator never knows which one is behind the interface.
type PlatformFetcher interface {
	Fetch(ctx context.Context, platform, identifier string) (domain.SocialPlatformMetrics, error)
}
