// Package socialfetch provides ports.PlatformFetcher implementations. A real
// deployment can back this with a headless-browser scraper or an OAuth token
// exchange; SampleFetcher
// is the degraded-mode/dev default that returns a deterministic shape.
package socialfetch

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

// SampleFetcher derives stable-but-varied metrics from the identifier's hash
// so repeated calls in dev/test are deterministic without a live integration.
type SampleFetcher struct {
	now func() time.Time
}

func NewSampleFetcher(now func() time.Time) *SampleFetcher {
	return &SampleFetcher{now: now}
}

func (f *SampleFetcher) Fetch(ctx context.Context, platform, identifier string) (domain.SocialPlatformMetrics, error) {
	sum := sha256.Sum256([]byte(platform + ":" + identifier))
	network := int(binary.BigEndian.Uint16(sum[0:2])) % 20000
	posts := int(sum[2]) % 60
	ageDays := int(binary.BigEndian.Uint16(sum[3:5])) % 2500
	interaction := float64(sum[5]) / 255.0 * 500.0

	return domain.SocialPlatformMetrics{
		Platform:         platform,
		Identifier:       identifier,
		NetworkSize:      network,
		PostsLast6Months: posts,
		AccountCreatedAt: f.now().AddDate(0, 0, -ageDays),
		InteractionRate:  interaction,
	}, nil
}
