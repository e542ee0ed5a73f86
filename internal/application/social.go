package application

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
	"github.com/novascore/credit-engine/internal/ports"
)

var socialURLPatterns = []struct {
	platform string
	pattern  *regexp.Regexp
}{
	{"linkedin", regexp.MustCompile(`(?i)^https?://(www\.)?linkedin\.com/in/([A-Za-z0-9\-_%]+)/?$`)},
	{"twitter-x", regexp.MustCompile(`(?i)^https?://(www\.)?(twitter|x)\.com/([A-Za-z0-9_]+)/?$`)},
	{"instagram", regexp.MustCompile(`(?i)^https?://(www\.)?instagram\.com/([A-Za-z0-9_.]+)/?$`)},
	{"youtube", regexp.MustCompile(`(?i)^https?://(www\.)?youtube\.com/(@[A-Za-z0-9_.\-]+|channel/[A-Za-z0-9_\-]+|c/[A-Za-z0-9_\-]+)/?$`)},
}

// SocialProfile is one validated (platform, identifier) pair extracted from a URL.
type SocialProfile struct {
	Platform   string
	Identifier string
}

// ValidateSocialURLs matches each URL against the supported platform patterns and
// requires at least one valid match.
func ValidateSocialURLs(urls []string) ([]SocialProfile, error) {
	profiles := make([]SocialProfile, 0, len(urls))
	for _, u := range urls {
		for _, p := range socialURLPatterns {
			if m := p.pattern.FindStringSubmatch(u); m != nil {
				profiles = append(profiles, SocialProfile{Platform: p.platform, Identifier: m[len(m)-1]})
				break
			}
		}
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: at least one recognised social profile url is required", domain.ErrInvalidInput)
	}
	return profiles, nil
}

// SocialAggregate is the output of AggregateSocialMetrics.
type SocialAggregate struct {
	SocialScore   float64  `json:"socialScore"`
	PlatformsUsed []string `json:"platformsUsed"`
}

const (
	networkMin, networkMax           = 0.0, 50000.0
	postFrequencyMin, postFrequencyMax = 0.0, 30.0
	accountAgeMin, accountAgeMax     = 0.0, 3650.0
	interactionMin, interactionMax   = 0.0, 1000.0
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return clamp01((v - min) / (max - min))
}

// fetchAll resolves each validated profile via the injected fetcher.
func fetchAll(ctx context.Context, fetcher ports.PlatformFetcher, profiles []SocialProfile) ([]domain.SocialPlatformMetrics, error) {
	metrics := make([]domain.SocialPlatformMetrics, 0, len(profiles))
	for _, p := range profiles {
		m, err := fetcher.Fetch(ctx, p.Platform, p.Identifier)
		if err != nil {
			return nil, fmt.Errorf("fetch %s profile: %w", p.Platform, err)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// AggregateSocialMetrics combines per-platform metrics into the composite social
// score of: network size, post frequency, account age and interaction
// rate each contribute 25%, using the oldest connected account for age and the
// largest network for size.
func AggregateSocialMetrics(metrics []domain.SocialPlatformMetrics, now time.Time) SocialAggregate {
	if len(metrics) == 0 {
		return SocialAggregate{}
	}

	var maxNetwork int
	var totalPosts int
	var maxInteraction float64
	var oldestAgeDays float64
	platforms := make([]string, 0, len(metrics))

	for _, m := range metrics {
		platforms = append(platforms, m.Platform)
		if m.NetworkSize > maxNetwork {
			maxNetwork = m.NetworkSize
		}
		totalPosts += m.PostsLast6Months
		if m.InteractionRate > maxInteraction {
			maxInteraction = m.InteractionRate
		}
		ageDays := now.Sub(m.AccountCreatedAt).Hours() / 24
		if ageDays > oldestAgeDays {
			oldestAgeDays = ageDays
		}
	}

	postFrequency := float64(totalPosts) / 6.0

	score := 0.25*normalize(float64(maxNetwork), networkMin, networkMax) +
		0.25*normalize(postFrequency, postFrequencyMin, postFrequencyMax) +
		0.25*normalize(oldestAgeDays, accountAgeMin, accountAgeMax) +
		0.25*normalize(maxInteraction, interactionMin, interactionMax)

	return SocialAggregate{
		SocialScore:   round4(score),
		PlatformsUsed: platforms,
	}
}
