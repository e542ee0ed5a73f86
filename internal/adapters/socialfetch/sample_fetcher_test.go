package socialfetch

import (
	"context"
	"testing"
	"time"
)

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestSampleFetcher_DeterministicForSameInputs(t *testing.T) {
	f := NewSampleFetcher(fixedNow)
	m1, err := f.Fetch(context.Background(), "linkedin", "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := f.Fetch(context.Background(), "linkedin", "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m1 != m2 {
		t.Errorf("expected identical metrics for identical inputs, got %+v vs %+v", m1, m2)
	}
}

func TestSampleFetcher_DiffersAcrossIdentifiers(t *testing.T) {
	f := NewSampleFetcher(fixedNow)
	m1, _ := f.Fetch(context.Background(), "linkedin", "jane-doe")
	m2, _ := f.Fetch(context.Background(), "linkedin", "john-smith")
	if m1.NetworkSize == m2.NetworkSize && m1.PostsLast6Months == m2.PostsLast6Months {
		t.Error("expected different identifiers to plausibly yield different metrics")
	}
}

func TestSampleFetcher_EchoesPlatformAndIdentifier(t *testing.T) {
	f := NewSampleFetcher(fixedNow)
	m, err := f.Fetch(context.Background(), "twitter-x", "someone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Platform != "twitter-x" || m.Identifier != "someone" {
		t.Errorf("expected platform/identifier to be echoed back, got %+v", m)
	}
}
