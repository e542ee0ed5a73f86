// Package cache implements Redis-backed alternatives to the in-process memstore
// adapters, for deployments that run more than one instance of the engine and
// need the identity/rate-limit and FI-session state to be shared. The default
// wiring in bootstrap uses memstore, matching the flat-mutex-map semantics of
// the default in-process stores; this package is an opt-in adapter behind the
// same ports interfaces.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis and verifies connectivity with a PING.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
