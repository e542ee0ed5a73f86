package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/novascore/credit-engine/internal/adapters/cache"
	"github.com/novascore/credit-engine/internal/adapters/consentfallback"
	httpadapter "github.com/novascore/credit-engine/internal/adapters/http"
	"github.com/novascore/credit-engine/internal/adapters/httpclient"
	"github.com/novascore/credit-engine/internal/adapters/memstore"
	"github.com/novascore/credit-engine/internal/adapters/postgres"
	"github.com/novascore/credit-engine/internal/adapters/security"
	"github.com/novascore/credit-engine/internal/adapters/smsvendor"
	"github.com/novascore/credit-engine/internal/adapters/socialfetch"
	"github.com/novascore/credit-engine/internal/application"
	"github.com/novascore/credit-engine/internal/ports"
)

// Runtime holds every wired dependency plus the HTTP server built on top of
// them. NewRuntime does all fallible construction; Run only serves.
type Runtime struct {
	cfg    Config
	server *http.Server
}

// NewRuntime resolves configuration and wires every adapter into a
// application.Service, following the degrade-to-memstore posture the
// operation surface assumes when a dependency is unreachable in dev mode.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	consentRepo, err := buildConsentRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	identityStore, err := buildIdentityStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fiSessionStore, err := buildFISessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwsSigner, err := buildJWSSigner(cfg)
	if err != nil {
		return nil, err
	}

	deps := application.Dependencies{
		Config: application.Config{
			OTPExpiry:          cfg.OTPExpiry,
			OTPMaxAttempts:     cfg.OTPMaxAttempts,
			LockoutDuration:    cfg.LockoutDuration,
			JWTSecret:          cfg.JWTSecret,
			JWTExpiry:          cfg.JWTExpiry,
			DegradedMode:       cfg.DegradedMode,
			TestOTP:            cfg.TestOTP,
			UIDAIAuthURL:       cfg.UIDAIAuthURL,
			UIDAIPublicKeyPEM:  cfg.UIDAIPublicKeyPEM,
			AUACode:            cfg.AUACode,
			SubAUACode:         cfg.SubAUACode,
			LicenseKey:         cfg.LicenseKey,
			JWSClientID:        cfg.JWSClientID,
			JWSPrivateKeyPEM:   cfg.JWSPrivateKeyPEM,
			JWSHMACSecret:      cfg.JWSHMACSecret,
			JWSAllowFallback:   cfg.JWSAllowFallback,
			AABaseURL:          cfg.AABaseURL,
			AAClientAPIKey:     cfg.AAClientAPIKey,
			FIUEntityID:        cfg.FIUEntityID,
			FIRequestTimeout:   cfg.FIRequestTimeout,
			SocialFetchTimeout: cfg.SocialFetchTimeout,
			GSPBaseURL:         cfg.GSPBaseURL,
			GSPTimeout:         cfg.GSPTimeout,
			BBPSBaseURL:        cfg.BBPSBaseURL,
			BBPSTimeout:        cfg.BBPSTimeout,
		},
		Identity:        identityStore,
		Consents:        consentRepo,
		FISessions:      fiSessionStore,
		Sealer:          security.NewAESGCM(),
		KeyWrapper:      security.NewRSAOAEPWrapper(),
		TokenSigner:     security.NewHMACTokenSigner([]byte(cfg.JWTSecret), cfg.JWTExpiry),
		JWSSigner:       jwsSigner,
		Http:            httpclient.New(cfg.FIRequestTimeout),
		Sms:             smsvendor.NewLogSender(),
		PlatformFetcher: socialfetch.NewSampleFetcher(func() time.Time { return time.Now().UTC() }),
	}

	service := application.NewService(deps)
	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{cfg: cfg, server: server}, nil
}

func buildConsentRepository(ctx context.Context, cfg Config) (ports.ConsentRepository, error) {
	fallback := memstore.NewConsentStore()
	if cfg.DatabaseURL == "" {
		return fallback, nil
	}
	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		if cfg.DegradedMode {
			slog.Default().WarnContext(ctx, "postgres unreachable, starting in degraded mode",
				"service", "credit-engine", "module", "bootstrap", "layer", "adapter",
				"operation", "postgres_connect", "outcome", "degraded", "error", err.Error())
			return fallback, nil
		}
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	primary := postgres.NewConsentRepository(db)
	return consentfallback.New(primary, fallback), nil
}

func buildIdentityStore(ctx context.Context, cfg Config) (ports.IdentityStore, error) {
	if cfg.RedisURL == "" {
		return memstore.NewIdentityStore(), nil
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.DegradedMode {
			slog.Default().WarnContext(ctx, "redis unreachable, using in-memory identity store",
				"service", "credit-engine", "module", "bootstrap", "layer", "adapter",
				"operation", "redis_connect", "outcome", "degraded", "error", err.Error())
			return memstore.NewIdentityStore(), nil
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return cache.NewRedisIdentityStore(client), nil
}

func buildFISessionStore(ctx context.Context, cfg Config) (ports.FISessionStore, error) {
	if cfg.RedisURL == "" {
		return memstore.NewFISessionStore(), nil
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.DegradedMode {
			return memstore.NewFISessionStore(), nil
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return cache.NewRedisFISessionStore(client, cfg.FIRequestTimeout*4), nil
}

func buildJWSSigner(cfg Config) (ports.DetachedJWSSigner, error) {
	if cfg.JWSPrivateKeyPEM == "" {
		if !cfg.DegradedMode {
			return nil, errors.New("missing JWS_PRIVATE_KEY_PEM")
		}
		return security.NewDetachedJWSSigner(cfg.JWSClientID, nil, []byte(cfg.JWSHMACSecret), true), nil
	}
	key, err := security.ParseRSAPrivatePEM([]byte(cfg.JWSPrivateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse JWS private key: %w", err)
	}
	return security.NewDetachedJWSSigner(cfg.JWSClientID, key, []byte(cfg.JWSHMACSecret), cfg.JWSAllowFallback), nil
}

// RunAPI serves HTTP until ctx is cancelled, then drains in-flight requests.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Default().Info("http server listening",
			"service", r.cfg.ServiceID, "module", "bootstrap", "layer", "app",
			"operation", "http_listen", "outcome", "started", "addr", r.server.Addr)
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return r.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
