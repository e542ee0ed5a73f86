package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the credit engine. It
// merges file defaults and environment overrides so local and deployed runs
// share one loader.
type Config struct {
	ServiceID string
	HTTPPort  int

	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string

	DegradedMode bool

	OTPExpiry       time.Duration
	OTPMaxAttempts  int
	LockoutDuration time.Duration
	TestOTP         string

	JWTSecret string
	JWTExpiry time.Duration

	UIDAIAuthURL      string
	UIDAIPublicKeyPEM string
	AUACode           string
	SubAUACode        string
	LicenseKey        string

	JWSClientID      string
	JWSPrivateKeyPEM string
	JWSHMACSecret    string
	JWSAllowFallback bool

	AABaseURL          string
	AAClientAPIKey     string
	FIUEntityID        string
	FIRequestTimeout   time.Duration
	SocialFetchTimeout time.Duration

	GSPBaseURL  string
	GSPTimeout  time.Duration
	BBPSBaseURL string
	BBPSTimeout time.Duration
}

// configFile mirrors the YAML schema used by configs/default.yaml.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Aadhaar struct {
		AuthURL      string `yaml:"auth_url"`
		PublicKeyPEM string `yaml:"public_key_pem"`
		AUACode      string `yaml:"aua_code"`
		SubAUACode   string `yaml:"sub_aua_code"`
		LicenseKey   string `yaml:"license_key"`
	} `yaml:"aadhaar"`
	AccountAggregator struct {
		BaseURL      string `yaml:"base_url"`
		ClientAPIKey string `yaml:"client_api_key"`
		FIUEntityID  string `yaml:"fiu_entity_id"`
	} `yaml:"account_aggregator"`
	GSP struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"gsp"`
	BBPS struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"bbps"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "credit-intelligence-engine",
		HTTPPort:           8080,
		MaxDBConns:         20,
		DegradedMode:       true,
		OTPExpiry:          5 * time.Minute,
		OTPMaxAttempts:     3,
		LockoutDuration:    5 * time.Minute,
		TestOTP:            "123456",
		JWTExpiry:          30 * time.Minute,
		JWSAllowFallback:   true,
		FIRequestTimeout:   30 * time.Second,
		SocialFetchTimeout: 10 * time.Second,
		GSPTimeout:         15 * time.Second,
		BBPSTimeout:        15 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Aadhaar.AuthURL != "" {
			cfg.UIDAIAuthURL = f.Aadhaar.AuthURL
		}
		if f.Aadhaar.PublicKeyPEM != "" {
			cfg.UIDAIPublicKeyPEM = f.Aadhaar.PublicKeyPEM
		}
		if f.Aadhaar.AUACode != "" {
			cfg.AUACode = f.Aadhaar.AUACode
		}
		if f.Aadhaar.SubAUACode != "" {
			cfg.SubAUACode = f.Aadhaar.SubAUACode
		}
		if f.Aadhaar.LicenseKey != "" {
			cfg.LicenseKey = f.Aadhaar.LicenseKey
		}
		if f.AccountAggregator.BaseURL != "" {
			cfg.AABaseURL = f.AccountAggregator.BaseURL
		}
		if f.AccountAggregator.ClientAPIKey != "" {
			cfg.AAClientAPIKey = f.AccountAggregator.ClientAPIKey
		}
		if f.AccountAggregator.FIUEntityID != "" {
			cfg.FIUEntityID = f.AccountAggregator.FIUEntityID
		}
		if f.GSP.BaseURL != "" {
			cfg.GSPBaseURL = f.GSP.BaseURL
		}
		if f.BBPS.BaseURL != "" {
			cfg.BBPSBaseURL = f.BBPS.BaseURL
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.DegradedMode = envBool("DEGRADED_MODE", cfg.DegradedMode)

	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.TestOTP = envOrDefault("TEST_OTP", cfg.TestOTP)

	cfg.UIDAIAuthURL = envOrDefault("UIDAI_AUTH_URL", cfg.UIDAIAuthURL)
	cfg.UIDAIPublicKeyPEM = envOrDefault("UIDAI_PUBLIC_KEY_PEM", cfg.UIDAIPublicKeyPEM)
	cfg.AUACode = envOrDefault("AUA_CODE", cfg.AUACode)
	cfg.SubAUACode = envOrDefault("SUB_AUA_CODE", cfg.SubAUACode)
	cfg.LicenseKey = envOrDefault("LICENSE_KEY", cfg.LicenseKey)

	cfg.JWSClientID = envOrDefault("JWS_CLIENT_ID", cfg.JWSClientID)
	cfg.JWSPrivateKeyPEM = envOrDefault("JWS_PRIVATE_KEY_PEM", cfg.JWSPrivateKeyPEM)
	cfg.JWSHMACSecret = envOrDefault("JWS_HMAC_SECRET", cfg.JWSHMACSecret)
	cfg.JWSAllowFallback = envBool("JWS_ALLOW_FALLBACK", cfg.JWSAllowFallback)

	cfg.AABaseURL = envOrDefault("AA_BASE_URL", cfg.AABaseURL)
	cfg.AAClientAPIKey = envOrDefault("AA_CLIENT_API_KEY", cfg.AAClientAPIKey)
	cfg.FIUEntityID = envOrDefault("FIU_ENTITY_ID", cfg.FIUEntityID)

	cfg.GSPBaseURL = envOrDefault("GSP_BASE_URL", cfg.GSPBaseURL)
	cfg.BBPSBaseURL = envOrDefault("BBPS_BASE_URL", cfg.BBPSBaseURL)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.OTPMaxAttempts = envInt("OTP_MAX_ATTEMPTS", cfg.OTPMaxAttempts)

	if cfg.DatabaseURL == "" && !cfg.DegradedMode {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.JWTSecret == "" {
		if !cfg.DegradedMode {
			return Config{}, fmt.Errorf("missing JWT_SECRET")
		}
		cfg.JWTSecret = "dev-only-jwt-secret"
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
