// Package config builds the application configuration from the environment.
// It is constructed once in main and passed by pointer to whatever needs it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultPort            = 8080
	defaultDatabasePort    = 3306
	defaultCallbackPath    = "/signin-oidc"
	defaultSessionTTL      = 8 * time.Hour
	defaultOrdersTimeout   = 10 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	minSessionSecretLength = 32
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	AzureAd  AzureAdConfig
	Session  SessionConfig
	Orders   OrdersConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Env             string
	Port            int
	PathBase        string // mount prefix, "" for the root
	ShutdownTimeout time.Duration
}

func (c ServerConfig) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

type LogConfig struct {
	Level string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// AzureAdConfig is the identity provider registration of this application.
type AzureAdConfig struct {
	Instance     string
	TenantID     string
	ClientID     string
	ClientSecret string
	CallbackPath string
}

// Authority is the instance URL joined with the tenant id.
func (c AzureAdConfig) Authority() string {
	return strings.TrimRight(c.Instance, "/") + "/" + c.TenantID
}

// IssuerURL is the OpenID Connect discovery issuer for the tenant.
func (c AzureAdConfig) IssuerURL() string {
	return c.Authority() + "/v2.0"
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type OrdersConfig struct {
	ODataServiceBaseURL string
	Timeout             time.Duration
}

type SeedConfig struct {
	// Required makes startup fail when the catalog could not be seeded.
	Required bool
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	var errs []error
	p := parser{getenv: getenv}

	cfg := &Config{
		Server: ServerConfig{
			Env:             p.str("APP_ENV", EnvProduction),
			Port:            p.integer("PORT", defaultPort, &errs),
			PathBase:        strings.TrimRight(p.str("PATH_BASE", ""), "/"),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &errs),
		},
		Log: LogConfig{
			Level: p.str("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     p.str("DB_HOST", ""),
			Port:     p.integer("DB_PORT", defaultDatabasePort, &errs),
			User:     p.str("DB_USER", ""),
			Password: p.str("DB_PASSWORD", ""),
			Name:     p.str("DB_NAME", ""),
		},
		AzureAd: AzureAdConfig{
			Instance:     p.str("AZUREAD_INSTANCE", ""),
			TenantID:     p.str("AZUREAD_TENANT_ID", ""),
			ClientID:     p.str("AZUREAD_CLIENT_ID", ""),
			ClientSecret: p.str("AZUREAD_CLIENT_SECRET", ""),
			CallbackPath: p.str("AZUREAD_CALLBACK_PATH", defaultCallbackPath),
		},
		Session: SessionConfig{
			Secret: p.str("SESSION_SECRET", ""),
			TTL:    p.duration("SESSION_TTL", defaultSessionTTL, &errs),
		},
		Orders: OrdersConfig{
			ODataServiceBaseURL: p.str("ODATA_SERVICE_BASE_URL", ""),
			Timeout:             p.duration("ODATA_TIMEOUT", defaultOrdersTimeout, &errs),
		},
		Seed: SeedConfig{
			Required: p.boolean("SEED_REQUIRED", false, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate reports every missing or malformed field at once.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"DB_HOST", c.Database.Host},
		{"DB_USER", c.Database.User},
		{"DB_NAME", c.Database.Name},
		{"AZUREAD_INSTANCE", c.AzureAd.Instance},
		{"AZUREAD_TENANT_ID", c.AzureAd.TenantID},
		{"AZUREAD_CLIENT_ID", c.AzureAd.ClientID},
		{"SESSION_SECRET", c.Session.Secret},
		{"ODATA_SERVICE_BASE_URL", c.Orders.ODataServiceBaseURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}
	if c.Server.Env != EnvDevelopment && c.Server.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Server.Env))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.PathBase != "" && !strings.HasPrefix(c.Server.PathBase, "/") {
		errs = append(errs, errors.New("PATH_BASE must start with /"))
	}
	if !strings.HasPrefix(c.AzureAd.CallbackPath, "/") {
		errs = append(errs, errors.New("AZUREAD_CALLBACK_PATH must start with /"))
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < minSessionSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLength))
	}
	for name, raw := range map[string]string{
		"AZUREAD_INSTANCE":       c.AzureAd.Instance,
		"ODATA_SERVICE_BASE_URL": c.Orders.ODataServiceBaseURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL", name))
		}
	}

	return errors.Join(errs...)
}

type parser struct {
	getenv func(string) string
}

func (p parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p parser) integer(key string, def int, errs *[]error) int {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return def
	}
	return v
}

func (p parser) duration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration: %w", key, err))
		return def
	}
	return v
}

func (p parser) boolean(key string, def bool, errs *[]error) bool {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a boolean: %w", key, err))
		return def
	}
	return v
}
