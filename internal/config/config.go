package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	envPrefix = "REACHFOOD_"

	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTemplatesDir    = "templates"
	defaultAssetsDir       = "public/assets"
	defaultCookieName      = "rf_session"
	defaultSessionMaxAge   = 30 * 24 * time.Hour
	defaultCartTTL         = 2 * time.Hour
	defaultSweepInterval   = 5 * time.Minute
	defaultNewsletterDelay = time.Second
	defaultCheckoutDelay   = 1500 * time.Millisecond
	defaultLogLevel        = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Store      StoreConfig
	Locale     LocaleConfig
	Simulation SimulationConfig
	Log        LogConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	DevMode         bool
	TemplatesDir    string `validate:"required"`
	AssetsDir       string `validate:"required"`
}

// SessionConfig configures the session cookie. Empty keys are generated at startup, which
// invalidates sessions on restart.
type SessionConfig struct {
	CookieName string        `validate:"required"`
	HashKey    string        `validate:"omitempty,min=32"`
	BlockKey   string        `validate:"omitempty,len=32"`
	Secure     bool
	MaxAge     time.Duration `validate:"gt=0"`
}

// StoreConfig controls the in-memory cart registry.
type StoreConfig struct {
	CartTTL       time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
}

// LocaleConfig controls initial language selection.
type LocaleConfig struct {
	// NegotiateAcceptLanguage seeds first-time visitors from Accept-Language instead of English.
	NegotiateAcceptLanguage bool
}

// SimulationConfig sets the artificial latency of simulated remote calls.
type SimulationConfig struct {
	NewsletterDelay time.Duration `validate:"gte=0"`
	CheckoutDelay   time.Duration `validate:"gte=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile sets the dotenv file consulted after the process environment. An empty path
// disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap supplies explicit values that take precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration from defaults, the dotenv file, the process environment and
// the explicit map, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		key = envPrefix + key
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "PORT", defaultPort),
			ReadTimeout:     durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			DevMode:         boolWithDefault(lookup, "DEV", false),
			TemplatesDir:    stringWithDefault(lookup, "TEMPLATES_DIR", defaultTemplatesDir),
			AssetsDir:       stringWithDefault(lookup, "ASSETS_DIR", defaultAssetsDir),
		},
		Session: SessionConfig{
			CookieName: stringWithDefault(lookup, "SESSION_COOKIE", defaultCookieName),
			HashKey:    stringWithDefault(lookup, "SESSION_HASH_KEY", ""),
			BlockKey:   stringWithDefault(lookup, "SESSION_BLOCK_KEY", ""),
			Secure:     boolWithDefault(lookup, "SESSION_SECURE", false),
			MaxAge:     durationWithDefault(lookup, "SESSION_MAX_AGE", defaultSessionMaxAge),
		},
		Store: StoreConfig{
			CartTTL:       durationWithDefault(lookup, "CART_TTL", defaultCartTTL),
			SweepInterval: durationWithDefault(lookup, "CART_SWEEP_INTERVAL", defaultSweepInterval),
		},
		Locale: LocaleConfig{
			NegotiateAcceptLanguage: boolWithDefault(lookup, "NEGOTIATE_LANGUAGE", false),
		},
		Simulation: SimulationConfig{
			NewsletterDelay: durationWithDefault(lookup, "NEWSLETTER_DELAY", defaultNewsletterDelay),
			CheckoutDelay:   durationWithDefault(lookup, "CHECKOUT_DELAY", defaultCheckoutDelay),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the server.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

func validateConfig(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.TrimPrefix(fe.Namespace(), "Config."))
	}
	return &ValidationError{fields: fields}
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	values, err := godotenv.Read(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return parsed
		}
		switch strings.ToLower(value) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		}
	}
	return fallback
}
