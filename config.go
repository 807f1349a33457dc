package genblog

import (
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"

	"github.com/eringen/genblog/generator"
)

// SiteConfig holds all configuration for a genblog site.
type SiteConfig struct {
	Name string // Site name (default "GenBlog")
	URL  string // Canonical URL (default "http://localhost:3000")
	Addr string // Listen address (default ":3000")

	APIKey string // Gemini credential; generation is disabled when empty
	Model  string // Gemini model (default generator.DefaultModel)

	SessionSecret string // Cookie signing secret (random per process when empty)
	CookieSecure  bool   // Set true for HTTPS

	WorkspaceTTL   time.Duration // Idle time before a session workspace is dropped (default 2h)
	GenerateLimit  int           // Generations per IP per window (default 10)
	GenerateWindow time.Duration // Rate limit window (default 1min)
	MaxWorkspaces  int           // Live session workspaces kept at once (default DefaultMaxWorkspaces)

	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "GenBlog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Model == "" {
		c.Model = generator.DefaultModel
	}
	if c.SessionSecret == "" {
		c.SessionSecret = hex.EncodeToString(securecookie.GenerateRandomKey(32))
	}
	if c.WorkspaceTTL <= 0 {
		c.WorkspaceTTL = 2 * time.Hour
	}
	if c.GenerateLimit <= 0 {
		c.GenerateLimit = 10
	}
	if c.GenerateWindow <= 0 {
		c.GenerateWindow = time.Minute
	}
	if c.MaxWorkspaces <= 0 {
		c.MaxWorkspaces = DefaultMaxWorkspaces
	}
}

// Resolved returns a copy of c with every unset field defaulted.
func (c SiteConfig) Resolved() SiteConfig {
	c.setDefaults()
	return c
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func LoadConfig() SiteConfig {
	_ = godotenv.Load()

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	return SiteConfig{
		Name:           os.Getenv("SITE_NAME"),
		URL:            os.Getenv("SITE_URL"),
		Addr:           os.Getenv("ADDR"),
		APIKey:         apiKey,
		Model:          os.Getenv("GENBLOG_MODEL"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		CookieSecure:   strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		WorkspaceTTL:   envDuration("WORKSPACE_TTL", 0),
		GenerateLimit:  envInt("GENERATE_LIMIT", 0),
		GenerateWindow: envDuration("GENERATE_WINDOW", 0),
		MaxWorkspaces:  envInt("MAX_WORKSPACES", 0),
		LogLevel:       EnvOr("LOG_LEVEL", "info"),
		LogFormat:      EnvOr("LOG_FORMAT", "text"),
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithGenerator replaces the generation client built from the config.
func WithGenerator(g *generator.Client) Option {
	return func(a *App) {
		a.Generator = g
	}
}

// WithComposer replaces the draft composer (IDs, images, clock).
func WithComposer(c *Composer) Option {
	return func(a *App) {
		a.Composer = c
	}
}

// WithSeed replaces the embedded sample data.
func WithSeed(s Seed) Option {
	return func(a *App) {
		a.seed = &s
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
