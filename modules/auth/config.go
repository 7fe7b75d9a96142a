package auth

import "time"

// Config holds the HTTP-facing auth settings. Token lifetimes live in
// auth.TokenConfig; these control only the cookie envelope around them.
type Config struct {
	AppEnv           string        `env:"APP_ENV" envDefault:"development"`
	AccessCookieTTL  time.Duration `env:"ACCESS_COOKIE_TTL" envDefault:"24h"`
	RefreshCookieTTL time.Duration `env:"REFRESH_COOKIE_TTL" envDefault:"168h"`
}

// IsProduction reports whether cookies must carry the Secure attribute.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
