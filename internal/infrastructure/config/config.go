package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DuplicateScope controls the name-uniqueness guard: "global" rejects a
	// name taken by any user, "owner" only by the caller's own books.
	DuplicateScope string `env:"DUPLICATE_SCOPE, default=global"`

	Supabase SupabaseConfig
	Redis    RedisConfig
	Login    LoginConfig
}

// SupabaseConfig points at the managed backend. URL and Key are mandatory;
// startup is fatal without them.
type SupabaseConfig struct {
	URL string `env:"SUPABASE_URL, required"`
	Key string `env:"SUPABASE_KEY, required"`
	// JWTSecret enables local bearer verification. When empty, tokens are
	// resolved remotely via the auth service.
	JWTSecret string `env:"SUPABASE_JWT_SECRET"`
}

type RedisConfig struct {
	// Addr left empty disables the login attempt limiter.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=10"`
	AttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return &cfg
}

// ScopeDuplicateCheckToOwner reports whether the uniqueness guard should be
// restricted to the caller's own books.
func (c *Config) ScopeDuplicateCheckToOwner() bool {
	return c.DuplicateScope == "owner"
}
