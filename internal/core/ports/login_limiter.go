package ports

import "context"

// LoginLimiter throttles repeated sign-in attempts for a single account.
type LoginLimiter interface {
	// Allow records an attempt for the key and reports whether it is still
	// within the configured budget.
	Allow(ctx context.Context, key string) (bool, error)
}
