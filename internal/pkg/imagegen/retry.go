package imagegen

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/safety"
)

// Policy bounds generation retries. Every provider failure is retried
// regardless of kind; Backoff of zero retries immediately.
type Policy struct {
	MaxRetries int // retries after the first attempt; total attempts = MaxRetries + 1
	Backoff    time.Duration
}

// DefaultPolicy matches the observed behavior: two immediate retries
var DefaultPolicy = Policy{MaxRetries: 2, Backoff: 0}

// RetryingGenerator wraps a Generator with prompt sanitization and bounded
// retry. The prompt is sanitized exactly once, before the first attempt.
type RetryingGenerator struct {
	gen       Generator
	sanitizer *safety.Sanitizer
	policy    Policy
}

// NewRetryingGenerator builds the wrapper. A nil sanitizer skips redaction.
func NewRetryingGenerator(gen Generator, sanitizer *safety.Sanitizer, policy Policy) *RetryingGenerator {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &RetryingGenerator{gen: gen, sanitizer: sanitizer, policy: policy}
}

// Generate sanitizes the prompt once and attempts generation up to
// MaxRetries+1 times. Each failed attempt is logged with its index; when the
// budget is exhausted a single aggregated error is returned.
func (r *RetryingGenerator) Generate(ctx context.Context, prompt string, seed int64, gc GenContext) ([]byte, error) {
	safePrompt := prompt
	if r.sanitizer != nil {
		safePrompt = r.sanitizer.Sanitize(prompt)
	}

	attempts := r.policy.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		image, err := r.gen.Generate(ctx, safePrompt, seed, gc)
		if err == nil {
			return image, nil
		}
		lastErr = err

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Str("story_id", gc.StoryID).
			Str("item", gc.ItemKey).
			Msg("image generation attempt failed")

		if attempt == attempts {
			break
		}
		if r.policy.Backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.policy.Backoff):
			}
		}
	}

	return nil, fmt.Errorf("image generation failed after %d attempts: %w", attempts, lastErr)
}
