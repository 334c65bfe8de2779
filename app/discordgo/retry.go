package discord

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"net"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

const (
	maxRetryAttempts = 4
	baseRetryDelay   = 250 * time.Millisecond
	maxRetryDelay    = 3 * time.Second
)

// RetryDiscordAPI retries transient Discord API failures with exponential
// backoff and jitter. Non-retryable errors (4xx other than 429) are returned
// immediately.
func RetryDiscordAPI(logger *slog.Logger, operation string, fn func() error) error {
	delay := baseRetryDelay
	var lastErr error

	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt == maxRetryAttempts || !isRetryable(err) {
			return err
		}

		wait := delay + jitter(delay/2)
		if logger != nil {
			logger.Warn("Retrying transient Discord API failure",
				attr.String("operation", operation),
				attr.Int("attempt", attempt),
				attr.Duration("retry_in", wait),
				attr.Error(err),
			)
		}

		time.Sleep(wait)
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}

	return lastErr
}

func isRetryable(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Response == nil {
			return false
		}
		status := restErr.Response.StatusCode
		return status == 429 || status >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max.Nanoseconds()+1))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
