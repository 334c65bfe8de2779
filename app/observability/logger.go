// Package observability constructs the process logger. Logs go to stdout by
// default; when Loki is configured they are shipped there instead.
package observability

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/grafana/loki-client-go/loki"
	slogloki "github.com/samber/slog-loki/v3"
)

// NewLogger builds the slog logger for the bot. The returned stop function
// flushes the Loki client and must be called on shutdown; it is a no-op for
// the stdout logger.
func NewLogger(serviceName, lokiURL, tenantID string) (*slog.Logger, func(), error) {
	if lokiURL == "" {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(
			slog.String("service", serviceName),
		)
		return logger, func() {}, nil
	}

	cfg, err := loki.NewDefaultConfig(lokiURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build loki config: %w", err)
	}
	if tenantID != "" {
		cfg.TenantID = tenantID
	}
	client, err := loki.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create loki client: %w", err)
	}

	logger := slog.New(slogloki.Option{
		Level:  slog.LevelInfo,
		Client: client,
	}.NewLokiHandler()).With(
		slog.String("service", serviceName),
	)
	return logger, client.Stop, nil
}
