package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/internal/api/http/router"
	"github.com/pulseai/pulsedesk/pkg/email"
	"github.com/pulseai/pulsedesk/pkg/logs"
	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/observability"
	redispkg "github.com/pulseai/pulsedesk/pkg/redis"
	"github.com/pulseai/pulsedesk/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideLogService),
	fx.Provide(
		func(c *logservice.Client) logservice.API { return c },
		func(c *logservice.Client) router.Pinger { return c },
	),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
)

// ProvideLogger builds the configured logger and installs it as the slog
// default, so package-level slog calls share its handlers.
func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := logs.New(cfg)
	slog.SetDefault(logger)
	return logger
}

// The logger is a dependency so requests are logged through it from the
// first call.
func ProvideLogService(_ *slog.Logger, cfg *config.Config) *logservice.Client {
	lc := logservice.FromCentralConfig(cfg.LogService)
	slog.Info("log service configured", "base_url", lc.BaseURL, "timeout", lc.Timeout())
	return logservice.New(lc)
}

// ProvideRedis returns nil when redis.addr is unset; the rate limiter then
// keeps its counters in memory.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.New(context.Background(), cfg.Redis)
	if errors.Is(err, redispkg.ErrDisabled) {
		slog.Debug("redis disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

// ProvideNatsClient returns nil when nats.url is unset; notifications are
// then delivered inline.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(),
		observability.FromCentral(cfg.Observability, cfg.Server.Environment))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
