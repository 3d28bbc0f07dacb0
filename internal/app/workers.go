package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/pulseai/pulsedesk/internal/service/notification"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc     fx.Lifecycle
	NC     *nats.Conn
	Direct notification.Notifier `name:"direct"`
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Debug("nats disabled, notification worker not started")
		return
	}
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return notification.StartWorker(p.NC, p.Direct)
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}
