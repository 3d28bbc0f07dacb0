package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/internal/api/http/middleware"
	"github.com/pulseai/pulsedesk/internal/api/http/router"
	"github.com/pulseai/pulsedesk/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client `optional:"true"`
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := New(p.Cfg, p.Router, p.Redis, p.OTel != nil)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// New builds the app with global middleware and all routes. It does not
// listen.
func New(cfg *config.Config, r *router.Router, rdb *redis.Client, tracing bool) *fiber.App {
	fc := fiber.Config{AppName: cfg.Observability.ServiceName}
	if cfg.Server.TimeoutSeconds > 0 {
		timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
		fc.ReadTimeout = timeout
		fc.WriteTimeout = timeout
	}
	app := fiber.New(fc)

	if tracing && cfg.Observability.Tracing.Enabled {
		app.Use(observability.FiberMiddleware(cfg.Observability.ServiceName))
	}

	configureGlobalMiddleware(app, cfg, rdb)

	r.Register(app)
	return app
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, rdb *redis.Client) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.Environment == "production" {
		app.Use(helmet.New())
	}
	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORS.AllowOrigins,
			AllowMethods:     cfg.Server.CORS.AllowMethods,
			AllowHeaders:     cfg.Server.CORS.AllowHeaders,
			AllowCredentials: cfg.Server.CORS.AllowCredentials,
			MaxAge:           cfg.Server.CORS.MaxAgeSeconds,
		}))
	}
	if cfg.Server.RateLimit.Enabled {
		app.Use(middleware.NewLimiter(cfg.Server.RateLimit, rdb))
	}

	app.Use(accessLogger(nil))
}

const accessLogFormat = "${ip} - [${time}] [req_id=${locals:" + middleware.LocalRequestID + "}] ${method} ${url} ${status}\n"

// accessLogger writes one line per request to w, or to stdout when w is nil.
// It must run after middleware.RequestID.
func accessLogger(w io.Writer) fiber.Handler {
	lc := logger.Config{Format: accessLogFormat}
	if w != nil {
		lc.Stream = w
	}
	return logger.New(lc)
}
