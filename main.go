package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"xoarena/config"
	"xoarena/server"
	"xoarena/session"
	"xoarena/standings"
)

// xoarena 入口：启动 HTTP + WebSocket 对战服务
func main() {
	fx.New(
		fx.Provide(
			func() (*config.Config, error) { return config.Load(os.Args[1:]) },
			newLogger,
			func(log *zap.Logger) *zap.SugaredLogger { return log.Sugar() },
			standings.NewLedger,
			server.NewMetrics,
			server.NewHub,
			newCoordinator,
			newGateway,
			func(l *standings.Ledger, c *session.Coordinator, m *server.Metrics) *server.Admin {
				return server.NewAdmin(l, c, m)
			},
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(runServer),
	).Run()
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := server.NewLogger(server.LogOptions{
		File:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Stdout: cfg.LogStdout,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() { server.SyncLogger(log) }))
	return log, nil
}

// 协调器的通知与在线判断都交给 Hub
func newCoordinator(ledger *standings.Ledger, hub *server.Hub, log *zap.SugaredLogger) *session.Coordinator {
	return session.New(ledger, hub, log, session.WithPresence(hub))
}

func newGateway(cfg *config.Config, hub *server.Hub, coord *session.Coordinator, m *server.Metrics, log *zap.SugaredLogger) *server.Gateway {
	return server.NewGateway(server.GatewayOptions{
		SendBuffer:     cfg.SendBuffer,
		PingInterval:   cfg.PingInterval,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
	}, hub, coord, m, log)
}

func runServer(lc fx.Lifecycle, cfg *config.Config, gw *server.Gateway, admin *server.Admin, hub *server.Hub, log *zap.SugaredLogger) {
	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewRouter(gw, admin, cfg.AllowedOrigins)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infof("xoarena listening on %s", cfg.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("listen: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			// 已升级的 WebSocket 不受 Shutdown 管理，需要单独关闭
			hub.CloseAll()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
