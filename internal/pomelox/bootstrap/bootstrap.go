package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pomelox/pomelox/internal/pomelox/config"
	"github.com/pomelox/pomelox/internal/pomelox/router"
	"github.com/pomelox/pomelox/internal/pomelox/service"
	"github.com/pomelox/pomelox/pkg/log"
	"github.com/pomelox/pomelox/pkg/metrics"
	"github.com/pomelox/pomelox/pkg/safe"
	"go.uber.org/zap"
)

type App struct {
	HttpApp  *fiber.App
	Metrics  *metrics.Server
	Services *service.Services
	Logger   *log.Logger
	AppConf  *config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	metricsServer *metrics.Server,
	appConf *config.AppConfig,
) (*App, func(), error) {
	httpApp := rt.Router()

	app := &App{
		HttpApp:  httpApp,
		Metrics:  metricsServer,
		Services: rt.Services,
		Logger:   logger,
		AppConf:  appConf,
	}

	cleanup := func() {
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(ctx); err != nil {
				logger.Log.Errorw("metrics server shutdown error", zap.Error(err))
			}
		}
		_ = log.Sync()
	}

	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	// Wire build App
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	appConf := app.AppConf

	// 独立端口的 metrics 服务，Enable=false 时不启动
	if app.Metrics != nil {
		if err := app.Metrics.Start(); err != nil {
			logger.Errorf("metrics server failed: %v", err)
		}
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	safe.Go("http-listener", func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		logger.Infow("HTTP listener started",
			"address", addr,
			"contextPath", appConf.Http.ContextPath,
		)
		if err := app.HttpApp.Listen(addr); err != nil {
			logger.Errorw("HTTP listener failed",
				"address", addr,
				zap.Error(err),
			)
		}
	})

	// wait for exit signal
	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(appConf.Http.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	cleanup()

	logger.Info("Server shutdown complete")
}
