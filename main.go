package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelchat/internal/pkg/config"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/logger"
	"github.com/FACorreiaa/go-travelchat/internal/server"
)

const serviceName = "go-travelchat"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err = logger.Init(logger.ParseLevel(cfg.Observability.LogLevel), zap.String("service", serviceName)); err != nil {
		return err
	}
	defer logger.Log.Sync()

	otelShutdown, err := server.InitObservability(serviceName, cfg.Observability.MetricsAddr, logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(context.Background(), cfg, logger.Log)
	if err != nil {
		return err
	}
	defer srv.Close()

	srv.SetRouter(server.SetupRouter(srv.Controller(), srv.Caches(), logger.Log))

	// Start pprof server (on separate port, not exposed publicly)
	server.StartPprofServer(cfg.Observability.PprofAddr, logger.Log)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, cfg.ShutdownTimeout, logger.Log, done)

	logger.Log.Info("Server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("mode", cfg.LLM.Mode))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("Server error", zap.Error(err))
		return err
	}

	<-done
	logger.Log.Info("Graceful shutdown complete")

	return nil
}
