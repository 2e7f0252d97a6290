package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudnotes-be/internal/bootstrap"
	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/internal/server"
	"cloudnotes-be/internal/tracer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 2. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(ctx, cfg.Trace, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Infrastructure (note store, object store, event forwarding)
	infra, err := bootstrap.NewInfrastructure(ctx, cfg, sysLogger)
	if err != nil {
		sysLogger.Error("BOOTSTRAP", "Failed to initialize infrastructure", map[string]interface{}{"error": err.Error()})
		log.Fatalf("Unable to initialize infrastructure: %v", err)
	}
	defer infra.Close()

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg, infra, sysLogger)
	defer container.Close()

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		sysLogger.Warn("EVENTS", "Consumer service did not start", map[string]interface{}{"error": err.Error()})
	}

	// 6. Run Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sysLogger.Error("HTTP", "Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	if err := srv.Run(); err != nil {
		sysLogger.Error("HTTP", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
