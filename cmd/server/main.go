package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/app"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/config"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/logger"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "report-server")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	a, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			zlog.Warn("failed to release resources", zap.Error(err))
		}
	}()

	grpcServer := server.New(cfg.Server.ListenAddr, a.Reports, a.Employees, zlog.Named("grpc"))

	zlog.Info("gRPC server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := grpcServer.Run(ctx); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		return
	}
	zlog.Info("server stopped")
}
