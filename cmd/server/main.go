package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lawfirm-cms/internal/app"
	"lawfirm-cms/internal/config"
	"lawfirm-cms/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	envFilePath      = ".env"
	envLogLevel      = "LOG_LEVEL"
	signalBufferSize = 1
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	log := logger.Logger
	if err := godotenv.Load(envFilePath); err != nil {
		log.Warn(".env file not found, using environment variables")
	}
	if level, err := logrus.ParseLevel(os.Getenv(envLogLevel)); err == nil {
		log.SetLevel(level)
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	log.WithFields(logrus.Fields{
		"store":  cfg.Database.Driver,
		"images": cfg.AWS.ImageStore,
	}).Info("configuration loaded")

	service, err := app.InitializeService(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize service")
	}

	go func() {
		if err := service.Start(); err != nil {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := service.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited gracefully")
}
