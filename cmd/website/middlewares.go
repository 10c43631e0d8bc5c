package main

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/imagegallery/cmd/website/internal/configuration"
	"github.com/adampresley/imagegallery/pkg/logging"
)

func setupLogger(config *configuration.Config, version string) {
	slog.SetDefault(logging.NewLogger(config.LogLevel, appName, version))
}

func requestLogger(next http.Handler) http.Handler {
	return logging.RequestLogger(next)
}
