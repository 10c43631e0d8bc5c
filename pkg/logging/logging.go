package logging

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

/*
NewLogger builds a JSON logger on stdout tagged with the application name
and version.
*/
func NewLogger(level, appName, version string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: LevelFromString(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	})

	return slog.New(handler).With("app", appName, "version", version)
}

type statusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

/*
RequestLogger logs method, path, status and duration of every request.
*/
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, Status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		slog.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.String()),
			slog.Int("status", recorder.Status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
