// Package logger provides a structured, levelled logger built on log/slog.
//
// Handlers get a logger already tagged with the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("build item added", "build_id", b.ID)
//	// → time=... level=INFO msg="build item added" request_id=a1b2c3d4 build_id=7
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/pcbuilder/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

// baseHandler writes JSON in production (for log aggregators) and text
// everywhere else.
func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// ConnectMongo adds the MongoDB sink when LOG_MONGO_URI is configured.
// The returned close func flushes and disconnects; it is a no-op when the
// sink is disabled.
func ConnectMongo() (func(), error) {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}, nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		return func() {}, err
	}

	L = slog.New(NewMultiHandler(baseHandler(), mh))
	slog.SetDefault(L)
	return mh.Close, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request logger injected by the Logger middleware, or
// the base logger when ctx carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

// LevelFor picks the access-log level for an HTTP status: 5xx is an error,
// 4xx a warning, everything else info.
func LevelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
