package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))
}

func TestWithCtxReturnsInjected(t *testing.T) {
	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := InjectLogger(context.Background(), reqLog)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	slog.New(h).With("build_id", 7).Info("item added")

	assert.True(t, strings.Contains(a.String(), "build_id=7"))
	assert.True(t, strings.Contains(b.String(), `"build_id":7`))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LevelFor(200))
	assert.Equal(t, slog.LevelWarn, LevelFor(409))
	assert.Equal(t, slog.LevelError, LevelFor(503))
}

func TestMongoHandlerCloseWaitsForFinalFlush(t *testing.T) {
	var (
		mu       sync.Mutex
		inserted int
	)
	h := &MongoHandler{
		queue:   make(chan LogDocument, 8),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		insert: func(_ context.Context, docs []interface{}) error {
			time.Sleep(50 * time.Millisecond)
			mu.Lock()
			inserted += len(docs)
			mu.Unlock()
			return nil
		},
	}
	for i := 0; i < 3; i++ {
		h.queue <- LogDocument{Msg: "build item added"}
	}
	go h.drainLoop()

	h.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, inserted)
	assert.NotPanics(t, h.Close)
}
