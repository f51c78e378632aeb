// Package grpc runs the side gRPC listener that orchestrators probe with the
// standard grpc.health.v1 service. The reported status follows a periodic
// database ping.
//
//	srv := grpc.New(database.Ping)
//	if err := srv.Start(ctx, config.GRPCPort()); err != nil { ... }
//	defer srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/metrics"
)

// ServiceName is the health service name reported next to the overall "".
const ServiceName = "pcbuilder"

var (
	handledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pcbuilder",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	handlingSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pcbuilder",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"grpc_method"})
)

func init() {
	metrics.MustRegister(handledTotal, handlingSeconds)
}

// Pinger checks a dependency; nil means healthy.
type Pinger func(ctx context.Context) error

type Server struct {
	srv      *grpc.Server
	health   *health.Server
	ping     Pinger
	interval time.Duration
	cancel   context.CancelFunc
}

// New builds the server with recovery, logging and metrics interceptors.
func New(ping Pinger) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, loggingInterceptor, metricsInterceptor),
		grpc.MaxRecvMsgSize(1<<20),
	)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{srv: srv, health: hs, ping: ping, interval: 10 * time.Second}
}

// Start listens on port and serves in the background, probing health until
// ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("grpc: listen on :%s: %w", port, err)
	}
	s.Serve(ctx, lis)
	logger.Info("gRPC server started", "addr", lis.Addr().String())
	return nil
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, lis net.Listener) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.probe(ctx)

	go s.watch(ctx)
	go func() {
		if err := s.srv.Serve(lis); err != nil {
			logger.Error("grpc: serve", "error", err)
		}
	}()
}

// Stop marks the server NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func (s *Server) watch(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.probe(ctx)
		}
	}
}

func (s *Server) probe(ctx context.Context) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if s.ping != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.ping(pctx)
		cancel()
		if err != nil {
			logger.Warn("grpc: health probe failed", "error", err)
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"code", status.Code(err).String(),
	)
	return resp, err
}

func metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	handledTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	handlingSeconds.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	return resp, err
}
