package grpc

import (
	"context"
	"sync"
	"time"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// serverMetrics registers the per-method gRPC collectors once per process.
var serverMetrics = sync.OnceValue(func() *grpcprom.ServerMetrics {
	m := grpcprom.NewServerMetrics(grpcprom.WithServerHandlingTimeHistogram())
	prometheus.MustRegister(m)
	return m
})

// Server is the catalog gRPC server together with its health service.
type Server struct {
	*grpc.Server
	health *health.Server
}

// NewGRPCServer builds a server exposing the catalog service, health checks
// and reflection. Every call is counted in Prometheus and logged.
func NewGRPCServer(catalog Catalog, previewCount int) *Server {
	m := serverMetrics()
	s := &Server{
		Server: grpc.NewServer(grpc.ChainUnaryInterceptor(
			m.UnaryServerInterceptor(),
			logCall,
		)),
		health: health.NewServer(),
	}

	RegisterCatalogServer(s.Server, NewServer(catalog, previewCount))
	grpc_health_v1.RegisterHealthServer(s.Server, s.health)
	for _, name := range []string{"", ServiceName} {
		s.health.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	reflection.Register(s.Server)
	m.InitializeMetrics(s.Server)
	return s
}

// Shutdown reports NOT_SERVING to health checkers, then waits for in-flight
// calls to finish.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.GracefulStop()
}

func logCall(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	logger := config.GetLogger()
	code := status.Code(err)
	event := logger.Debug()
	switch code {
	case codes.OK, codes.InvalidArgument, codes.NotFound:
	case codes.Internal, codes.Unknown:
		event = logger.Error()
	default:
		event = logger.Warn()
	}
	event.Str("method", info.FullMethod).
		Stringer("code", code).
		Dur("duration", time.Since(start)).
		Msg("gRPC call")
	return resp, err
}
