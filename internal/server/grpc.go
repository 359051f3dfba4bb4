// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"

	"github.com/AccelByte/extend-tag-engine/pkg/common"
	"github.com/AccelByte/extend-tag-engine/pkg/handler"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// GRPCServer serves the TagEngine API alongside health and reflection.
type GRPCServer struct {
	server *grpc.Server
	port   int
	engine handler.TagEngineServer
	health *health.Server
}

func NewGRPCServer(port int, engine handler.TagEngineServer) *GRPCServer {
	return &GRPCServer{
		port:   port,
		engine: engine,
		health: health.NewServer(),
	}
}

// Health returns the health service so store probes can flip its status.
func (s *GRPCServer) Health() *health.Server {
	return s.health
}

// Setup builds the server and registers every service.
//
// ============================================================
// DEVELOPER: Interceptors
// ============================================================
// Calls pass through, in order: panic recovery, then call logging.
// Player identity arrives in the request body; add an auth
// interceptor at the end of the chain once requests carry tokens.
// ============================================================
func (s *GRPCServer) Setup() error {
	logger := common.InterceptorLogger(logrus.StandardLogger())
	recoverOpt := recovery.WithRecoveryHandler(func(p any) error {
		logrus.Errorf("recovered from panic in gRPC handler: %v", p)
		return status.Errorf(codes.Internal, "internal error")
	})
	logOpt := logging.WithLogOnEvents(logging.FinishCall)

	s.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoverOpt),
			logging.UnaryServerInterceptor(logger, logOpt),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverOpt),
			logging.StreamServerInterceptor(logger, logOpt),
		),
	)

	handler.RegisterTagEngineServer(s.server, s.engine)
	reflection.Register(s.server)
	grpc_health_v1.RegisterHealthServer(s.server, s.health)

	logrus.Infof("registered %s with reflection and health checks", handler.ServiceName)
	return nil
}

// Start listens on the configured port and serves in the background.
func (s *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	go func() {
		logrus.Infof("gRPC server listening on port %d", s.port)
		if err := s.server.Serve(lis); err != nil {
			logrus.Fatalf("gRPC server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown reports NOT_SERVING to probes, then drains in-flight calls.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down gRPC server...")
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}
