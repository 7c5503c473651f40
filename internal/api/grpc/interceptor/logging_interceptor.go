package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"hireshop-backend/internal/logger"
)

// Logging returns a server interceptor that logs every unary RPC at debug level
// and failed ones at warn.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
		if err != nil {
			logger.Warn("gRPC call failed", append(args, "error", err)...)
		} else {
			logger.Debug("gRPC call", args...)
		}
		return resp, err
	}
}
