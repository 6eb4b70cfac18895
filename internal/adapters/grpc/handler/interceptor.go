package handler

import (
	"context"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDMetadataKey はリクエスト ID を運ぶメタデータキーです。
const RequestIDMetadataKey = "x-request-id"

// UnaryLoggingInterceptor はメソッド、リクエスト ID、ステータス、処理時間を記録します。
// ハンドラ内の panic は Internal として返します。
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		requestID := requestIDFrom(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, requestID))

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in handler",
					zap.String("method", info.FullMethod),
					zap.String("request_id", requestID),
					zap.Any("panic", r),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}

			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("request_id", requestID),
				zap.String("code", status.Code(err).String()),
				zap.Duration("latency", time.Since(start)),
			}
			if kind := KindFromStatus(err); kind != report.KindUnknown {
				fields = append(fields, zap.String("kind", string(kind)))
			}

			switch status.Code(err) {
			case codes.OK, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists, codes.Unauthenticated, codes.PermissionDenied:
				logger.Info("grpc request", fields...)
			default:
				logger.Error("grpc request failed", append(fields, zap.Error(err))...)
			}
		}()

		return handler(ctx, req)
	}
}

func requestIDFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(RequestIDMetadataKey); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return uuid.NewString()
}
