package handler

import (
	"context"
	"errors"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain は ErrorInfo に設定するエラードメインです。
const ErrorDomain = "dailyreport"

func toStatusError(err error) error {
	if err == nil {
		return nil
	}

	if kind := report.KindOf(err); kind != report.KindUnknown {
		return withKind(kindCode(kind), kind, err)
	}

	switch {
	case errors.Is(err, report.ErrInvalidActor),
		errors.Is(err, report.ErrInvalidPageSize),
		errors.Is(err, report.ErrInvalidPageToken),
		errors.Is(err, employee.ErrInvalidCode),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidRole):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrCodeAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, employee.ErrEmployeeDeleted):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func kindCode(kind report.Kind) codes.Code {
	switch kind {
	case report.KindDateCheck:
		return codes.AlreadyExists
	case report.KindNotFound:
		return codes.NotFound
	default:
		return codes.InvalidArgument
	}
}

func withKind(code codes.Code, kind report.Kind, err error) error {
	st := status.New(code, err.Error())
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(kind),
		Domain: ErrorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// KindFromStatus は gRPC エラーに付与された結果種別を取り出します。
func KindFromStatus(err error) report.Kind {
	st, ok := status.FromError(err)
	if !ok {
		return report.KindUnknown
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return report.Kind(info.GetReason())
		}
	}
	return report.KindUnknown
}
