package handler

import (
	"context"
	"strings"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

var _ EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// RegisterEmployee は社員を登録します。
func (h *EmployeeGrpcHandler) RegisterEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := req.GetFields()
	code := fields["code"].GetStringValue()
	if strings.TrimSpace(code) == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	created, err := h.svc.RegisterEmployee(ctx, employee.RegisterEmployeeInput{
		Code:         code,
		Name:         fields["name"].GetStringValue(),
		Role:         employee.Role(strings.ToUpper(fields["role"].GetStringValue())),
		PasswordHash: fields["password_hash"].GetStringValue(),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := structpb.NewStruct(map[string]any{"employee": employeeToMap(created)})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// ListEmployees は論理削除済みを含む社員一覧を取得します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(employees))
	for _, e := range employees {
		items = append(items, employeeToMap(e))
	}

	resp, err := structpb.NewStruct(map[string]any{"employees": items})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// パスワードハッシュは応答に含めない。
func employeeToMap(e *employee.Employee) map[string]any {
	if e == nil {
		return nil
	}

	return map[string]any{
		"id":         e.ID,
		"code":       e.Code,
		"name":       e.Name,
		"role":       string(e.Role),
		"role_name":  e.Role.DisplayName(),
		"delete_flg": e.DeleteFlg,
		"created_at": e.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
