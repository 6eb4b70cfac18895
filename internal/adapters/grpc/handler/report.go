package handler

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// EmployeeCodeMetadataKey は上流の認証層が設定する操作社員番号のメタデータキーです。
const EmployeeCodeMetadataKey = "x-employee-code"

// ReportGrpcHandler は ReportService の gRPC 実装です。
type ReportGrpcHandler struct {
	reports   report.UseCase
	employees employee.UseCase
}

var _ ReportServiceServer = (*ReportGrpcHandler)(nil)

// NewReportGrpcHandler は ReportGrpcHandler を生成します。
func NewReportGrpcHandler(reports report.UseCase, employees employee.UseCase) *ReportGrpcHandler {
	return &ReportGrpcHandler{reports: reports, employees: employees}
}

// CreateReport は操作社員の日報を作成します。
func (h *ReportGrpcHandler) CreateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := h.actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := draftFromStruct(req)
	if err != nil {
		return nil, err
	}

	created, err := h.reports.CreateReport(ctx, report.CreateReportInput{Actor: actor, Draft: draft})
	if err != nil {
		return nil, toStatusError(err)
	}

	return reportResponse(created)
}

// UpdateReport は日報の日付、タイトル、内容を更新します。
func (h *ReportGrpcHandler) UpdateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if _, err := h.actorFromContext(ctx); err != nil {
		return nil, err
	}

	id, err := int64Field(req, "id")
	if err != nil {
		return nil, err
	}

	draft, err := draftFromStruct(req)
	if err != nil {
		return nil, err
	}

	updated, err := h.reports.UpdateReport(ctx, report.UpdateReportInput{ID: id, Draft: draft})
	if err != nil {
		return nil, toStatusError(err)
	}

	return reportResponse(updated)
}

// DeleteReport は日報を論理削除します。
func (h *ReportGrpcHandler) DeleteReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if _, err := h.actorFromContext(ctx); err != nil {
		return nil, err
	}

	id, err := int64Field(req, "id")
	if err != nil {
		return nil, err
	}

	if err := h.reports.DeleteReport(ctx, report.DeleteReportInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

// GetReport は ID で日報を取得します。include_deleted が true の場合は論理削除済みも返します。
func (h *ReportGrpcHandler) GetReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := int64Field(req, "id")
	if err != nil {
		return nil, err
	}

	in := report.GetReportInput{ID: id}
	var found *report.Report
	if req.GetFields()["include_deleted"].GetBoolValue() {
		found, err = h.reports.GetReport(ctx, in)
	} else {
		found, err = h.reports.FindActiveReport(ctx, in)
	}
	if err != nil {
		return nil, toStatusError(err)
	}

	return reportResponse(found)
}

// ListReports は有効な日報の一覧を取得します。
func (h *ReportGrpcHandler) ListReports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := req.GetFields()
	pageSize := 0
	if _, ok := fields["page_size"]; ok {
		size, err := int64Field(req, "page_size")
		if err != nil {
			return nil, err
		}
		pageSize = int(size)
	}

	result, err := h.reports.ListActiveReports(ctx, report.ListReportsInput{
		EmployeeCode: fields["employee_code"].GetStringValue(),
		PageSize:     pageSize,
		PageToken:    fields["page_token"].GetStringValue(),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(result.Reports))
	for _, rep := range result.Reports {
		items = append(items, reportToMap(rep))
	}

	resp, err := structpb.NewStruct(map[string]any{
		"reports":         items,
		"next_page_token": result.NextPageToken,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

func (h *ReportGrpcHandler) actorFromContext(ctx context.Context) (report.Actor, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get(EmployeeCodeMetadataKey)
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return report.Actor{}, status.Error(codes.Unauthenticated, "employee code metadata is required")
	}

	found, err := h.employees.Resolve(ctx, values[0])
	if err != nil {
		return report.Actor{}, toStatusError(err)
	}
	return report.ActorOf(found), nil
}

func draftFromStruct(req *structpb.Struct) (report.Draft, error) {
	fields := req.GetFields()
	draft := report.Draft{
		Title:   fields["title"].GetStringValue(),
		Content: fields["content"].GetStringValue(),
	}

	raw := fields["report_date"].GetStringValue()
	if raw == "" {
		return draft, nil
	}

	date, err := time.Parse(report.DateLayout, raw)
	if err != nil {
		return draft, status.Errorf(codes.InvalidArgument, "report_date must be formatted as %s", report.DateLayout)
	}
	draft.ReportDate = &date
	return draft, nil
}

func int64Field(req *structpb.Struct, name string) (int64, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
		}
		return n, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
}

func reportResponse(rep *report.Report) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(map[string]any{"report": reportToMap(rep)})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

func reportToMap(rep *report.Report) map[string]any {
	if rep == nil {
		return nil
	}

	m := map[string]any{
		"id":            rep.ID,
		"report_date":   rep.ReportDate.Format(report.DateLayout),
		"title":         rep.Title,
		"content":       rep.Content,
		"employee_code": rep.EmployeeCode,
		"delete_flg":    rep.DeleteFlg,
		"created_at":    rep.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":    rep.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if rep.Employee != nil {
		m["employee"] = map[string]any{
			"code":      rep.Employee.Code,
			"name":      rep.Employee.Name,
			"role":      string(rep.Employee.Role),
			"role_name": rep.Employee.Role.DisplayName(),
		}
	}
	return m
}
