package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReportServiceName は日報サービスの完全修飾名です。
const ReportServiceName = "report.v1.ReportService"

const (
	methodCreateReport = "CreateReport"
	methodUpdateReport = "UpdateReport"
	methodDeleteReport = "DeleteReport"
	methodGetReport    = "GetReport"
	methodListReports  = "ListReports"
)

// ReportServiceServer は report.v1.ReportService のサーバー側インターフェースです。
// リクエストとレスポンスは google.protobuf.Struct で表現します。
type ReportServiceServer interface {
	CreateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListReports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func methodHandler[S any](service, method string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	fullMethod := "/" + service + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ReportServiceDesc は report.v1.ReportService のサービス定義です。
var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ReportServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodCreateReport, Handler: methodHandler(ReportServiceName, methodCreateReport, ReportServiceServer.CreateReport)},
		{MethodName: methodUpdateReport, Handler: methodHandler(ReportServiceName, methodUpdateReport, ReportServiceServer.UpdateReport)},
		{MethodName: methodDeleteReport, Handler: methodHandler(ReportServiceName, methodDeleteReport, ReportServiceServer.DeleteReport)},
		{MethodName: methodGetReport, Handler: methodHandler(ReportServiceName, methodGetReport, ReportServiceServer.GetReport)},
		{MethodName: methodListReports, Handler: methodHandler(ReportServiceName, methodListReports, ReportServiceServer.ListReports)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "report/v1/report.proto",
}

// RegisterReportServiceServer は日報サービスをサーバーへ登録します。
func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

// ReportServiceClient は report.v1.ReportService のクライアントです。
type ReportServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReportServiceClient は ReportServiceClient を生成します。
func NewReportServiceClient(cc grpc.ClientConnInterface) *ReportServiceClient {
	return &ReportServiceClient{cc: cc}
}

// CreateReport は CreateReport を呼び出します。
func (c *ReportServiceClient) CreateReport(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodCreateReport, req, opts...)
}

// UpdateReport は UpdateReport を呼び出します。
func (c *ReportServiceClient) UpdateReport(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodUpdateReport, req, opts...)
}

// DeleteReport は DeleteReport を呼び出します。
func (c *ReportServiceClient) DeleteReport(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodDeleteReport, req, opts...)
}

// GetReport は GetReport を呼び出します。
func (c *ReportServiceClient) GetReport(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetReport, req, opts...)
}

// ListReports は ListReports を呼び出します。
func (c *ReportServiceClient) ListReports(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodListReports, req, opts...)
}

func (c *ReportServiceClient) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, ReportServiceName, method, req, opts...)
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface, service, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// EmployeeServiceName は社員サービスの完全修飾名です。
const EmployeeServiceName = "report.v1.EmployeeService"

const (
	methodRegisterEmployee = "RegisterEmployee"
	methodListEmployees    = "ListEmployees"
)

// EmployeeServiceServer は report.v1.EmployeeService のサーバー側インターフェースです。
type EmployeeServiceServer interface {
	RegisterEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// EmployeeServiceDesc は report.v1.EmployeeService のサービス定義です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodRegisterEmployee, Handler: methodHandler(EmployeeServiceName, methodRegisterEmployee, EmployeeServiceServer.RegisterEmployee)},
		{MethodName: methodListEmployees, Handler: methodHandler(EmployeeServiceName, methodListEmployees, EmployeeServiceServer.ListEmployees)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "report/v1/employee.proto",
}

// RegisterEmployeeServiceServer は社員サービスをサーバーへ登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

// EmployeeServiceClient は report.v1.EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

// RegisterEmployee は RegisterEmployee を呼び出します。
func (c *EmployeeServiceClient) RegisterEmployee(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeServiceName, methodRegisterEmployee, req, opts...)
}

// ListEmployees は ListEmployees を呼び出します。
func (c *EmployeeServiceClient) ListEmployees(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeServiceName, methodListEmployees, req, opts...)
}
