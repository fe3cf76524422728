package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "splitflow.v1.SplitBillService"

// Full method names, as seen by interceptors
const (
	MethodCalculateSplit   = "/" + ServiceName + "/CalculateSplit"
	MethodValidateSplit    = "/" + ServiceName + "/ValidateSplit"
	MethodCreateSplitBill  = "/" + ServiceName + "/CreateSplitBill"
	MethodGetSplitBill     = "/" + ServiceName + "/GetSplitBill"
	MethodListSplitBills   = "/" + ServiceName + "/ListSplitBills"
	MethodGetGroupBalances = "/" + ServiceName + "/GetGroupBalances"
	MethodListCategories   = "/" + ServiceName + "/ListCategories"
)

// SplitBillServiceServer is the server API for the split bill service.
// Requests and responses are google.protobuf.Struct documents; see codec.go
// for the field names each method reads and writes.
type SplitBillServiceServer interface {
	CalculateSplit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateSplit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateSplitBill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSplitBill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSplitBills(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGroupBalances(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(SplitBillServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// SplitBillServiceDesc describes the service for grpc.Server.RegisterService
var SplitBillServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SplitBillServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CalculateSplit", Handler: unaryHandler(MethodCalculateSplit, SplitBillServiceServer.CalculateSplit)},
		{MethodName: "ValidateSplit", Handler: unaryHandler(MethodValidateSplit, SplitBillServiceServer.ValidateSplit)},
		{MethodName: "CreateSplitBill", Handler: unaryHandler(MethodCreateSplitBill, SplitBillServiceServer.CreateSplitBill)},
		{MethodName: "GetSplitBill", Handler: unaryHandler(MethodGetSplitBill, SplitBillServiceServer.GetSplitBill)},
		{MethodName: "ListSplitBills", Handler: unaryHandler(MethodListSplitBills, SplitBillServiceServer.ListSplitBills)},
		{MethodName: "GetGroupBalances", Handler: unaryHandler(MethodGetGroupBalances, SplitBillServiceServer.GetGroupBalances)},
		{MethodName: "ListCategories", Handler: unaryHandler(MethodListCategories, SplitBillServiceServer.ListCategories)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "splitflow/v1/splitflow.proto",
}

// RegisterSplitBillServiceServer registers srv on s
func RegisterSplitBillServiceServer(s grpc.ServiceRegistrar, srv SplitBillServiceServer) {
	s.RegisterService(&SplitBillServiceDesc, srv)
}

func unaryHandler(fullMethod string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SplitBillServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SplitBillServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a thin client for the split bill service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CalculateSplit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCalculateSplit, in, opts...)
}

func (c *Client) ValidateSplit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodValidateSplit, in, opts...)
}

func (c *Client) CreateSplitBill(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCreateSplitBill, in, opts...)
}

func (c *Client) GetSplitBill(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetSplitBill, in, opts...)
}

func (c *Client) ListSplitBills(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListSplitBills, in, opts...)
}

func (c *Client) GetGroupBalances(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetGroupBalances, in, opts...)
}

func (c *Client) ListCategories(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListCategories, in, opts...)
}
