package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Fully-qualified names of the PortfolioService RPCs
const (
	PortfolioServiceName          = "assetbalance.v1.PortfolioService"
	PortfolioService_ViewAssets   = "/assetbalance.v1.PortfolioService/ViewAssets"
	PortfolioService_UploadLedger = "/assetbalance.v1.PortfolioService/UploadLedger"
)

// PortfolioServiceServer is the server API for the PortfolioService.
// Messages are protobuf well-known types, so no generated code is needed.
type PortfolioServiceServer interface {
	// ViewAssets returns the rebalancing plan as a list of structs, totals row last
	ViewAssets(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// UploadLedger replaces the ledger with the raw export bytes
	UploadLedger(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&portfolioServiceDesc, srv)
}

var portfolioServiceDesc = grpc.ServiceDesc{
	ServiceName: PortfolioServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ViewAssets", Handler: viewAssetsHandler},
		{MethodName: "UploadLedger", Handler: uploadLedgerHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func viewAssetsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).ViewAssets(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PortfolioService_ViewAssets}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).ViewAssets(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func uploadLedgerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).UploadLedger(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PortfolioService_UploadLedger}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).UploadLedger(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// PortfolioServiceClient is the client API for the PortfolioService
type PortfolioServiceClient interface {
	ViewAssets(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	UploadLedger(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type portfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient creates a client bound to cc
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) PortfolioServiceClient {
	return &portfolioServiceClient{cc: cc}
}

func (c *portfolioServiceClient) ViewAssets(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, PortfolioService_ViewAssets, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *portfolioServiceClient) UploadLedger(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PortfolioService_UploadLedger, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
