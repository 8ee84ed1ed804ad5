package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "docmind.v1.ExtractionService"

// Full method names.
const (
	MethodExtract           = "/" + ServiceName + "/Extract"
	MethodExtractFile       = "/" + ServiceName + "/ExtractFile"
	MethodRenderSpreadsheet = "/" + ServiceName + "/RenderSpreadsheet"
	MethodRenderSummary     = "/" + ServiceName + "/RenderSummary"
)

// ExtractionServiceServer is the server API. Messages are well-known protobuf
// types so no generated code is needed.
type ExtractionServiceServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExtractFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenderSpreadsheet(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	RenderSummary(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExtractionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: structHandler(MethodExtract, ExtractionServiceServer.Extract)},
		{MethodName: "ExtractFile", Handler: structHandler(MethodExtractFile, ExtractionServiceServer.ExtractFile)},
		{MethodName: "RenderSpreadsheet", Handler: structHandler(MethodRenderSpreadsheet, ExtractionServiceServer.RenderSpreadsheet)},
		{MethodName: "RenderSummary", Handler: structHandler(MethodRenderSummary, ExtractionServiceServer.RenderSummary)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "docmind/v1/extraction.proto",
}

// structHandler adapts a unary method taking a Struct to grpc's handler shape.
func structHandler[Resp any](fullMethod string, call func(ExtractionServiceServer, context.Context, *structpb.Struct) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExtractionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExtractionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a thin typed wrapper over a grpc connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodExtract, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExtractFile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodExtractFile, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RenderSpreadsheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, MethodRenderSpreadsheet, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RenderSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, MethodRenderSummary, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
