// Package frontend defines the stormsql.v1.Frontend gRPC contract. Requests
// and responses are google.protobuf.Struct messages; the field names are
// listed with each method.
package frontend

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "stormsql.v1.Frontend"

// Method names
const (
	// Lex: {source, include_comments} -> {ok, tokens, lex_errors}
	MethodLex = "Lex"
	// Parse: {source} -> {ok, statements, lex_errors, parse_error}
	MethodParse = "Parse"
	// Format: {source} -> {formatted}
	MethodFormat = "Format"
	// Check: {source} -> analysis
	MethodCheck = "Check"
	// History: {origin, operation, status, contains, limit} -> {entries}
	MethodHistory = "History"
)

// FullMethod returns "/stormsql.v1.Frontend/<method>"
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// FrontendServer is the server API for the Frontend service
type FrontendServer interface {
	Lex(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Format(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Check(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(FrontendServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FrontendServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			h := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(FrontendServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, h)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for the Frontend service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrontendServer)(nil),
	Methods: []grpc.MethodDesc{
		handler(MethodLex, FrontendServer.Lex),
		handler(MethodParse, FrontendServer.Parse),
		handler(MethodFormat, FrontendServer.Format),
		handler(MethodCheck, FrontendServer.Check),
		handler(MethodHistory, FrontendServer.History),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterFrontendServer registers srv with the gRPC server
func RegisterFrontendServer(s grpc.ServiceRegistrar, srv FrontendServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FrontendClient is the client API for the Frontend service
type FrontendClient interface {
	Lex(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Parse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Format(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Check(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	History(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type frontendClient struct {
	cc grpc.ClientConnInterface
}

// NewFrontendClient creates a client on an existing connection
func NewFrontendClient(cc grpc.ClientConnInterface) FrontendClient {
	return &frontendClient{cc: cc}
}

func (c *frontendClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *frontendClient) Lex(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLex, in, opts)
}

func (c *frontendClient) Parse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodParse, in, opts)
}

func (c *frontendClient) Format(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodFormat, in, opts)
}

func (c *frontendClient) Check(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCheck, in, opts)
}

func (c *frontendClient) History(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodHistory, in, opts)
}
