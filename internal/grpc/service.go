package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the catalog service.
const ServiceName = "mediafinder.v1.CatalogService"

const (
	searchMethod     = "/" + ServiceName + "/Search"
	listImagesMethod = "/" + ServiceName + "/ListImages"
)

// CatalogServer is the server API of the catalog service. Messages are
// protobuf Structs so any gRPC client can call it without generated stubs.
type CatalogServer interface {
	// Search takes {kind, name, year?} and returns {results: [...]}.
	Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// ListImages takes {kind, id, all_posters?} and returns the posters allowed
	// by the policy and the language-tagged backdrops.
	ListImages(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCatalogServer registers srv on s.
func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: searchHandler},
		{MethodName: "ListImages", Handler: listImagesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mediafinder/v1/catalog.proto",
}

func searchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).Search(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: searchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).Search(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listImagesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListImages(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listImagesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).ListImages(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls the catalog service over conn.
type CatalogClient struct {
	conn grpc.ClientConnInterface
}

// NewCatalogClient creates a client on conn.
func NewCatalogClient(conn grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{conn: conn}
}

// Search calls CatalogService.Search.
func (c *CatalogClient) Search(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, searchMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListImages calls CatalogService.ListImages.
func (c *CatalogClient) ListImages(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, listImagesMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
