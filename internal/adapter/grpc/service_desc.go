package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "assets.v1.AssetService"

// AssetServiceServer is the server API for the AssetService service
// Requests and responses are google.protobuf.Struct documents.
type AssetServiceServer interface {
	ListAssets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AssetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AssetServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AssetServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AssetService_ServiceDesc is the grpc.ServiceDesc for the AssetService service
var AssetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ListAssets", AssetServiceServer.ListAssets),
		unaryMethod("AddAsset", AssetServiceServer.AddAsset),
		unaryMethod("UpdateAsset", AssetServiceServer.UpdateAsset),
		unaryMethod("RemoveAsset", AssetServiceServer.RemoveAsset),
		unaryMethod("GetQuote", AssetServiceServer.GetQuote),
		unaryMethod("GetSnapshot", AssetServiceServer.GetSnapshot),
		unaryMethod("Refresh", AssetServiceServer.Refresh),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "assets/v1/assets.proto",
}

// RegisterAssetServiceServer registers srv on s
func RegisterAssetServiceServer(s grpc.ServiceRegistrar, srv AssetServiceServer) {
	s.RegisterService(&AssetService_ServiceDesc, srv)
}

// AssetServiceClient is the client API for the AssetService service
type AssetServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAssetServiceClient(cc grpc.ClientConnInterface) *AssetServiceClient {
	return &AssetServiceClient{cc: cc}
}

// Call invokes one method by name
func (c *AssetServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
