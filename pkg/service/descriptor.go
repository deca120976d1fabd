package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mozhi.v1.TranslationService"

// ProtoFile is the path the service descriptor is registered under.
const ProtoFile = "mozhi/v1/translation.proto"

var methodNames = []string{"Translate", "Chat", "History", "Clear"}

// init registers the service's file descriptor so server reflection can
// describe it. Every method takes and returns google.protobuf.Struct.
func init() {
	const structType = ".google.protobuf.Struct"

	methods := make([]*descriptorpb.MethodDescriptorProto, 0, len(methodNames))
	for _, name := range methodNames {
		methods = append(methods, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(structType),
			OutputType: proto.String(structType),
		})
	}

	fd, err := protodesc.NewFile(&descriptorpb.FileDescriptorProto{
		Name:       proto.String(ProtoFile),
		Package:    proto.String("mozhi.v1"),
		Dependency: []string{"google/protobuf/struct.proto"},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name:   proto.String("TranslationService"),
			Method: methods,
		}},
		Syntax: proto.String("proto3"),
	}, protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s descriptor: %v", ProtoFile, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("register %s: %v", ProtoFile, err))
	}
}

// Full method names.
const (
	MethodTranslate = "/" + ServiceName + "/Translate"
	MethodChat      = "/" + ServiceName + "/Chat"
	MethodHistory   = "/" + ServiceName + "/History"
	MethodClear     = "/" + ServiceName + "/Clear"
)

// TranslationServiceServer is the server API. Requests and replies are
// google.protobuf.Struct messages; field names are documented on each method.
type TranslationServiceServer interface {
	Translate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Chat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Clear(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(TranslationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TranslationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TranslationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes TranslationService for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TranslationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Translate",
			Handler:    unaryHandler(MethodTranslate, TranslationServiceServer.Translate),
		},
		{
			MethodName: "Chat",
			Handler:    unaryHandler(MethodChat, TranslationServiceServer.Chat),
		},
		{
			MethodName: "History",
			Handler:    unaryHandler(MethodHistory, TranslationServiceServer.History),
		},
		{
			MethodName: "Clear",
			Handler:    unaryHandler(MethodClear, TranslationServiceServer.Clear),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: ProtoFile,
}

// RegisterTranslationServiceServer registers srv with s.
func RegisterTranslationServiceServer(s grpc.ServiceRegistrar, srv TranslationServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
