// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tagengine.v1.TagEngine"

// TagEngineServer is the API served to game clients. Requests and responses are
// google.protobuf.Struct documents with camelCase keys.
type TagEngineServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	JoinGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlaceHomeBase(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitTag(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlaceTripwire(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegisterGeofences(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReportGeofenceEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevealRadar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DismissRadar(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordLocation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreditArsenal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPipelineStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv TagEngineServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TagEngineServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(TagEngineServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var TagEngine_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TagEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateGame", TagEngineServer.CreateGame),
		unaryMethod("JoinGame", TagEngineServer.JoinGame),
		unaryMethod("GetGame", TagEngineServer.GetGame),
		unaryMethod("PlaceHomeBase", TagEngineServer.PlaceHomeBase),
		unaryMethod("SubmitTag", TagEngineServer.SubmitTag),
		unaryMethod("PlaceTripwire", TagEngineServer.PlaceTripwire),
		unaryMethod("RegisterGeofences", TagEngineServer.RegisterGeofences),
		unaryMethod("ReportGeofenceEntry", TagEngineServer.ReportGeofenceEntry),
		unaryMethod("RevealRadar", TagEngineServer.RevealRadar),
		unaryMethod("DismissRadar", TagEngineServer.DismissRadar),
		unaryMethod("RecordLocation", TagEngineServer.RecordLocation),
		unaryMethod("CreditArsenal", TagEngineServer.CreditArsenal),
		unaryMethod("GetPipelineStats", TagEngineServer.GetPipelineStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tagengine/v1/tag_engine.proto",
}

func RegisterTagEngineServer(s grpc.ServiceRegistrar, srv TagEngineServer) {
	s.RegisterService(&TagEngine_ServiceDesc, srv)
}
