package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/promise"
)

// Channel is a named method channel; *usecase.Channel satisfies it.
type Channel interface {
	Name() string
	Dispatch(ctx context.Context, method string, args any) *promise.Promise[domain.Outcome]
}

// ServiceName is the gRPC service a channel is exposed as.
func ServiceName(channel string) string { return "nativebridge.v1." + channel }

// InvokeMethod is the full method name used by clients.
func InvokeMethod(channel string) string { return "/" + ServiceName(channel) + "/Invoke" }

// RegisterChannels exposes each channel as its own service with a unary
// Invoke(google.protobuf.Struct) returns (google.protobuf.Value), plus
// reflection.
func RegisterChannels(s *grpc.Server, channels ...Channel) {
	for _, ch := range channels {
		s.RegisterService(serviceDesc(ch.Name()), &channelServer{ch: ch})
	}
	reflection.Register(s)
}

type channelService interface {
	Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Value, error)
}

func serviceDesc(channel string) *grpc.ServiceDesc {
	fullMethod := InvokeMethod(channel)
	return &grpc.ServiceDesc{
		ServiceName: ServiceName(channel),
		HandlerType: (*channelService)(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: "Invoke",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(structpb.Struct)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(channelService).Invoke(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(channelService).Invoke(ctx, req.(*structpb.Struct))
				}
				return interceptor(ctx, in, info, handler)
			},
		}},
		Streams:  []grpc.StreamDesc{},
		Metadata: "nativebridge/v1/channel.proto",
	}
}

type channelServer struct {
	ch Channel
}

// Invoke reads {"method": string, "arguments": any} and waits for the
// outcome. A caller that goes away stops waiting; the call itself runs on.
func (s *channelServer) Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Value, error) {
	fields := req.GetFields()
	method := fields["method"].GetStringValue()

	var args any
	if v, ok := fields["arguments"]; ok {
		args = v.AsInterface()
	}

	out, err := s.ch.Dispatch(ctx, method, args).Await(ctx)
	if err != nil {
		return nil, contextStatus(err)
	}
	return reply(s.ch.Name(), method, out)
}
