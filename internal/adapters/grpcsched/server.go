package grpcsched

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-aoe/internal/schedule"
)

// SchedulingServer is the server-side contract registered with grpc
type SchedulingServer interface {
	Solve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Solve", Handler: solveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scheduling/v1/scheduling.proto",
}

func solveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := &structpb.Struct{}
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SchedulingServer).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SchedulingServer).Solve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server serves a schedule.Service over gRPC
type Server struct {
	svc    schedule.Service
	logger *slog.Logger
}

// NewServer wraps svc. A nil logger discards output.
func NewServer(svc schedule.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{svc: svc, logger: logger}
}

// Register adds the scheduling service to gs
func Register(gs *grpc.Server, s *Server) {
	gs.RegisterService(&serviceDesc, s)
}

// Solve decodes the request, runs the wrapped service and encodes its result
func (s *Server) Solve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, p, err := decodeRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Info("solve request",
		"intervals", len(m.Intervals),
		"horizon", m.Horizon,
		"timeout", p.Timeout,
	)

	res, err := s.svc.Solve(ctx, m, p)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		}
		s.logger.Error("solve failed", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}

	out, err := encodeResult(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.logger.Info("solve finished", "status", res.Status, "makespan", res.Makespan)
	return out, nil
}
