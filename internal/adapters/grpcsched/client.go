package grpcsched

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-aoe/internal/schedule"
)

// Client implements schedule.Service against a remote scheduling service
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for the service at address. The connection is
// established lazily on the first call.
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduling client for %s: %w", address, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Solve implements schedule.Service. A deadline hit on the wire is the same
// negative outcome as a local timeout without an incumbent.
func (c *Client) Solve(ctx context.Context, m *schedule.Model, p schedule.Params) (*schedule.Result, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := encodeRequest(m, p)
	if err != nil {
		return nil, err
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, SolveMethod, req, resp); err != nil {
		if status.Code(err) == codes.DeadlineExceeded {
			return &schedule.Result{Status: schedule.StatusTimedOutNoSolution}, nil
		}
		return nil, fmt.Errorf("gRPC Solve failed: %w", err)
	}
	return decodeResult(resp)
}
