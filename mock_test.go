package greptime

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func affectedRowsResponse(n uint32) *gpb.GreptimeResponse {
	return &gpb.GreptimeResponse{
		Response: &gpb.GreptimeResponse_AffectedRows{
			AffectedRows: &gpb.AffectedRows{Value: n},
		},
	}
}

// mockDatabaseServer records every request it receives. Handle answers with
// unaryResp/unaryErr; HandleRequests counts one affected row per streamed
// message unless failAfter tells it to abort mid-stream.
type mockDatabaseServer struct {
	gpb.UnimplementedGreptimeDatabaseServer

	mu       sync.Mutex
	unary    []*gpb.GreptimeRequest
	streamed []*gpb.GreptimeRequest

	unaryResp    *gpb.GreptimeResponse
	unaryErr     error
	unaryTrailer metadata.MD

	failAfter int // abort the stream after this many messages; 0 means never
}

func (m *mockDatabaseServer) Handle(ctx context.Context, req *gpb.GreptimeRequest) (*gpb.GreptimeResponse, error) {
	m.mu.Lock()
	m.unary = append(m.unary, req)
	resp, err, trailer := m.unaryResp, m.unaryErr, m.unaryTrailer
	m.mu.Unlock()

	if trailer != nil {
		_ = grpc.SetTrailer(ctx, trailer)
	}
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}
	return affectedRowsResponse(1), nil
}

func (m *mockDatabaseServer) HandleRequests(stream gpb.GreptimeDatabase_HandleRequestsServer) error {
	received := 0
	for {
		req, err := stream.Recv()
		if err == io.EOF {
			return stream.SendAndClose(affectedRowsResponse(uint32(received)))
		}
		if err != nil {
			return err
		}
		received++
		m.mu.Lock()
		m.streamed = append(m.streamed, req)
		failAfter := m.failAfter
		m.mu.Unlock()
		if failAfter > 0 && received >= failAfter {
			return status.Error(codes.Internal, "stream aborted by test server")
		}
	}
}

func (m *mockDatabaseServer) streamedRequests() []*gpb.GreptimeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*gpb.GreptimeRequest(nil), m.streamed...)
}

func (m *mockDatabaseServer) unaryRequests() []*gpb.GreptimeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*gpb.GreptimeRequest(nil), m.unary...)
}

type mockHealthServer struct {
	gpb.UnimplementedHealthCheckServer
}

func (*mockHealthServer) HealthCheck(ctx context.Context, req *gpb.HealthCheckRequest) (*gpb.HealthCheckResponse, error) {
	return &gpb.HealthCheckResponse{}, nil
}

// startMockServer runs svc behind an in-process listener and returns a
// Client whose channel manager dials it, no matter which address the peer
// list names.
func startMockServer(t *testing.T, svc *mockDatabaseServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	gpb.RegisterGreptimeDatabaseServer(srv, svc)
	gpb.RegisterHealthCheckServer(srv, &mockHealthServer{})
	go func() {
		_ = srv.Serve(lis)
	}()

	mgr, err := NewChannelManager(ChannelConfig{Compression: CompressionNone})
	require.NoError(t, err)
	mgr.dial = func(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
		opts = append(opts, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
		return grpc.NewClient("passthrough:///"+target, opts...)
	}

	t.Cleanup(func() {
		mgr.Close()
		srv.Stop()
	})

	return NewClient(mgr, []string{"bufnet"})
}
