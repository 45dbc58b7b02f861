package greptime

import (
	"context"
	"sync"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"google.golang.org/grpc"
)

// Client owns the peer list and the channel manager shared by every
// Database bound to it. All methods are safe for concurrent use.
type Client struct {
	mgr *ChannelManager

	mu    sync.RWMutex
	lb    LoadBalancer
	peers []string
}

// NewClient builds a client over an established channel manager and an
// initial peer list. The default selection policy is uniform random.
func NewClient(mgr *ChannelManager, peers []string) *Client {
	return &Client{
		mgr:   mgr,
		lb:    NewRandom(),
		peers: append([]string(nil), peers...),
	}
}

// SetLoadBalancer replaces the peer selection policy.
func (c *Client) SetLoadBalancer(lb LoadBalancer) {
	c.mu.Lock()
	c.lb = lb
	c.mu.Unlock()
}

// SetPeers replaces the whole peer list. An empty list is legal and means no
// peer is available until the next replacement. The swap is atomic: readers
// observe either the old list or the new one, never a mix.
func (c *Client) SetPeers(peers []string) {
	dup := append([]string(nil), peers...)
	c.mu.Lock()
	c.peers = dup
	c.mu.Unlock()
}

func (c *Client) getPeer() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lb.GetPeer(c.peers)
}

func (c *Client) findChannel() (*grpc.ClientConn, error) {
	addr, ok := c.getPeer()
	if !ok {
		return nil, newError(KindNoEndpoint, "no available peer found")
	}
	return c.mgr.Get(addr)
}

// databaseClient binds a database service stub to a freshly selected peer.
func (c *Client) databaseClient() (gpb.GreptimeDatabaseClient, error) {
	conn, err := c.findChannel()
	if err != nil {
		return nil, err
	}
	return gpb.NewGreptimeDatabaseClient(conn), nil
}

// HealthCheck probes one selected peer.
func (c *Client) HealthCheck(ctx context.Context) error {
	conn, err := c.findChannel()
	if err != nil {
		return err
	}
	if _, err := gpb.NewHealthCheckClient(conn).HealthCheck(ctx, &gpb.HealthCheckRequest{}); err != nil {
		return fromRPCError(err, nil)
	}
	return nil
}
