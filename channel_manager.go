package greptime

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/mostynb/go-grpc-compression/zstd"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
)

// MaxMessageSize caps a single wire message in either direction. Bulk
// inserts can be large, so the ceiling is generous.
const MaxMessageSize = 512 * 1024 * 1024

// Compression selects the codec applied to outgoing messages. Incoming
// messages are decoded with whichever registered codec the server picked,
// independent of this setting.
type Compression int

const (
	CompressionGzip Compression = iota
	CompressionZstd
	CompressionNone
)

func (c Compression) encoding() string {
	switch c {
	case CompressionGzip:
		return gzip.Name
	case CompressionZstd:
		return zstd.Name
	default:
		return ""
	}
}

// TLSOption carries file paths for a TLS-secured channel. The zero value of
// each field means "not used": no CA override, no client certificate.
type TLSOption struct {
	ServerCAPath   string `yaml:"server_ca_path"`
	ClientCertPath string `yaml:"client_cert_path"`
	ClientKeyPath  string `yaml:"client_key_path"`
	ServerName     string `yaml:"server_name"`
}

// ChannelConfig is fixed at manager construction and applies to every
// channel the manager creates.
type ChannelConfig struct {
	Compression    Compression
	MaxRecvMsgSize int // 0 means MaxMessageSize
	MaxSendMsgSize int // 0 means MaxMessageSize

	// TLS secures the channel when set; nil means plaintext.
	TLS *TLSOption
}

type channel struct {
	once sync.Once
	conn *grpc.ClientConn
	err  *Error
}

// ChannelManager hands out one reusable *grpc.ClientConn per endpoint
// address. Channels are created lazily on first use and cached for the
// lifetime of the manager; concurrent first use creates exactly one.
type ChannelManager struct {
	cfg      ChannelConfig
	creds    credentials.TransportCredentials
	channels *xsync.MapOf[string, *channel]

	// dial is swapped out in tests.
	dial func(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error)
}

// NewChannelManager validates the TLS configuration once up front; channels
// themselves are not dialed until Get.
func NewChannelManager(cfg ChannelConfig) (*ChannelManager, error) {
	creds, err := buildCredentials(cfg.TLS)
	if err != nil {
		return nil, err
	}
	return &ChannelManager{
		cfg:      cfg,
		creds:    creds,
		channels: xsync.NewMapOf[string, *channel](),
		dial:     grpc.NewClient,
	}, nil
}

func buildCredentials(opt *TLSOption) (credentials.TransportCredentials, *Error) {
	if opt == nil {
		return insecure.NewCredentials(), nil
	}
	tlsCfg := &tls.Config{
		ServerName: opt.ServerName,
		MinVersion: tls.VersionTLS12,
	}
	if opt.ServerCAPath != "" {
		pem, err := os.ReadFile(opt.ServerCAPath)
		if err != nil {
			return nil, wrapError(KindConfiguration, "read server CA certificate", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errorf(KindConfiguration, "no certificate found in %s", opt.ServerCAPath)
		}
		tlsCfg.RootCAs = pool
	}
	if opt.ClientCertPath != "" || opt.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(opt.ClientCertPath, opt.ClientKeyPath)
		if err != nil {
			return nil, wrapError(KindConfiguration, "load client key pair", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return credentials.NewTLS(tlsCfg), nil
}

// Get returns the cached channel for addr, creating it on first use. A
// failed creation is not cached, so a later call may retry the endpoint.
func (m *ChannelManager) Get(addr string) (*grpc.ClientConn, error) {
	entry, _ := m.channels.LoadOrCompute(addr, func() *channel { return &channel{} })
	entry.once.Do(func() {
		conn, err := m.dial(addr, m.dialOptions()...)
		if err != nil {
			entry.err = wrapError(KindConnection, fmt.Sprintf("create channel to %s", addr), err)
			m.channels.Delete(addr)
			return
		}
		logrus.Debugf("created channel to %s", addr)
		entry.conn = conn
	})
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.conn, nil
}

func (m *ChannelManager) dialOptions() []grpc.DialOption {
	recv, send := m.cfg.MaxRecvMsgSize, m.cfg.MaxSendMsgSize
	if recv == 0 {
		recv = MaxMessageSize
	}
	if send == 0 {
		send = MaxMessageSize
	}
	callOpts := []grpc.CallOption{
		grpc.MaxCallRecvMsgSize(recv),
		grpc.MaxCallSendMsgSize(send),
	}
	if name := m.cfg.Compression.encoding(); name != "" {
		callOpts = append(callOpts, grpc.UseCompressor(name))
	}
	return []grpc.DialOption{
		grpc.WithTransportCredentials(m.creds),
		grpc.WithDefaultCallOptions(callOpts...),
	}
}

// Close tears down every cached channel. Only meant for process shutdown;
// Get must not race with it.
func (m *ChannelManager) Close() {
	m.channels.Range(func(addr string, entry *channel) bool {
		if entry.conn != nil {
			if err := entry.conn.Close(); err != nil {
				logrus.Warnf("closing channel to %s: %v", addr, err)
			}
		}
		m.channels.Delete(addr)
		return true
	})
}
