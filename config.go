package greptime

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the caller-facing configuration surface, loadable from a yaml
// file.
type Config struct {
	Peers            []string   `yaml:"peers"`
	Database         string     `yaml:"database"`
	Compression      string     `yaml:"compression"` // "gzip", "zstd" or "none"
	StreamBufferSize int        `yaml:"stream_buffer_size"`
	Auth             AuthConfig `yaml:"auth"`
	TLS              *TLSOption `yaml:"tls"`
}

// AuthConfig carries an optional credential. Token wins when both a token
// and a username are set.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
}

// LoadConfig reads a yaml config file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(KindConfiguration, fmt.Sprintf("read config file %s", path), err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, wrapError(KindConfiguration, "parse config file", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database == "" {
		cfg.Database = DefaultSchemaName
	}
	if cfg.Compression == "" {
		cfg.Compression = "gzip"
	}
	if cfg.StreamBufferSize == 0 {
		cfg.StreamBufferSize = DefaultStreamBufferSize
	}
}

func (cfg *Config) compression() (Compression, error) {
	switch cfg.Compression {
	case "", "gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	case "none":
		return CompressionNone, nil
	default:
		return CompressionNone, errorf(KindConfiguration, "unknown compression codec %q", cfg.Compression)
	}
}

// Connect builds a Database, its Client and channel manager from cfg.
func Connect(cfg *Config) (*Database, error) {
	if len(cfg.Peers) == 0 {
		return nil, newError(KindConfiguration, "config names no peers")
	}
	comp, err := cfg.compression()
	if err != nil {
		return nil, err
	}
	mgr, err := NewChannelManager(ChannelConfig{
		Compression: comp,
		TLS:         cfg.TLS,
	})
	if err != nil {
		return nil, err
	}
	db := NewDatabase(cfg.Database, NewClient(mgr, cfg.Peers))
	db.SetStreamBufferSize(cfg.StreamBufferSize)
	switch {
	case cfg.Auth.Token != "":
		db.SetTokenAuth(cfg.Auth.Token)
	case cfg.Auth.Username != "":
		db.SetBasicAuth(cfg.Auth.Username, cfg.Auth.Password)
	}
	return db, nil
}
