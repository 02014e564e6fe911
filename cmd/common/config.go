package common

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/hannahdaviscrypto/mastic/protocol"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of a verification server.
//
//	http_addr: ":8081"
//	metrics_addr: ":9091"
//	log_level: "info"
//	log_json: false
//	enable_pprof: false
//	drain_duration: "5s"
//	prio:
//	  dimension: 8
//	  role: "first"     # first or other
//	  workers: 4
//	keys:
//	  signing_key: ""   # Hex-encoded Ed25519, generates if empty
//	  exchange_key: ""  # Hex-encoded P-256, generates if empty
//	  kem_key: ""       # Hex-encoded X25519, enables shared challenges
//	peer:
//	  public_key: ""    # Hex-encoded Ed25519 key of the other server
//	  kem_public_key: ""
type Config struct {
	HTTPAddr      string              `yaml:"http_addr"`
	MetricsAddr   string              `yaml:"metrics_addr"`
	LogLevel      string              `yaml:"log_level"`
	LogJSON       bool                `yaml:"log_json"`
	EnablePprof   bool                `yaml:"enable_pprof"`
	DrainDuration time.Duration       `yaml:"drain_duration"`
	Prio          protocol.PrioConfig `yaml:"prio"`
	Keys          KeysConfig          `yaml:"keys"`
	Peer          PeerConfig          `yaml:"peer"`
}

// KeysConfig holds this server's key material.
type KeysConfig struct {
	SigningKey  string `yaml:"signing_key"`
	ExchangeKey string `yaml:"exchange_key"`
	KemKey      string `yaml:"kem_key"`
}

// PeerConfig identifies the other verification server.
type PeerConfig struct {
	PublicKey    string `yaml:"public_key"`
	KemPublicKey string `yaml:"kem_public_key"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:      ":8081",
		LogLevel:      "info",
		DrainDuration: 5 * time.Second,
		Prio: protocol.PrioConfig{
			Workers: 1,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks fields that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.Prio.Validate(); err != nil {
		return err
	}
	if c.Peer.PublicKey == "" {
		return fmt.Errorf("peer.public_key is required")
	}
	if _, err := crypto.NewPublicKeyFromString(c.Peer.PublicKey); err != nil {
		return fmt.Errorf("peer.public_key: %w", err)
	}
	if (c.Keys.KemKey == "") != (c.Peer.KemPublicKey == "") {
		return fmt.Errorf("keys.kem_key and peer.kem_public_key must be set together")
	}
	return nil
}

// Logger builds the slog logger described by the configuration.
func (c *Config) Logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}
