// Command server runs one of the two verification servers.
//
// The server decrypts client shares, produces signed verification messages
// for them and accumulates the shares whose proofs both servers accept. It
// never contacts its peer; a coordinator relays verification messages.
//
// # Configuration
//
// Settings come from an optional YAML file (see common.Config) with flags
// taking precedence:
//
//	go run ./cmd/server --config=first.yaml
//	go run ./cmd/server --role=other --dimension=8 --peer-key=<hex> --addr=:8082
//
// Omitted signing and exchange keys are generated and printed at startup.
// Setting keys.kem_key and peer.kem_public_key makes both servers derive the
// same challenge points from GET /challenge?round=N.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hannahdaviscrypto/mastic/api/httpserver"
	"github.com/hannahdaviscrypto/mastic/cmd/common"
	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/hannahdaviscrypto/mastic/services"
)

func main() {
	var (
		configPath     = flag.String("config", "", "Path to YAML config file")
		addr           = flag.String("addr", "", "HTTP listen address")
		metricsAddr    = flag.String("metrics-addr", "", "Metrics listen address (disabled if empty)")
		role           = flag.String("role", "", "Server role: first or other")
		dimension      = flag.Int("dimension", 0, "Number of data elements per submission")
		workers        = flag.Int("workers", 0, "Number of verification workers")
		peerKey        = flag.String("peer-key", "", "Peer Ed25519 public key (hex)")
		signingKeyHex  = flag.String("signing-key", "", "Ed25519 signing key (hex, generates if empty)")
		exchangeKeyHex = flag.String("exchange-key", "", "ECDH P-256 exchange key (hex, generates if empty)")
		enablePprof    = flag.Bool("pprof", false, "Enable pprof endpoints")
	)
	flag.Parse()

	cfg := common.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = common.LoadConfig(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *role != "" {
		cfg.Prio.Role = *role
	}
	if *dimension != 0 {
		cfg.Prio.Dimension = *dimension
	}
	if *workers != 0 {
		cfg.Prio.Workers = *workers
	}
	if *peerKey != "" {
		cfg.Peer.PublicKey = *peerKey
	}
	if *signingKeyHex != "" {
		cfg.Keys.SigningKey = *signingKeyHex
	}
	if *exchangeKeyHex != "" {
		cfg.Keys.ExchangeKey = *exchangeKeyHex
	}
	if *enablePprof {
		cfg.EnablePprof = true
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *common.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	log, err := cfg.Logger()
	if err != nil {
		return err
	}

	signingKey, err := common.LoadOrGenerateSigningKey(cfg.Keys.SigningKey)
	if err != nil {
		return fmt.Errorf("signing key: %w", err)
	}

	exchangeKey, err := common.LoadOrGenerateExchangeKey(cfg.Keys.ExchangeKey)
	if err != nil {
		return fmt.Errorf("exchange key: %w", err)
	}

	peerKey, err := crypto.NewPublicKeyFromString(cfg.Peer.PublicKey)
	if err != nil {
		return fmt.Errorf("peer key: %w", err)
	}

	var challengeSecret crypto.SharedKey
	if cfg.Keys.KemKey != "" {
		challengeSecret, err = common.DeriveChallengeSecret(cfg.Keys.KemKey, cfg.Peer.KemPublicKey)
		if err != nil {
			return fmt.Errorf("challenge secret: %w", err)
		}
	}

	pubKey, _ := signingKey.PublicKey()
	log.Info("Server keys",
		"role", cfg.Prio.Role,
		"publicKey", pubKey.String(),
		"exchangeKey", hex.EncodeToString(exchangeKey.PublicKey().Bytes()),
		"sharedChallenges", challengeSecret != nil,
	)

	verifier, err := services.NewHTTPServer(&services.ServiceConfig{
		PrioConfig:      &cfg.Prio,
		PeerPublicKey:   peerKey,
		ChallengeSecret: challengeSecret,
	}, signingKey, exchangeKey, log)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               cfg.HTTPAddr,
		MetricsAddr:              cfg.MetricsAddr,
		EnablePprof:              cfg.EnablePprof,
		Log:                      log,
		DrainDuration:            cfg.DrainDuration,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, verifier)
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down", "stats", verifier.Pool().Stats())
	srv.Shutdown()
	return nil
}
