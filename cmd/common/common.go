// Package common provides shared utilities for the verification server
// command: key loading and generation and the YAML configuration file.
package common

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

// LoadOrGenerateSigningKey loads an Ed25519 private key from a hex string,
// or generates a new key pair if hexKey is empty.
func LoadOrGenerateSigningKey(hexKey string) (crypto.PrivateKey, error) {
	if hexKey != "" {
		keyBytes, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
		key := crypto.NewPrivateKeyFromBytes(keyBytes)
		if _, err := key.PublicKey(); err != nil {
			return nil, err
		}
		return key, nil
	}
	_, privKey, err := crypto.GenerateKeyPair()
	return privKey, err
}

// LoadOrGenerateExchangeKey loads an ECDH P-256 private key from a hex string,
// or generates a new key if hexKey is empty. Clients encrypt shares to it.
func LoadOrGenerateExchangeKey(hexKey string) (*ecdh.PrivateKey, error) {
	if hexKey != "" {
		keyBytes, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
		return ecdh.P256().NewPrivateKey(keyBytes)
	}
	return ecdh.P256().GenerateKey(rand.Reader)
}

// DeriveChallengeSecret combines this server's X25519 key with the peer's
// public key. Both servers obtain the same secret.
func DeriveChallengeSecret(kemKeyHex, peerKemPubHex string) (crypto.SharedKey, error) {
	var priv crypto.KemPrivateKey
	var pub crypto.KemPublicKey

	if err := decodeFixedHex(priv[:], kemKeyHex); err != nil {
		return nil, fmt.Errorf("kem key: %w", err)
	}
	if err := decodeFixedHex(pub[:], peerKemPubHex); err != nil {
		return nil, fmt.Errorf("peer kem public key: %w", err)
	}

	return crypto.DeriveSharedSecret(priv, pub, []byte("prio-challenge-secret"))
}

func decodeFixedHex(dst []byte, s string) error {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("got %d bytes, want %d", len(raw), len(dst))
	}
	copy(dst, raw)
	return nil
}
