package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// KemPublicKey is an X25519 public key used by two servers to agree on a
// challenge secret.
type KemPublicKey [32]byte

// KemPrivateKey is the matching X25519 private key.
type KemPrivateKey [32]byte

// GenerateKemKeyPair generates a new X25519 key pair.
func GenerateKemKeyPair() (KemPublicKey, KemPrivateKey, error) {
	var privKey KemPrivateKey
	var pubKey KemPublicKey

	if _, err := rand.Read(privKey[:]); err != nil {
		return pubKey, privKey, err
	}

	pub, err := curve25519.X25519(privKey[:], curve25519.Basepoint)
	if err != nil {
		return pubKey, privKey, err
	}
	copy(pubKey[:], pub)
	return pubKey, privKey, nil
}

// DeriveSharedSecret performs X25519 key agreement and derives a 32-byte
// secret with HKDF-SHA256. Both sides obtain the same secret for the same info.
func DeriveSharedSecret(privateKey KemPrivateKey, publicKey KemPublicKey, info []byte) (SharedKey, error) {
	sharedPoint, err := curve25519.X25519(privateKey[:], publicKey[:])
	if err != nil {
		return nil, fmt.Errorf("X25519: %w", err)
	}

	kdf := hkdf.New(sha256.New, sharedPoint, nil, info)
	secret := make([]byte, SeedSize)
	if _, err := io.ReadFull(kdf, secret); err != nil {
		return nil, err
	}

	return SharedKey(secret), nil
}
