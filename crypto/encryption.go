package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// P-256 uncompressed public key length
	ephemeralPubKeyLen = 65
	nonceLen           = 12
	gcmTagLen          = 16

	eciesInfo = "prio-share-ecies-v1"
)

// ErrCiphertext is returned when encrypted bytes cannot be parsed.
var ErrCiphertext = errors.New("malformed ciphertext")

// EncryptedMessage contains ECIES-encrypted data.
// Format: ephemeral pubkey (65 bytes) || nonce (12 bytes) || ciphertext+tag
type EncryptedMessage struct {
	EphemeralPubKey []byte // P-256 uncompressed public key
	Nonce           []byte // AES-GCM nonce
	Ciphertext      []byte // Encrypted data with auth tag
}

// Encrypt encrypts plaintext to a recipient's ECDH public key using ECIES.
// Uses ephemeral ECDH key agreement, HKDF-SHA256 and AES-256-GCM.
func Encrypt(recipientPubKey *ecdh.PublicKey, plaintext []byte) (*EncryptedMessage, error) {
	ephemeralPriv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}

	sharedSecret, err := ephemeralPriv.ECDH(recipientPubKey)
	if err != nil {
		return nil, fmt.Errorf("ECDH: %w", err)
	}

	ephemeralPub := ephemeralPriv.PublicKey().Bytes()
	gcm, err := newShareGCM(sharedSecret, ephemeralPub)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// Additional data binds the ciphertext to the ephemeral key
	ciphertext := gcm.Seal(nil, nonce, plaintext, ephemeralPub)

	return &EncryptedMessage{
		EphemeralPubKey: ephemeralPub,
		Nonce:           nonce,
		Ciphertext:      ciphertext,
	}, nil
}

// Decrypt decrypts an ECIES-encrypted message using the recipient's private key.
func Decrypt(recipientPrivKey *ecdh.PrivateKey, msg *EncryptedMessage) ([]byte, error) {
	ephemeralPub, err := ecdh.P256().NewPublicKey(msg.EphemeralPubKey)
	if err != nil {
		return nil, fmt.Errorf("parse ephemeral key: %w", err)
	}

	sharedSecret, err := recipientPrivKey.ECDH(ephemeralPub)
	if err != nil {
		return nil, fmt.Errorf("ECDH: %w", err)
	}

	gcm, err := newShareGCM(sharedSecret, msg.EphemeralPubKey)
	if err != nil {
		return nil, err
	}

	if len(msg.Nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: invalid nonce size", ErrCiphertext)
	}

	plaintext, err := gcm.Open(nil, msg.Nonce, msg.Ciphertext, msg.EphemeralPubKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	return plaintext, nil
}

// Bytes serializes an encrypted message.
func (m *EncryptedMessage) Bytes() []byte {
	result := make([]byte, 0, len(m.EphemeralPubKey)+len(m.Nonce)+len(m.Ciphertext))
	result = append(result, m.EphemeralPubKey...)
	result = append(result, m.Nonce...)
	result = append(result, m.Ciphertext...)
	return result
}

// ParseEncryptedMessage deserializes an encrypted message.
func ParseEncryptedMessage(data []byte) (*EncryptedMessage, error) {
	if len(data) < ephemeralPubKeyLen+nonceLen+gcmTagLen {
		return nil, fmt.Errorf("%w: encrypted message too short", ErrCiphertext)
	}

	return &EncryptedMessage{
		EphemeralPubKey: data[:ephemeralPubKeyLen],
		Nonce:           data[ephemeralPubKeyLen : ephemeralPubKeyLen+nonceLen],
		Ciphertext:      data[ephemeralPubKeyLen+nonceLen:],
	}, nil
}

// EncryptShare encrypts a serialized share (or a share seed) for a server.
func EncryptShare(serverPubKey *ecdh.PublicKey, share []byte) ([]byte, error) {
	msg, err := Encrypt(serverPubKey, share)
	if err != nil {
		return nil, err
	}
	return msg.Bytes(), nil
}

// DecryptShare parses and decrypts the output of EncryptShare.
func DecryptShare(serverPrivKey *ecdh.PrivateKey, encrypted []byte) ([]byte, error) {
	msg, err := ParseEncryptedMessage(encrypted)
	if err != nil {
		return nil, err
	}
	return Decrypt(serverPrivKey, msg)
}

func newShareGCM(sharedSecret []byte, ephemeralPub []byte) (cipher.AEAD, error) {
	aesKey := make([]byte, 32)
	kdf := hkdf.New(sha256.New, sharedSecret, ephemeralPub, []byte(eciesInfo))
	if _, err := io.ReadFull(kdf, aesKey); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}
