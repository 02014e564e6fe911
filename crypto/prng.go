package crypto

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

// SeedSize is the length of a share seed in bytes.
const SeedSize = chacha20.KeySize

// ErrSeedLength is returned when a seed is not SeedSize bytes long.
var ErrSeedLength = errors.New("invalid seed length")

// keystreamReader exposes a ChaCha20 keystream as an io.Reader.
type keystreamReader struct {
	cipher *chacha20.Cipher
}

// NewKeystreamReader returns a deterministic reader yielding the ChaCha20
// keystream for key under an all-zero nonce. Every reader built from the same
// key yields the same bytes.
func NewKeystreamReader(key []byte) (io.Reader, error) {
	if len(key) != SeedSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSeedLength, len(key), SeedSize)
	}

	c, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("create chacha20 cipher: %w", err)
	}
	return &keystreamReader{cipher: c}, nil
}

func (r *keystreamReader) Read(p []byte) (int, error) {
	clear(p)
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// ExpandSeed deterministically expands seed into length field elements.
// Producers of seeded shares must use the same expansion.
func ExpandSeed(length int, seed []byte) ([]Field, error) {
	stream, err := NewKeystreamReader(seed)
	if err != nil {
		return nil, err
	}

	res := make([]Field, length)
	for i := range res {
		if res[i], err = RandomField(stream); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// NewSeed reads a fresh seed from rand.
func NewSeed(rand io.Reader) ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return seed, nil
}

// SecretShare splits data into two additive shares. The first share is
// returned in full; the second is represented by the seed it expands from.
func SecretShare(data []Field, rand io.Reader) ([]Field, []byte, error) {
	seed, err := NewSeed(rand)
	if err != nil {
		return nil, nil, err
	}

	second, err := ExpandSeed(len(data), seed)
	if err != nil {
		return nil, nil, err
	}

	first := make([]Field, len(data))
	copy(first, data)
	VectorSubInplace(first, second)
	return first, seed, nil
}
