package protocol

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"golang.org/x/crypto/hkdf"
)

const challengeInfo = "prio-challenge-v1"

// NewChallengeStream returns the randomness two servers holding the same
// secret use to agree on challenge points for a round. Feeding the stream to
// ChooseEvalAt on both servers yields the same sequence of points.
func NewChallengeStream(secret crypto.SharedKey, round uint64) (io.Reader, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty challenge secret", ErrInvalidConfig)
	}

	info := binary.BigEndian.AppendUint64([]byte(challengeInfo), round)
	key := make([]byte, crypto.SeedSize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, info), key); err != nil {
		return nil, fmt.Errorf("derive challenge key: %w", err)
	}

	return crypto.NewKeystreamReader(key)
}
