package services

import (
	"crypto/ecdh"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/hannahdaviscrypto/mastic/protocol"
)

// ServiceConfig contains configuration for the HTTP verification service.
type ServiceConfig struct {
	PrioConfig *protocol.PrioConfig

	// PeerPublicKey is the signing key of the other server. Verification
	// messages relayed from the peer must carry its signature.
	PeerPublicKey crypto.PublicKey

	// ChallengeSecret, when set, makes GET /challenge derive its points from
	// a stream shared with the peer instead of fresh randomness.
	ChallengeSecret crypto.SharedKey
}

// ParseExchangeKey returns the parsed ECDH public key.
func ParseExchangeKey(exchangeKey string) (*ecdh.PublicKey, error) {
	keyBytes, err := hex.DecodeString(exchangeKey)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange key hex: %w", err)
	}
	return ecdh.P256().NewPublicKey(keyBytes)
}

// KeysResponse publishes the keys clients and peers need.
type KeysResponse struct {
	Role        string `json:"role"`
	Dimension   int    `json:"dimension"`
	PublicKey   string `json:"public_key"`
	ExchangeKey string `json:"exchange_key"`
}

// ChallengeResponse carries a challenge point.
type ChallengeResponse struct {
	Round  uint64       `json:"round,omitempty"`
	EvalAt crypto.Field `json:"eval_at"`
}

// VerificationRequest asks the server for its verification message.
type VerificationRequest struct {
	SubmissionID string       `json:"submission_id"`
	EvalAt       crypto.Field `json:"eval_at"`
	Share        []byte       `json:"share"`
}

// VerificationReport is what a server signs for one submission: its
// verification message together with the submission, the challenge point and
// the SHA-256 digest of the encrypted share it was computed for.
type VerificationReport struct {
	SubmissionID string                       `json:"submission_id"`
	EvalAt       crypto.Field                 `json:"eval_at"`
	ShareDigest  []byte                       `json:"share_digest"`
	Message      protocol.VerificationMessage `json:"message"`
}

func shareDigest(share []byte) []byte {
	digest := sha256.Sum256(share)
	return digest[:]
}

// AggregateRequest carries a share with both servers' signed reports.
type AggregateRequest struct {
	SubmissionID string                               `json:"submission_id"`
	Share        []byte                               `json:"share"`
	Own          *protocol.Signed[VerificationReport] `json:"own"`
	Peer         *protocol.Signed[VerificationReport] `json:"peer"`
}

// AggregateResponse reports whether the share was accumulated.
type AggregateResponse struct {
	Valid bool `json:"valid"`
}

// StatusResponse describes the server's lifecycle state.
type StatusResponse struct {
	State string         `json:"state"`
	Stats protocol.Stats `json:"stats"`
}

// TotalSharesResponse carries the accumulator of a finalized server.
type TotalSharesResponse struct {
	TotalShares []crypto.Field `json:"total_shares"`
	Stats       protocol.Stats `json:"stats"`
}
