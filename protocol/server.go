package protocol

import (
	"crypto/ecdh"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/hannahdaviscrypto/mastic/metrics"
)

// Server verifies encrypted client shares together with one peer and
// accumulates the shares that pass. A Server is not safe for concurrent use;
// see ServerPool.
type Server struct {
	dimension  int
	role       Role
	privateKey *ecdh.PrivateKey

	accumulator []crypto.Field
	mem         *ValidationMemory

	state ServerState
	stats Stats
	log   *slog.Logger
}

// ServerOption configures optional Server behaviour.
type ServerOption func(*Server)

// WithLogger makes the server log share outcomes at debug level.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a server for submissions of the given dimension.
func NewServer(dimension int, role Role, privateKey *ecdh.PrivateKey, opts ...ServerOption) (*Server, error) {
	if role == nil {
		return nil, fmt.Errorf("%w: nil role", ErrInvalidConfig)
	}
	if privateKey == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidConfig)
	}

	mem, err := NewValidationMemory(dimension)
	if err != nil {
		return nil, err
	}

	s := &Server{
		dimension:   dimension,
		role:        role,
		privateKey:  privateKey,
		accumulator: crypto.NewFieldVector(dimension),
		mem:         mem,
		state:       StateCreated,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dimension returns the submission dimension.
func (s *Server) Dimension() int {
	return s.dimension
}

// Role returns the server's role.
func (s *Server) Role() Role {
	return s.role
}

// State returns the lifecycle stage.
func (s *Server) State() ServerState {
	return s.state
}

// Stats returns the aggregation outcome counters.
func (s *Server) Stats() Stats {
	return s.stats
}

func (s *Server) decodeShare(encryptedShare []byte) ([]crypto.Field, error) {
	plaintext, err := crypto.DecryptShare(s.privateKey, encryptedShare)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return s.role.DecodeShare(plaintext, s.dimension)
}

func (s *Server) receive() error {
	if s.state == StateFinalized {
		return ErrFinalized
	}
	s.state = StateReceiving
	return nil
}

// GenerateVerificationMessage decrypts and decodes encryptedShare and
// evaluates its proof polynomials at evalAt.
func (s *Server) GenerateVerificationMessage(evalAt crypto.Field, encryptedShare []byte) (*VerificationMessage, error) {
	if err := s.receive(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer metrics.ObserveVerification(s.role.String(), start)

	share, err := s.decodeShare(encryptedShare)
	if err != nil {
		metrics.IncVerificationErrors(s.role.String())
		return nil, err
	}

	vm, err := GenerateVerificationMessage(s.dimension, evalAt, share, s.role, s.mem)
	if err != nil {
		metrics.IncVerificationErrors(s.role.String())
		return nil, err
	}
	return vm, nil
}

// Aggregate decodes encryptedShare again and, if the combined verification
// messages v1 and v2 pass, adds its data to the accumulator. An invalid share
// is reported as false with a nil error and leaves the accumulator unchanged.
func (s *Server) Aggregate(encryptedShare []byte, v1, v2 *VerificationMessage) (bool, error) {
	if err := s.receive(); err != nil {
		return false, err
	}

	share, err := s.decodeShare(encryptedShare)
	if err != nil {
		s.stats.Malformed++
		metrics.IncShares(s.role.String(), metrics.OutcomeMalformed)
		return false, err
	}

	if !IsValidShare(v1, v2) {
		s.stats.Rejected++
		metrics.IncShares(s.role.String(), metrics.OutcomeRejected)
		if s.log != nil {
			s.log.Debug("share rejected", "role", s.role.String())
		}
		return false, nil
	}

	crypto.VectorAddInplace(s.accumulator, share[:s.dimension])
	s.stats.Accepted++
	metrics.IncShares(s.role.String(), metrics.OutcomeAccepted)
	if s.log != nil {
		s.log.Debug("share accepted", "role", s.role.String(), "accepted", s.stats.Accepted)
	}
	return true, nil
}

// TotalShares returns a copy of the accumulator.
func (s *Server) TotalShares() []crypto.Field {
	return slices.Clone(s.accumulator)
}

// ChooseEvalAt draws a challenge point suitable for GenerateVerificationMessage.
func (s *Server) ChooseEvalAt(rand io.Reader) (crypto.Field, error) {
	return s.mem.ChooseEvalAt(rand)
}

// MergeAccumulator adds a partial accumulator produced elsewhere, e.g. by
// another worker holding the same role and dimension.
func (s *Server) MergeAccumulator(other []crypto.Field) error {
	if s.state == StateFinalized {
		return ErrFinalized
	}
	if len(other) != s.dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrAccumulatorLength, len(other), s.dimension)
	}

	crypto.VectorAddInplace(s.accumulator, other)
	return nil
}

// Finalize freezes the accumulator. Later verification and aggregation
// calls return ErrFinalized. Finalizing twice is a no-op.
func (s *Server) Finalize() {
	if s.state == StateFinalized {
		return
	}
	s.state = StateFinalized
	if s.log != nil {
		s.log.Debug("server finalized", "role", s.role.String(), "accepted", s.stats.Accepted, "rejected", s.stats.Rejected)
	}
}
