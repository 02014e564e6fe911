package services

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/hannahdaviscrypto/mastic/metrics"
	"github.com/hannahdaviscrypto/mastic/protocol"
)

// HTTPServer exposes a protocol.ServerPool over HTTP. It never contacts its
// peer; relaying verification messages between servers is up to the caller.
type HTTPServer struct {
	config      *ServiceConfig
	pool        *protocol.ServerPool
	signingKey  crypto.PrivateKey
	exchangeKey *ecdh.PrivateKey
	log         *slog.Logger
}

// NewHTTPServer creates a verification service for the configured role and dimension.
func NewHTTPServer(config *ServiceConfig, signingKey crypto.PrivateKey, exchangeKey *ecdh.PrivateKey, log *slog.Logger) (*HTTPServer, error) {
	if config.PrioConfig == nil {
		return nil, fmt.Errorf("%w: missing prio config", protocol.ErrInvalidConfig)
	}
	if len(config.PeerPublicKey) == 0 {
		return nil, fmt.Errorf("%w: missing peer public key", protocol.ErrInvalidConfig)
	}
	if _, err := signingKey.PublicKey(); err != nil {
		return nil, fmt.Errorf("%w: %w", protocol.ErrInvalidConfig, err)
	}
	if log == nil {
		log = slog.Default()
	}

	role, err := config.PrioConfig.Validate()
	if err != nil {
		return nil, err
	}

	workers := config.PrioConfig.Workers
	if workers == 0 {
		workers = 1
	}

	pool, err := protocol.NewServerPool(workers, config.PrioConfig.Dimension, role, exchangeKey, protocol.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &HTTPServer{
		config:      config,
		pool:        pool,
		signingKey:  signingKey,
		exchangeKey: exchangeKey,
		log:         log.With("role", role.String()),
	}, nil
}

// PublicKey returns the key verification messages are signed with.
func (s *HTTPServer) PublicKey() crypto.PublicKey {
	pubKey, _ := s.signingKey.PublicKey()
	return pubKey
}

// Pool returns the underlying server pool.
func (s *HTTPServer) Pool() *protocol.ServerPool {
	return s.pool
}

// Ready reports an error once the pool is finalized and no longer takes shares.
func (s *HTTPServer) Ready() error {
	if s.pool.State() == protocol.StateFinalized {
		return protocol.ErrFinalized
	}
	return nil
}

// RegisterRoutes registers HTTP routes for the server.
func (s *HTTPServer) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/keys", s.handleKeys)
		r.Get("/challenge", s.handleChallenge)
		r.Post("/verification-message", s.handleVerificationMessage)
		r.Post("/aggregate", s.handleAggregate)
		r.Post("/finalize", s.handleFinalize)
		r.Get("/status", s.handleStatus)
		r.Get("/total-shares", s.handleTotalShares)
	})
}

func (s *HTTPServer) handleKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &KeysResponse{
		Role:        s.pool.Role().String(),
		Dimension:   s.pool.Dimension(),
		PublicKey:   s.PublicKey().String(),
		ExchangeKey: hex.EncodeToString(s.exchangeKey.PublicKey().Bytes()),
	})
}

func (s *HTTPServer) handleChallenge(w http.ResponseWriter, r *http.Request) {
	if len(s.config.ChallengeSecret) == 0 {
		evalAt, err := s.pool.ChooseEvalAt(rand.Reader)
		if err != nil {
			s.httpError(w, r, err)
			return
		}
		writeJSON(w, &ChallengeResponse{EvalAt: evalAt})
		return
	}

	round, err := strconv.ParseUint(r.URL.Query().Get("round"), 10, 64)
	if err != nil {
		s.httpError(w, r, fmt.Errorf("%w: invalid round: %w", errBadRequest, err))
		return
	}

	stream, err := protocol.NewChallengeStream(s.config.ChallengeSecret, round)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	evalAt, err := s.pool.ChooseEvalAt(stream)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	writeJSON(w, &ChallengeResponse{Round: round, EvalAt: evalAt})
}

func (s *HTTPServer) handleVerificationMessage(w http.ResponseWriter, r *http.Request) {
	req, err := protocol.DecodeMessage[VerificationRequest](r.Body)
	if err != nil {
		s.httpError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if uint32(req.EvalAt) >= crypto.FieldModulus {
		s.httpError(w, r, fmt.Errorf("%w: eval_at out of range", errBadRequest))
		return
	}

	vm, err := s.pool.GenerateVerificationMessage(req.SubmissionID, req.EvalAt, req.Share)
	if err != nil {
		s.httpError(w, r, err)
		return
	}

	signed, err := protocol.NewSigned(s.signingKey, &VerificationReport{
		SubmissionID: req.SubmissionID,
		EvalAt:       req.EvalAt,
		ShareDigest:  shareDigest(req.Share),
		Message:      *vm,
	})
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	writeJSON(w, signed)
}

func (s *HTTPServer) handleAggregate(w http.ResponseWriter, r *http.Request) {
	req, err := protocol.DecodeMessage[AggregateRequest](r.Body)
	if err != nil {
		s.httpError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if req.Own == nil || req.Peer == nil {
		s.httpError(w, r, fmt.Errorf("%w: both verification messages are required", errBadRequest))
		return
	}

	own, err := req.Own.RecoverFrom(s.PublicKey())
	if err != nil {
		s.httpError(w, r, fmt.Errorf("own verification message: %w", err))
		return
	}
	peer, err := req.Peer.RecoverFrom(s.config.PeerPublicKey)
	if err != nil {
		s.httpError(w, r, fmt.Errorf("peer verification message: %w", err))
		return
	}

	if own.SubmissionID != req.SubmissionID || peer.SubmissionID != req.SubmissionID {
		s.httpError(w, r, fmt.Errorf("%w: reports are not for submission %q", errUnboundReport, req.SubmissionID))
		return
	}
	if !bytes.Equal(own.ShareDigest, shareDigest(req.Share)) {
		s.httpError(w, r, fmt.Errorf("%w: own report was computed for another share", errUnboundReport))
		return
	}
	if own.EvalAt != peer.EvalAt {
		s.httpError(w, r, fmt.Errorf("%w: reports use different challenge points", errUnboundReport))
		return
	}

	valid, err := s.pool.Aggregate(req.SubmissionID, req.Share, &own.Message, &peer.Message)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	writeJSON(w, &AggregateResponse{Valid: valid})
}

func (s *HTTPServer) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.pool.Finalize()
	s.log.Info("finalized", "stats", s.pool.Stats())
	writeJSON(w, &StatusResponse{State: s.pool.State().String(), Stats: s.pool.Stats()})
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &StatusResponse{State: s.pool.State().String(), Stats: s.pool.Stats()})
}

func (s *HTTPServer) handleTotalShares(w http.ResponseWriter, r *http.Request) {
	if s.pool.State() != protocol.StateFinalized {
		s.httpError(w, r, errNotFinalized)
		return
	}
	writeJSON(w, &TotalSharesResponse{TotalShares: s.pool.TotalShares(), Stats: s.pool.Stats()})
}

var (
	errBadRequest    = errors.New("bad request")
	errNotFinalized  = errors.New("server is not finalized")
	errUnboundReport = errors.New("verification report does not match request")
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, protocol.ErrDecrypt),
		errors.Is(err, protocol.ErrShareLength),
		errors.Is(err, protocol.ErrMalformedProof),
		errors.Is(err, crypto.ErrNonCanonical),
		errors.Is(err, crypto.ErrSerializedLength),
		errors.Is(err, crypto.ErrSeedLength):
		return http.StatusBadRequest
	case errors.Is(err, protocol.ErrSignature), errors.Is(err, errUnboundReport):
		return http.StatusForbidden
	case errors.Is(err, protocol.ErrFinalized), errors.Is(err, errNotFinalized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) httpError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	metrics.IncHTTPErrors(r.URL.Path, status)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
