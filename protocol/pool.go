package protocol

import (
	"crypto/ecdh"
	"fmt"
	"hash/fnv"
	"io"
	"sync"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

type poolWorker struct {
	mu     sync.Mutex
	server *Server
}

// ServerPool runs several Servers of the same role side by side so that
// submissions can be verified concurrently. Each worker owns its own
// validation memory and partial accumulator; both calls for one submission
// must use the same submission key so they reach the same worker.
type ServerPool struct {
	dimension int
	role      Role
	workers   []*poolWorker
}

// NewServerPool creates a pool of workers servers sharing one key.
func NewServerPool(workers int, dimension int, role Role, privateKey *ecdh.PrivateKey, opts ...ServerOption) (*ServerPool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfig, workers)
	}

	pool := &ServerPool{
		dimension: dimension,
		role:      role,
		workers:   make([]*poolWorker, workers),
	}
	for i := range pool.workers {
		server, err := NewServer(dimension, role, privateKey, opts...)
		if err != nil {
			return nil, err
		}
		pool.workers[i] = &poolWorker{server: server}
	}
	return pool, nil
}

// Size returns the number of workers.
func (p *ServerPool) Size() int {
	return len(p.workers)
}

// Dimension returns the submission dimension.
func (p *ServerPool) Dimension() int {
	return p.dimension
}

// Role returns the role shared by every worker.
func (p *ServerPool) Role() Role {
	return p.role
}

// Worker returns the index of the worker responsible for submissionKey.
func (p *ServerPool) Worker(submissionKey string) int {
	h := fnv.New32a()
	h.Write([]byte(submissionKey))
	return int(h.Sum32() % uint32(len(p.workers)))
}

func (p *ServerPool) withWorker(submissionKey string, fn func(*Server)) {
	w := p.workers[p.Worker(submissionKey)]
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.server)
}

// GenerateVerificationMessage runs Server.GenerateVerificationMessage on the
// worker owning submissionKey.
func (p *ServerPool) GenerateVerificationMessage(submissionKey string, evalAt crypto.Field, encryptedShare []byte) (vm *VerificationMessage, err error) {
	p.withWorker(submissionKey, func(s *Server) {
		vm, err = s.GenerateVerificationMessage(evalAt, encryptedShare)
	})
	return vm, err
}

// Aggregate runs Server.Aggregate on the worker owning submissionKey.
func (p *ServerPool) Aggregate(submissionKey string, encryptedShare []byte, v1, v2 *VerificationMessage) (valid bool, err error) {
	p.withWorker(submissionKey, func(s *Server) {
		valid, err = s.Aggregate(encryptedShare, v1, v2)
	})
	return valid, err
}

// ChooseEvalAt draws a challenge point. All workers share the same domain.
func (p *ServerPool) ChooseEvalAt(rand io.Reader) (crypto.Field, error) {
	return p.workers[0].server.ChooseEvalAt(rand)
}

// TotalShares returns the sum of every worker's accumulator.
func (p *ServerPool) TotalShares() []crypto.Field {
	total := crypto.NewFieldVector(p.dimension)
	for _, w := range p.workers {
		w.mu.Lock()
		crypto.VectorAddInplace(total, w.server.accumulator)
		w.mu.Unlock()
	}
	return total
}

// Stats returns the summed outcome counters of all workers.
func (p *ServerPool) Stats() Stats {
	var total Stats
	for _, w := range p.workers {
		w.mu.Lock()
		total = total.Add(w.server.Stats())
		w.mu.Unlock()
	}
	return total
}

// State returns the most advanced lifecycle stage of any worker.
func (p *ServerPool) State() ServerState {
	state := StateCreated
	for _, w := range p.workers {
		w.mu.Lock()
		if s := w.server.State(); s.IsAfter(state) {
			state = s
		}
		w.mu.Unlock()
	}
	return state
}

// Finalize finalizes every worker.
func (p *ServerPool) Finalize() {
	for _, w := range p.workers {
		w.mu.Lock()
		w.server.Finalize()
		w.mu.Unlock()
	}
}
