package testutil

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

// GenerateRandomBytes generates random bytes of the specified length
func GenerateRandomBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return bytes, nil
}

// GenerateTestKeyPair creates an Ed25519 signing key pair for testing
func GenerateTestKeyPair() (crypto.PublicKey, crypto.PrivateKey, error) {
	return crypto.GenerateKeyPair()
}

// GenerateTestExchangeKey creates a P-256 share decryption key for testing
func GenerateTestExchangeKey() (*ecdh.PrivateKey, error) {
	return ecdh.P256().GenerateKey(rand.Reader)
}

// RandomBits returns length elements that are each zero or one.
func RandomBits(rs *mrand.Rand, length int) []crypto.Field {
	res := make([]crypto.Field, length)
	for i := range res {
		res[i] = crypto.Field(rs.Intn(2))
	}
	return res
}

// ProofOption customizes GenerateProof.
type ProofOption func(*proofOptions)

type proofOptions struct {
	rand io.Reader
}

// WithProofRandomness sets the source of the random constant terms.
func WithProofRandomness(r io.Reader) ProofOption {
	return func(o *proofOptions) {
		o.rand = r
	}
}

// GenerateProof builds the honest data-plus-proof vector for data, laid out
// as data, f0, g0, h0 followed by h at the odd points of the doubled domain.
// The proof only passes verification when every data element is 0 or 1.
func GenerateProof(data []crypto.Field, options ...ProofOption) ([]crypto.Field, error) {
	opts := &proofOptions{rand: rand.Reader}
	for _, opt := range options {
		opt(opts)
	}

	d := len(data)
	if d == 0 {
		return nil, fmt.Errorf("empty data")
	}
	n := crypto.NextPowerOfTwo(d + 1)

	f0, err := crypto.RandomField(opts.rand)
	if err != nil {
		return nil, err
	}
	g0, err := crypto.RandomField(opts.rand)
	if err != nil {
		return nil, err
	}

	mem := crypto.NewPolyAuxMemory(n)

	// Point values over the order-n domain, padded with zeros
	pointsF := crypto.NewFieldVector(n)
	pointsG := crypto.NewFieldVector(n)
	pointsF[0], pointsG[0] = f0, g0
	for i, x := range data {
		pointsF[i+1] = x
		pointsG[i+1] = x.Sub(crypto.FieldOne)
	}

	evalsF := evaluateOnDoubledDomain(pointsF, mem)
	evalsG := evaluateOnDoubledDomain(pointsG, mem)

	proof := make([]crypto.Field, 0, d+3+n)
	proof = append(proof, data...)
	proof = append(proof, f0, g0, evalsF[0].Mul(evalsG[0]))
	for i := 1; i < 2*n; i += 2 {
		proof = append(proof, evalsF[i].Mul(evalsG[i]))
	}
	return proof, nil
}

func evaluateOnDoubledDomain(points []crypto.Field, mem *crypto.PolyAuxMemory) []crypto.Field {
	n := len(points)
	coeffs := crypto.NewFieldVector(2 * n)
	crypto.PolyFFT(coeffs[:n], points, mem.RootsNInverted, true)

	evals := crypto.NewFieldVector(2 * n)
	crypto.PolyFFT(evals, coeffs, mem.Roots2N, false)
	return evals
}

// SharedSubmission is one client submission prepared for both servers.
type SharedSubmission struct {
	Proof          []crypto.Field
	FirstShare     []crypto.Field
	OtherShare     []crypto.Field
	Seed           []byte
	EncryptedFirst []byte
	EncryptedOther []byte
}

// GenerateSubmission proves data, splits the proof into a full share for the
// first server and a seed for the other, and encrypts both.
func GenerateSubmission(data []crypto.Field, firstKey, otherKey *ecdh.PublicKey, options ...ProofOption) (*SharedSubmission, error) {
	proof, err := GenerateProof(data, options...)
	if err != nil {
		return nil, err
	}
	return ShareProof(proof, firstKey, otherKey)
}

// ShareProof splits and encrypts an existing proof vector.
func ShareProof(proof []crypto.Field, firstKey, otherKey *ecdh.PublicKey) (*SharedSubmission, error) {
	first, seed, err := crypto.SecretShare(proof, rand.Reader)
	if err != nil {
		return nil, err
	}
	other, err := crypto.ExpandSeed(len(proof), seed)
	if err != nil {
		return nil, err
	}

	encFirst, err := crypto.EncryptShare(firstKey, crypto.SerializeFields(first))
	if err != nil {
		return nil, err
	}
	encOther, err := crypto.EncryptShare(otherKey, seed)
	if err != nil {
		return nil, err
	}

	return &SharedSubmission{
		Proof:          proof,
		FirstShare:     first,
		OtherShare:     other,
		Seed:           seed,
		EncryptedFirst: encFirst,
		EncryptedOther: encOther,
	}, nil
}

// Uint32Reader replays fixed little-endian uint32 values and then falls
// back to another reader.
type Uint32Reader struct {
	buf      []byte
	fallback io.Reader
}

// NewUint32Reader returns a reader that yields values before fallback.
func NewUint32Reader(fallback io.Reader, values ...uint32) *Uint32Reader {
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return &Uint32Reader{buf: buf, fallback: fallback}
}

func (r *Uint32Reader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if r.fallback == nil {
			return 0, io.EOF
		}
		return r.fallback.Read(p)
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
