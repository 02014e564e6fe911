package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

// ErrSignature is returned when a signed message fails verification.
var ErrSignature = errors.New("signature not valid")

// MaxMessageSize bounds the JSON bodies DecodeMessage accepts.
const MaxMessageSize = 16 << 20

const signingContext = "prio-signed-v1"

// Signed is a message authenticated by the Ed25519 key of the server that
// produced it. Servers relay their verification messages to each other in
// this form.
type Signed[T any] struct {
	PublicKey crypto.PublicKey `json:"public_key"`
	Signature crypto.Signature `json:"signature"`
	Object    *T               `json:"object"`
}

// signingPayload binds the signer's key and a context tag to the encoded object.
func signingPayload(pubkey crypto.PublicKey, encoded []byte) []byte {
	payload := make([]byte, 0, len(signingContext)+4+len(pubkey)+len(encoded))
	payload = append(payload, signingContext...)
	payload = binary.BigEndian.AppendUint32(payload, uint32(len(pubkey)))
	payload = append(payload, pubkey...)
	return append(payload, encoded...)
}

// NewSigned signs obj with privkey.
func NewSigned[T any](privkey crypto.PrivateKey, obj *T) (*Signed[T], error) {
	if obj == nil {
		return nil, errors.New("nil object")
	}

	pubkey, err := privkey.PublicKey()
	if err != nil {
		return nil, err
	}

	encoded, err := SerializeMessage(obj)
	if err != nil {
		return nil, err
	}

	signature, err := crypto.Sign(privkey, signingPayload(pubkey, encoded))
	if err != nil {
		return nil, err
	}

	return &Signed[T]{
		PublicKey: pubkey,
		Signature: signature,
		Object:    obj,
	}, nil
}

// Recover verifies the signature and returns the object with the key that
// signed it.
func (s *Signed[T]) Recover() (*T, crypto.PublicKey, error) {
	if s.Object == nil {
		return nil, nil, fmt.Errorf("%w: missing object", ErrSignature)
	}

	encoded, err := SerializeMessage(s.Object)
	if err != nil {
		return nil, nil, err
	}

	if !s.Signature.Verify(s.PublicKey, signingPayload(s.PublicKey, encoded)) {
		return nil, nil, ErrSignature
	}
	return s.Object, s.PublicKey, nil
}

// RecoverFrom is Recover restricted to messages signed by expected.
func (s *Signed[T]) RecoverFrom(expected crypto.PublicKey) (*T, error) {
	obj, signer, err := s.Recover()
	if err != nil {
		return nil, err
	}
	if !signer.Equal(expected) {
		return nil, fmt.Errorf("%w: unexpected signer %s", ErrSignature, signer)
	}
	return obj, nil
}

// DecodeMessage reads one JSON message of at most MaxMessageSize bytes.
// Unknown fields are rejected.
func DecodeMessage[T any](reader io.Reader) (*T, error) {
	var msg T
	dec := json.NewDecoder(io.LimitReader(reader, MaxMessageSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SerializeMessage serializes a message to JSON.
func SerializeMessage[T any](msg *T) ([]byte, error) {
	return json.Marshal(msg)
}
