package ledger

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

var ErrBadSignature = errors.New("signature verification failed")

// Signature binds a public key to its signature over a submission payload.
type Signature struct {
	PublicKey []byte `json:"public_key"`
	Signature []byte `json:"signature"`
}

// Submission is an operation payload plus the signatures of every identity
// the operation acts for. The environment verifies all of them before the
// payload reaches the state machine.
type Submission struct {
	Payload    []byte      `json:"payload"`
	Signatures []Signature `json:"signatures"`
}

func (s *Submission) AddSigner(kp *Keypair) {
	s.Signatures = append(s.Signatures, Signature{
		PublicKey: append([]byte(nil), kp.Public...),
		Signature: kp.Sign(s.Payload),
	})
}

// Verify checks every signature against the payload and returns the set of
// proven identities.
func (s *Submission) Verify() (Signers, error) {
	signers := make(Signers, len(s.Signatures))
	for _, sig := range s.Signatures {
		if len(sig.PublicKey) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: bad public key length %d", ErrBadSignature, len(sig.PublicKey))
		}
		if !ed25519.Verify(ed25519.PublicKey(sig.PublicKey), s.Payload, sig.Signature) {
			return nil, ErrBadSignature
		}
		var a Address
		copy(a[:], sig.PublicKey)
		signers[a] = struct{}{}
	}
	return signers, nil
}

// Signers is the set of identities a submission has cryptographically
// proven control of.
type Signers map[Address]struct{}

func SignersOf(keys ...*Keypair) Signers {
	s := make(Signers, len(keys))
	for _, k := range keys {
		s[k.Address()] = struct{}{}
	}
	return s
}

func (s Signers) Authorizes(addr Address) bool {
	_, ok := s[addr]
	return ok
}
