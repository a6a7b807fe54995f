package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

const AddressLength = 32

var ErrInvalidAddress = errors.New("invalid address")

// Address identifies an account on the ledger. Key-held addresses are
// ed25519 public keys; derived sub-accounts are sha256 digests of their
// seeds and carry no secret at all.
type Address [AddressLength]byte

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText renders the base58 form, so addresses read as strings in JSON
// and log output.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != AddressLength {
		return Address{}, fmt.Errorf("%w: got %d bytes", ErrInvalidAddress, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// derivedTag keeps derived addresses off the ed25519 curve of any real key.
const derivedTag = "arena/derived/v1"

// Derive computes the deterministic sub-account for a label and a set of
// public seeds. Anyone holding the same inputs recomputes the same address,
// so composite entities (tournaments, guilds, mint governance) can hold
// balances without a private key existing anywhere.
func Derive(label string, seeds ...[]byte) (Address, Proof) {
	h := sha256.New()
	h.Write([]byte(derivedTag))
	writeLenPrefixed(h, []byte(label))
	for _, seed := range seeds {
		writeLenPrefixed(h, seed)
	}
	var a Address
	copy(a[:], h.Sum(nil))
	copied := make([][]byte, len(seeds))
	for i, seed := range seeds {
		copied[i] = append([]byte(nil), seed...)
	}
	return a, Proof{Label: label, Seeds: copied, Address: a}
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(b)))
	h.Write(n[:])
	h.Write(b)
}

// Proof is the recomputable evidence that an address was derived from the
// given label and seeds. It authorizes actions for exactly that address.
type Proof struct {
	Label   string
	Seeds   [][]byte
	Address Address
}

func (p Proof) Verify() bool {
	addr, _ := Derive(p.Label, p.Seeds...)
	return addr == p.Address
}

// Authorizes implements Authorizer: a derivation proof speaks only for the
// address it derives.
func (p Proof) Authorizes(addr Address) bool {
	return p.Verify() && p.Address == addr
}

// Authorizer answers whether the caller has proven control of an address,
// either by signature (Signers) or by derivation (Proof).
type Authorizer interface {
	Authorizes(addr Address) bool
}

// Keypair is an ed25519 identity used by players, organizers and
// administrators.
type Keypair struct {
	Public  ed25519.PublicKey
	private ed25519.PrivateKey
}

func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return &Keypair{Public: pub, private: priv}, nil
}

func (k *Keypair) Address() Address {
	var a Address
	copy(a[:], k.Public)
	return a
}

func (k *Keypair) Sign(payload []byte) []byte {
	return ed25519.Sign(k.private, payload)
}
