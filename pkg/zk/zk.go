// Package zk holds the types shared by the non-interactive zero-knowledge proofs of this module.
//
// Each proof lives in its own package, and exposes a Public statement, a Private
// witness, and a Proof, all tagged with a Kind. Package nizk dispatches on that tag.
package zk

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
)

// Kind identifies one of the proof families.
type Kind uint8

const (
	// AffG proves an affine operation on a Paillier ciphertext, with the multiplier committed in the group.
	AffG Kind = iota + 1
	// Dec proves the plaintext of a Paillier ciphertext is congruent to a scalar.
	Dec
	// LogStar proves knowledge of a discrete log encrypted under Paillier.
	LogStar
	// Mul proves a Paillier ciphertext is the product of two encrypted values.
	Mul
	// MulStar proves a Paillier multiplication by a value committed in the group.
	MulStar
)

var kindNames = map[Kind]string{
	AffG:    "affg",
	Dec:     "dec",
	LogStar: "logstar",
	Mul:     "mul",
	MulStar: "mulstar",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid returns true if k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Kinds lists every proof kind, in order.
func Kinds() []Kind {
	return []Kind{AffG, Dec, LogStar, Mul, MulStar}
}

// Outcome is the result of verifying a proof.
//
// A rejected proof is an expected result, and not an error.
type Outcome uint8

const (
	Rejected Outcome = iota
	Verified
)

func (o Outcome) String() string {
	if o == Verified {
		return "verified"
	}
	return "rejected"
}

// OutcomeOf converts the result of a Verify method.
func OutcomeOf(ok bool) Outcome {
	if ok {
		return Verified
	}
	return Rejected
}

// ErrProofConstruction is wrapped by every error returned when creating a proof.
var ErrProofConstruction = errors.New("zk: proof construction failed")

// Statement is the public input of a proof.
type Statement interface {
	Kind() Kind
}

// Witness is the private input of a proof, known only to the prover.
type Witness interface {
	Kind() Kind
}

// Proof is the message sent from the prover to the verifier.
type Proof interface {
	Kind() Kind
}

// Challenge writes the kind and every value in data to h, and derives e ∈ ±q from the resulting state,
// where q is the order of group.
//
// Both prover and verifier must pass the same values in the same order.
func Challenge(h *hash.Hash, group curve.Curve, kind Kind, data ...interface{}) (*saferith.Int, error) {
	if err := h.WriteAny(hash.BytesWithDomain{TheDomain: "zk.Kind", Bytes: []byte(kind.String())}); err != nil {
		return nil, err
	}
	if err := h.WriteAny(data...); err != nil {
		return nil, err
	}
	return sample.IntervalScalar(h.Digest(), group), nil
}

// IntToScalar reduces x modulo the order of group.
func IntToScalar(group curve.Curve, x *saferith.Int) curve.Scalar {
	return group.NewScalar().SetNat(x.Mod(group.Order()))
}
