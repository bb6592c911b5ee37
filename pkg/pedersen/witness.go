package pedersen

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
)

// ErrWitnessNotSerializable is returned by every encoding method of Witness.
var ErrWitnessNotSerializable = errors.New("pedersen: witness must not be serialized")

// Witness is the trapdoor of a set of Parameters: λ with t = sˡ mod N, λ⁻¹ mod ϕ and ϕ = ϕ(N).
//
// It is returned alongside the Parameters by Generate, and is never reachable from them.
// All encoding methods fail, and formatting redacts the contents.
type Witness struct {
	lambda, lambdaInv, phi *saferith.Nat
}

// Lambda returns λ, the discrete logarithm of t in base s.
func (w *Witness) Lambda() *saferith.Nat { return w.lambda }

// LambdaInv returns λ⁻¹ mod ϕ, so that s = tˡ⁻¹ mod N.
func (w *Witness) LambdaInv() *saferith.Nat { return w.lambdaInv }

// Phi returns ϕ = (p-1)(q-1).
func (w *Witness) Phi() *saferith.Nat { return w.phi }

func (*Witness) String() string {
	return "pedersen.Witness{REDACTED}"
}

func (w *Witness) GoString() string {
	return w.String()
}

// Format redacts the witness for every verb, including %+v and %x.
func (w *Witness) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, w.String())
}

func (*Witness) MarshalBinary() ([]byte, error) {
	return nil, ErrWitnessNotSerializable
}

func (*Witness) MarshalJSON() ([]byte, error) {
	return nil, ErrWitnessNotSerializable
}

func (*Witness) MarshalText() ([]byte, error) {
	return nil, ErrWitnessNotSerializable
}
