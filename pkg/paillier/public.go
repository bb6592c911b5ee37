package paillier

import (
	"crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
)

// PublicKey is a Paillier public key, consisting of the modulus N.
type PublicKey struct {
	// n = p⋅q
	n *arith.Modulus
	// nSquared = n²
	nSquared *arith.Modulus

	// these values are cached out of convenience, and performance
	nNat *saferith.Nat
	// nPlusOne = n + 1
	nPlusOne *saferith.Nat
}

// N is the public modulus making up this key.
func (pk *PublicKey) N() *saferith.Modulus {
	return pk.n.Modulus
}

// Modulus returns N, with its factorization cached if it is known.
func (pk *PublicKey) Modulus() *arith.Modulus {
	return pk.n
}

// ModulusSquared returns N².
func (pk *PublicKey) ModulusSquared() *arith.Modulus {
	return pk.nSquared
}

// NewPublicKey returns an initialized PublicKey, caching N and N².
func NewPublicKey(n *saferith.Modulus) *PublicKey {
	oneNat := new(saferith.Nat).SetUint64(1)
	nNat := n.Nat()
	nSquared := saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1))
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// public, so tightening is fine
	nPlusOne.Resize(nPlusOne.TrueLen())
	return &PublicKey{
		n:        arith.ModulusFromN(n),
		nSquared: arith.ModulusFromN(nSquared),
		nNat:     nNat,
		nPlusOne: nPlusOne,
	}
}

// ValidateN checks that n is odd and exactly params.BitsPaillier bits long.
// Every public key received from another party must pass this check before it is used in a proof.
func ValidateN(n *saferith.Modulus) error {
	if n == nil {
		return ErrInvalidModulus
	}
	if n.BitLen() != params.BitsPaillier || n.Nat().Byte(0)&1 != 1 {
		return ErrInvalidModulus
	}
	return nil
}

// Validate returns ValidateN(pk.N()), or ErrInvalidModulus if pk is nil.
func (pk *PublicKey) Validate() error {
	if pk == nil || pk.n == nil {
		return ErrInvalidModulus
	}
	return ValidateN(pk.n.Modulus)
}

// Enc returns the encryption of m under the public key pk, using a fresh nonce from crypto/rand.
// The nonce is returned as well.
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk PublicKey) Enc(m *saferith.Int) (*Ciphertext, *saferith.Nat) {
	nonce := sample.UnitModN(rand.Reader, pk.n.Modulus)
	return pk.EncWithNonce(m, nonce), nonce
}

// EncWithNonce returns the encryption of m under the public key pk, with the given nonce.
//
// m is taken modulo N, so that Dec returns the representative of m in ±(N-1)/2.
// Messages of any size are accepted, since the proofs in this module only ever
// encrypt values far below N/2.
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk PublicKey) EncWithNonce(m *saferith.Int, nonce *saferith.Nat) *Ciphertext {
	// (N+1)ᵐ mod N²
	c := pk.nSquared.ExpI(pk.nPlusOne, m)
	// ρᴺ mod N²
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	c.ModMul(c, rhoN, pk.nSquared.Modulus)
	return &Ciphertext{c: c}
}

// Equal returns true if pk ≡ other.
func (pk PublicKey) Equal(other *PublicKey) bool {
	return pk.nNat.Eq(other.nNat) == 1
}

// ValidateCiphertexts checks if all ciphertexts are in the correct range and coprime to N²
// ct ∈ [1, …, N²-1] AND GCD(ct,N²) = 1.
func (pk PublicKey) ValidateCiphertexts(cts ...*Ciphertext) bool {
	for _, ct := range cts {
		if ct == nil {
			return false
		}
		if !arith.IsValidNatModN(pk.nSquared.Modulus, ct.c) {
			return false
		}
	}
	return true
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	if pk == nil {
		return 0, io.ErrUnexpectedEOF
	}
	if pk.nNat.TrueLen() > 8*params.BytesPaillier {
		return 0, ErrValueTooLarge
	}
	buf := make([]byte, params.BytesPaillier)
	pk.nNat.FillBytes(buf)
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (PublicKey) Domain() string {
	return "Paillier PublicKey"
}
