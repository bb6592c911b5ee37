// Package zkenc proves that a Paillier ciphertext encrypts a small plaintext.
//
// It is the range proof underlying the other Paillier proofs, and is not dispatched through nizk.
package zkenc

import (
	"crypto/rand"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/taurusgroup/cmp-zk/pkg/pedersen"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
)

const domain = "zkenc"

type Public struct {
	// K = Enc₀(k;ρ)
	K *paillier.Ciphertext

	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

type Private struct {
	// K = k ∈ ± 2ˡ, plaintext of K
	K *saferith.Int

	// Rho = ρ, nonce of K
	Rho *saferith.Nat
}

type Commitment struct {
	// S = sᵏtᵘ
	S *saferith.Nat
	// A = Enc₀(α; r)
	A *paillier.Ciphertext
	// C = s^α t^γ
	C *saferith.Nat
}

type Proof struct {
	*Commitment
	// Z1 = α + e⋅k
	Z1 *saferith.Int
	// Z2 = r⋅ρᵉ mod N₀
	Z2 *saferith.Nat
	// Z3 = γ + e⋅μ
	Z3 *saferith.Int
}

func (public Public) isValid() bool {
	if public.Prover.Validate() != nil || public.Aux.Validate() != nil {
		return false
	}
	return public.Prover.ValidateCiphertexts(public.K)
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || !public.isValid() {
		return false
	}
	if p.Z1 == nil || p.Z3 == nil {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Z2) {
		return false
	}
	return arith.IsValidNatModN(public.Aux.N(), p.S, p.C)
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if !public.isValid() || private.K == nil {
		return nil, fmt.Errorf("%w: enc: incomplete statement", zk.ErrProofConstruction)
	}
	N := public.Prover.N()
	if !arith.IsValidNatModN(N, private.Rho) {
		return nil, fmt.Errorf("%w: enc: nonce is not a unit", zk.ErrProofConstruction)
	}

	alpha := sample.IntervalLEps(rand.Reader)
	r, err := sample.TryUnitModN(rand.Reader, N)
	if err != nil {
		return nil, fmt.Errorf("%w: enc: %w", zk.ErrProofConstruction, err)
	}
	mu := sample.IntervalLN(rand.Reader)
	gamma := sample.IntervalLEpsN(rand.Reader)

	commitment := &Commitment{
		S: public.Aux.Commit(private.K, mu),
		A: public.Prover.EncWithNonce(alpha, r),
		C: public.Aux.Commit(alpha, gamma),
	}

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: enc: %w", zk.ErrProofConstruction, err)
	}

	z1 := new(saferith.Int).Mul(e, private.K, -1)
	z1.Add(z1, alpha, -1)

	z2 := arith.ExpI(private.Rho, e, N)
	z2.ModMul(z2, r, N)

	z3 := new(saferith.Int).Mul(e, mu, -1)
	z3.Add(z3, gamma, -1)

	return &Proof{
		Commitment: commitment,
		Z1:         z1,
		Z2:         z2,
		Z3:         z3,
	}, nil
}

func (p *Proof) Verify(group curve.Curve, hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	prover := public.Prover

	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	// s^z₁ t^z₃ = C⋅Sᵉ
	if !public.Aux.Verify(p.Z1, p.Z3, e, p.C, p.S) {
		return false
	}

	// Enc(z₁;z₂) = (e ⊙ K) ⊕ A
	lhs := prover.EncWithNonce(p.Z1, p.Z2)
	rhs := public.K.Clone().Mul(prover, e).Add(prover, p.A)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (*saferith.Int, error) {
	err := h.WriteAny(hash.BytesWithDomain{TheDomain: "zk.Kind", Bytes: []byte(domain)},
		public.Aux, public.Prover, public.K,
		commitment.S, commitment.A, commitment.C)
	if err != nil {
		return nil, err
	}
	return sample.IntervalScalar(h.Digest(), group), nil
}

func Empty() *Proof {
	return &Proof{}
}
