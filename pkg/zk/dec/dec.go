package zkdec

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

type Public struct {
	// C = Enc₀(y;ρ)
	C *paillier.Ciphertext

	// X = y (mod q)
	X curve.Scalar

	// Prover = N₀
	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

type Private struct {
	// Y = y ∈ ± 2ˡ
	Y *saferith.Int

	// Rho = ρ
	Rho *saferith.Nat
}

type Commitment struct {
	// S = sʸ⋅t^μ
	S *saferith.Nat
	// T = s^α⋅t^ν
	T *saferith.Nat
	// A = Enc₀(α; r)
	A *paillier.Ciphertext
	// Gamma = α (mod q)
	Gamma curve.Scalar
}

type Proof struct {
	*Commitment
	// Z1 = α + e⋅y
	Z1 *saferith.Int
	// Z2 = ν + e⋅μ
	Z2 *saferith.Int
	// W = r⋅ρᵉ (mod N₀)
	W *saferith.Nat
}

func (Public) Kind() zk.Kind  { return zk.Dec }
func (Private) Kind() zk.Kind { return zk.Dec }
func (*Proof) Kind() zk.Kind  { return zk.Dec }

func (public Public) isValid() bool {
	if public.X == nil {
		return false
	}
	if public.Prover.Validate() != nil || public.Aux.Validate() != nil {
		return false
	}
	return public.Prover.ValidateCiphertexts(public.C)
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || !public.isValid() {
		return false
	}
	if p.Z1 == nil || p.Z2 == nil {
		return false
	}
	if p.Gamma == nil || p.Gamma.IsZero() {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.W) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.S, p.T) {
		return false
	}
	return true
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if !public.isValid() || private.Y == nil {
		return nil, fmt.Errorf("%w: dec: incomplete statement", zk.ErrProofConstruction)
	}
	N0 := public.Prover.N()
	if !arith.IsValidNatModN(N0, private.Rho) {
		return nil, fmt.Errorf("%w: dec: nonce is not a unit", zk.ErrProofConstruction)
	}

	alpha := sample.IntervalLEps(rand.Reader)
	mu := sample.IntervalLN(rand.Reader)
	nu := sample.IntervalLEpsN(rand.Reader)
	r, err := sample.TryUnitModN(rand.Reader, N0)
	if err != nil {
		return nil, fmt.Errorf("%w: dec: %w", zk.ErrProofConstruction, err)
	}

	commitment := &Commitment{
		S:     public.Aux.Commit(private.Y, mu),
		T:     public.Aux.Commit(alpha, nu),
		A:     public.Prover.EncWithNonce(alpha, r),
		Gamma: zk.IntToScalar(group, alpha),
	}

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: dec: %w", zk.ErrProofConstruction, err)
	}

	// z₁ = e•y+α
	z1 := new(saferith.Int).Mul(e, private.Y, -1)
	z1.Add(z1, alpha, -1)
	// z₂ = e•μ + ν
	z2 := new(saferith.Int).Mul(e, mu, -1)
	z2.Add(z2, nu, -1)
	// w = ρ^e•r mod N₀
	w := arith.ExpI(private.Rho, e, N0)
	w.ModMul(w, r, N0)

	return &Proof{
		Commitment: commitment,
		Z1:         z1,
		Z2:         z2,
		W:          w,
	}, nil
}

func (p *Proof) Verify(group curve.Curve, hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	// s^z₁ t^z₂ = T⋅Sᵉ
	if !public.Aux.Verify(p.Z1, p.Z2, e, p.T, p.S) {
		return false
	}

	{
		// lhs = Enc₀(z₁;w)
		lhs := public.Prover.EncWithNonce(p.Z1, p.W)

		// rhs = (e ⊙ C) ⊕ A
		rhs := public.C.Clone().Mul(public.Prover, e).Add(public.Prover, p.A)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = z₁ mod q
		lhs := zk.IntToScalar(group, p.Z1)

		// rhs = e•x + γ
		rhs := zk.IntToScalar(group, e).Mul(public.X).Add(p.Gamma)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (*saferith.Int, error) {
	return zk.Challenge(hash, group, zk.Dec,
		public.Aux, public.Prover,
		public.C, public.X,
		commitment.S, commitment.T, commitment.A, commitment.Gamma)
}

// Empty returns a Proof whose group elements are allocated, so that it can be decoded into.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		Commitment: &Commitment{Gamma: group.NewScalar()},
	}
}
