package zklogstar

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
	// C = Enc₀(x;ρ)
	C *paillier.Ciphertext

	// X = [x] G
	X curve.Point

	// G is the base point of the curve.
	// If G = nil, the default base point is used.
	G curve.Point

	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

type Private struct {
	// X is the plaintext of C and the discrete log of X.
	X *saferith.Int

	// Rho = ρ is nonce used to encrypt C.
	Rho *saferith.Nat
}

type Commitment struct {
	// S = sˣ⋅t^μ (mod N)
	S *saferith.Nat
	// A = Enc₀(α; r)
	A *paillier.Ciphertext
	// Y = [α] G
	Y curve.Point
	// D = s^α⋅t^γ (mod N)
	D *saferith.Nat
}

type Proof struct {
	*Commitment
	// Z1 = α + e⋅x
	Z1 *saferith.Int
	// Z2 = r⋅ρᵉ mod N₀
	Z2 *saferith.Nat
	// Z3 = γ + e⋅μ
	Z3 *saferith.Int
}

func (Public) Kind() zk.Kind  { return zk.LogStar }
func (Private) Kind() zk.Kind { return zk.LogStar }
func (*Proof) Kind() zk.Kind  { return zk.LogStar }

func (public Public) isValid() bool {
	if public.X == nil {
		return false
	}
	if public.Prover.Validate() != nil || public.Aux.Validate() != nil {
		return false
	}
	if public.G != nil && public.G.IsIdentity() {
		return false
	}
	return public.Prover.ValidateCiphertexts(public.C)
}

func (public Public) base(group curve.Curve) curve.Point {
	if public.G == nil {
		return group.NewBasePoint()
	}
	return public.G
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
	if !arith.IsValidNatModN(public.Aux.N(), p.S, p.D) {
		return false
	}
	if p.Y == nil || p.Y.IsIdentity() {
		return false
	}
	return true
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if !public.isValid() || private.X == nil {
		return nil, fmt.Errorf("%w: logstar: incomplete statement", zk.ErrProofConstruction)
	}
	N := public.Prover.N()
	if !arith.IsValidNatModN(N, private.Rho) {
		return nil, fmt.Errorf("%w: logstar: nonce is not a unit", zk.ErrProofConstruction)
	}

	alpha := sample.IntervalLEps(rand.Reader)
	r, err := sample.TryUnitModN(rand.Reader, N)
	if err != nil {
		return nil, fmt.Errorf("%w: logstar: %w", zk.ErrProofConstruction, err)
	}
	mu := sample.IntervalLN(rand.Reader)
	gamma := sample.IntervalLEpsN(rand.Reader)

	commitment := &Commitment{
		A: public.Prover.EncWithNonce(alpha, r),
		Y: zk.IntToScalar(group, alpha).Act(public.base(group)),
		S: public.Aux.Commit(private.X, mu),
		D: public.Aux.Commit(alpha, gamma),
	}

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: logstar: %w", zk.ErrProofConstruction, err)
	}

	// z1 = α + e x,
	z1 := new(saferith.Int).Mul(e, private.X, -1)
	z1.Add(z1, alpha, -1)
	// z2 = r ρᵉ mod N,
	z2 := arith.ExpI(private.Rho, e, N)
	z2.ModMul(z2, r, N)
	// z3 = γ + e μ,
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

	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	// s^z₁ t^z₃ = D⋅Sᵉ
	if !public.Aux.Verify(p.Z1, p.Z3, e, p.D, p.S) {
		return false
	}

	{
		// lhs = Enc(z₁;z₂)
		lhs := public.Prover.EncWithNonce(p.Z1, p.Z2)

		// rhs = (e ⊙ C) ⊕ A
		rhs := public.C.Clone().Mul(public.Prover, e).Add(public.Prover, p.A)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = [z₁]G
		lhs := zk.IntToScalar(group, p.Z1).Act(public.base(group))

		// rhs = Y + [e]X
		rhs := zk.IntToScalar(group, e).Act(public.X)
		rhs = rhs.Add(p.Y)

		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (*saferith.Int, error) {
	return zk.Challenge(hash, group, zk.LogStar,
		public.Aux, public.Prover, public.C, public.X, public.base(group),
		commitment.S, commitment.A, commitment.Y, commitment.D)
}

// Empty returns a Proof whose group elements are allocated, so that it can be decoded into.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		Commitment: &Commitment{Y: group.NewPoint()},
	}
}
