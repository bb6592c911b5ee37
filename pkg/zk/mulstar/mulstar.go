package zkmulstar

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
	// C = Enc₀(c;?)
	C *paillier.Ciphertext

	// D = (x ⨀ C)⋅ρᴺ⁰
	D *paillier.Ciphertext

	// X = gˣ
	X curve.Point

	// Verifier = N₀
	Verifier *paillier.PublicKey
	Aux      *pedersen.Parameters
}

type Private struct {
	// X ∈ ± 2ˡ
	X *saferith.Int

	// Rho = ρ, nonce of D
	Rho *saferith.Nat
}

type Commitment struct {
	// A = (α ⊙ C)⋅rᴺ⁰
	A *paillier.Ciphertext
	// Bx = g^α
	Bx curve.Point
	// E = s^α⋅t^γ
	E *saferith.Nat
	// S = sˣ⋅tᵐ
	S *saferith.Nat
}

type Proof struct {
	*Commitment
	// Z1 = α + ex
	Z1 *saferith.Int
	// Z2 = γ + em
	Z2 *saferith.Int
	// W = r⋅ρᵉ (mod N₀)
	W *saferith.Nat
}

func (Public) Kind() zk.Kind  { return zk.MulStar }
func (Private) Kind() zk.Kind { return zk.MulStar }
func (*Proof) Kind() zk.Kind  { return zk.MulStar }

func (public Public) isValid() bool {
	if public.X == nil {
		return false
	}
	if public.Verifier.Validate() != nil || public.Aux.Validate() != nil {
		return false
	}
	return public.Verifier.ValidateCiphertexts(public.C, public.D)
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || !public.isValid() {
		return false
	}
	if p.Z1 == nil || p.Z2 == nil {
		return false
	}
	if !public.Verifier.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Verifier.N(), p.W) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.E, p.S) {
		return false
	}
	if p.Bx == nil || p.Bx.IsIdentity() {
		return false
	}
	return true
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if !public.isValid() || private.X == nil {
		return nil, fmt.Errorf("%w: mulstar: incomplete statement", zk.ErrProofConstruction)
	}
	N0 := public.Verifier.N()
	if !arith.IsValidNatModN(N0, private.Rho) {
		return nil, fmt.Errorf("%w: mulstar: nonce is not a unit", zk.ErrProofConstruction)
	}

	verifier := public.Verifier

	alpha := sample.IntervalLEps(rand.Reader)
	r, err := sample.TryUnitModN(rand.Reader, N0)
	if err != nil {
		return nil, fmt.Errorf("%w: mulstar: %w", zk.ErrProofConstruction, err)
	}
	gamma := sample.IntervalLEpsN(rand.Reader)
	m := sample.IntervalLN(rand.Reader)

	A := public.C.Clone().Mul(verifier, alpha)
	A.Randomize(verifier, r)

	commitment := &Commitment{
		A:  A,
		Bx: zk.IntToScalar(group, alpha).ActOnBase(),
		E:  public.Aux.Commit(alpha, gamma),
		S:  public.Aux.Commit(private.X, m),
	}

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: mulstar: %w", zk.ErrProofConstruction, err)
	}

	// z₁ = e•x+α
	z1 := new(saferith.Int).Mul(e, private.X, -1)
	z1.Add(z1, alpha, -1)
	// z₂ = e•m+γ
	z2 := new(saferith.Int).Mul(e, m, -1)
	z2.Add(z2, gamma, -1)
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

	verifier := public.Verifier

	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	// s^z₁ t^z₂ = E⋅Sᵉ
	if !public.Aux.Verify(p.Z1, p.Z2, e, p.E, p.S) {
		return false
	}

	{
		// lhs = (z₁ ⊙ C)⋅wᴺ⁰
		lhs := public.C.Clone().Mul(verifier, p.Z1)
		lhs.Randomize(verifier, p.W)

		// rhs = A ⊕ (e ⊙ D)
		rhs := public.D.Clone().Mul(verifier, e).Add(verifier, p.A)

		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = [z₁]G
		lhs := zk.IntToScalar(group, p.Z1).ActOnBase()

		// rhs = [e]X + Bₓ
		rhs := zk.IntToScalar(group, e).Act(public.X)
		rhs = rhs.Add(p.Bx)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (*saferith.Int, error) {
	return zk.Challenge(hash, group, zk.MulStar,
		public.Aux, public.Verifier,
		public.C, public.D, public.X,
		commitment.A, commitment.Bx,
		commitment.E, commitment.S)
}

// Empty returns a Proof whose group elements are allocated, so that it can be decoded into.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		Commitment: &Commitment{Bx: group.NewPoint()},
	}
}
