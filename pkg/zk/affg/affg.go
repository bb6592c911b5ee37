package zkaffg

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

	// D = (x ⨀ C) ⨁ Enc₀(y;ρ)
	D *paillier.Ciphertext

	// Y = Enc₁(y;ρy)
	Y *paillier.Ciphertext

	// X = gˣ
	X curve.Point

	// Prover = N₁
	// Verifier = N₀
	Prover, Verifier *paillier.PublicKey
	Aux              *pedersen.Parameters
}

type Private struct {
	// X ∈ ± 2ˡ
	X *saferith.Int

	// Y ∈ ± 2ˡº
	Y *saferith.Int

	// Rho = ρ, nonce of D
	Rho *saferith.Nat

	// RhoY = ρy, nonce of Y
	RhoY *saferith.Nat
}

type Commitment struct {
	// A = (α ⊙ C) ⊕ Enc₀(β, r)
	A *paillier.Ciphertext
	// Bx = g^α
	Bx curve.Point
	// By = Enc₁(β, ry)
	By *paillier.Ciphertext
	// E = s^α⋅t^γ
	E *saferith.Nat
	// S = sˣ⋅tᵐ
	S *saferith.Nat
	// F = s^β⋅t^δ
	F *saferith.Nat
	// T = sʸ⋅t^μ
	T *saferith.Nat
}

type Proof struct {
	*Commitment
	// Z1 = α + ex
	Z1 *saferith.Int
	// Z2 = β + ey
	Z2 *saferith.Int
	// Z3 = γ + em
	Z3 *saferith.Int
	// Z4 = δ + eμ
	Z4 *saferith.Int
	// W = r⋅ρᵉ (mod N₀)
	W *saferith.Nat
	// Wy = ry⋅ρyᵉ (mod N₁)
	Wy *saferith.Nat
}

func (Public) Kind() zk.Kind  { return zk.AffG }
func (Private) Kind() zk.Kind { return zk.AffG }
func (*Proof) Kind() zk.Kind  { return zk.AffG }

func (public Public) isValid() bool {
	if public.X == nil {
		return false
	}
	if public.Prover.Validate() != nil || public.Verifier.Validate() != nil || public.Aux.Validate() != nil {
		return false
	}
	return public.Verifier.ValidateCiphertexts(public.C, public.D) && public.Prover.ValidateCiphertexts(public.Y)
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || !public.isValid() {
		return false
	}
	if p.Z1 == nil || p.Z2 == nil || p.Z3 == nil || p.Z4 == nil {
		return false
	}
	if !public.Verifier.ValidateCiphertexts(p.A) {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.By) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Wy) {
		return false
	}
	if !arith.IsValidNatModN(public.Verifier.N(), p.W) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.E, p.S, p.F, p.T) {
		return false
	}
	if p.Bx == nil || p.Bx.IsIdentity() {
		return false
	}
	return true
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if !public.isValid() || private.X == nil || private.Y == nil {
		return nil, fmt.Errorf("%w: affg: incomplete statement", zk.ErrProofConstruction)
	}
	N0 := public.Verifier.N()
	N1 := public.Prover.N()
	if !arith.IsValidNatModN(N0, private.Rho) || !arith.IsValidNatModN(N1, private.RhoY) {
		return nil, fmt.Errorf("%w: affg: nonces are not units", zk.ErrProofConstruction)
	}

	verifier := public.Verifier
	prover := public.Prover

	alpha := sample.IntervalLEps(rand.Reader)
	beta := sample.IntervalLPrimeEps(rand.Reader)

	r, err := sample.TryUnitModN(rand.Reader, N0)
	if err != nil {
		return nil, fmt.Errorf("%w: affg: %w", zk.ErrProofConstruction, err)
	}
	rY, err := sample.TryUnitModN(rand.Reader, N1)
	if err != nil {
		return nil, fmt.Errorf("%w: affg: %w", zk.ErrProofConstruction, err)
	}

	gamma := sample.IntervalLEpsN(rand.Reader)
	m := sample.IntervalLN(rand.Reader)
	delta := sample.IntervalLEpsN(rand.Reader)
	mu := sample.IntervalLN(rand.Reader)

	cAlpha := public.C.Clone().Mul(verifier, alpha)           // = C^α mod N₀² = α ⊙ C
	A := verifier.EncWithNonce(beta, r).Add(verifier, cAlpha) // = Enc₀(β,r) ⊕ (α ⊙ C)

	commitment := &Commitment{
		A:  A,
		Bx: zk.IntToScalar(group, alpha).ActOnBase(),
		By: prover.EncWithNonce(beta, rY),
		E:  public.Aux.Commit(alpha, gamma),
		S:  public.Aux.Commit(private.X, m),
		F:  public.Aux.Commit(beta, delta),
		T:  public.Aux.Commit(private.Y, mu),
	}

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: affg: %w", zk.ErrProofConstruction, err)
	}

	// e•x+α
	z1 := new(saferith.Int).Mul(e, private.X, -1)
	z1.Add(z1, alpha, -1)
	// e•y+β
	z2 := new(saferith.Int).Mul(e, private.Y, -1)
	z2.Add(z2, beta, -1)
	// e•m+γ
	z3 := new(saferith.Int).Mul(e, m, -1)
	z3.Add(z3, gamma, -1)
	// e•μ+δ
	z4 := new(saferith.Int).Mul(e, mu, -1)
	z4.Add(z4, delta, -1)
	// r⋅ρᵉ mod N₀
	w := arith.ExpI(private.Rho, e, N0)
	w.ModMul(w, r, N0)
	// ry⋅ρyᵉ mod N₁
	wY := arith.ExpI(private.RhoY, e, N1)
	wY.ModMul(wY, rY, N1)

	return &Proof{
		Commitment: commitment,
		Z1:         z1,
		Z2:         z2,
		Z3:         z3,
		Z4:         z4,
		W:          w,
		Wy:         wY,
	}, nil
}

func (p *Proof) Verify(group curve.Curve, hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	verifier := public.Verifier
	prover := public.Prover

	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}
	if !arith.IsInIntervalLPrimeEps(p.Z2) {
		return false
	}

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	// s^z₁ t^z₃ = E⋅Sᵉ
	if !public.Aux.Verify(p.Z1, p.Z3, e, p.E, p.S) {
		return false
	}
	// s^z₂ t^z₄ = F⋅Tᵉ
	if !public.Aux.Verify(p.Z2, p.Z4, e, p.F, p.T) {
		return false
	}

	{
		// tmp = z₁ ⊙ C
		// lhs = Enc₀(z₂;w) ⊕ z₁ ⊙ C
		tmp := public.C.Clone().Mul(verifier, p.Z1)
		lhs := verifier.EncWithNonce(p.Z2, p.W).Add(verifier, tmp)

		// rhs = (e ⊙ D) ⊕ A
		rhs := public.D.Clone().Mul(verifier, e).Add(verifier, p.A)

		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = [z₁]G
		lhs := zk.IntToScalar(group, p.Z1).ActOnBase()

		// rhs = Bₓ + [e]X
		rhs := zk.IntToScalar(group, e).Act(public.X)
		rhs = rhs.Add(p.Bx)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = Enc₁(z₂; wy)
		lhs := prover.EncWithNonce(p.Z2, p.Wy)

		// rhs = (e ⊙ Y) ⊕ By
		rhs := public.Y.Clone().Mul(prover, e).Add(prover, p.By)

		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (*saferith.Int, error) {
	return zk.Challenge(hash, group, zk.AffG,
		public.Aux, public.Prover, public.Verifier,
		public.C, public.D, public.Y, public.X,
		commitment.A, commitment.Bx, commitment.By,
		commitment.E, commitment.S, commitment.F, commitment.T)
}

// Empty returns a Proof whose group elements are allocated, so that it can be decoded into.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		Commitment: &Commitment{Bx: group.NewPoint()},
	}
}
