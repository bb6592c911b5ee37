package zkmul

import (
	"crypto/rand"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
)

type Public struct {
	// X = Enc(x; ρₓ)
	X *paillier.Ciphertext

	// Y = Enc(?;?)
	Y *paillier.Ciphertext

	// C = (x ⊙ Y)⋅ρᴺ
	C *paillier.Ciphertext

	// Prover = N
	Prover *paillier.PublicKey
}

type Private struct {
	// X ∈ ± 2ˡ, plaintext of X
	X *saferith.Int

	// Rho = ρ, nonce of C
	Rho *saferith.Nat

	// RhoX = ρₓ, nonce of X
	RhoX *saferith.Nat
}

type Commitment struct {
	// A = (α ⊙ Y)⋅rᴺ
	A *paillier.Ciphertext
	// B = Enc(α;s)
	B *paillier.Ciphertext
}

type Proof struct {
	*Commitment
	// Z = α + ex
	Z *saferith.Int
	// U = r⋅ρᵉ mod N
	U *saferith.Nat
	// V = s⋅ρₓᵉ
	V *saferith.Nat
}

func (Public) Kind() zk.Kind  { return zk.Mul }
func (Private) Kind() zk.Kind { return zk.Mul }
func (*Proof) Kind() zk.Kind  { return zk.Mul }

func (public Public) isValid() bool {
	if public.Prover.Validate() != nil {
		return false
	}
	return public.Prover.ValidateCiphertexts(public.X, public.Y, public.C)
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || !public.isValid() {
		return false
	}
	if p.Z == nil {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.U, p.V) {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A, p.B) {
		return false
	}
	return true
}

func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if !public.isValid() || private.X == nil {
		return nil, fmt.Errorf("%w: mul: incomplete statement", zk.ErrProofConstruction)
	}
	N := public.Prover.N()
	if !arith.IsValidNatModN(N, private.Rho, private.RhoX) {
		return nil, fmt.Errorf("%w: mul: nonces are not units", zk.ErrProofConstruction)
	}

	prover := public.Prover

	alpha := sample.IntervalLEps(rand.Reader)
	r, err := sample.TryUnitModN(rand.Reader, N)
	if err != nil {
		return nil, fmt.Errorf("%w: mul: %w", zk.ErrProofConstruction, err)
	}
	s, err := sample.TryUnitModN(rand.Reader, N)
	if err != nil {
		return nil, fmt.Errorf("%w: mul: %w", zk.ErrProofConstruction, err)
	}

	A := public.Y.Clone().Mul(prover, alpha)
	A.Randomize(prover, r)

	commitment := &Commitment{
		A: A,
		B: prover.EncWithNonce(alpha, s),
	}
	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: mul: %w", zk.ErrProofConstruction, err)
	}

	// Z = α + ex
	z := new(saferith.Int).Mul(e, private.X, -1)
	z.Add(z, alpha, -1)
	// U = r⋅ρᵉ mod N
	u := arith.ExpI(private.Rho, e, N)
	u.ModMul(u, r, N)
	// V = s⋅ρₓᵉ
	v := arith.ExpI(private.RhoX, e, N)
	v.ModMul(v, s, N)

	return &Proof{
		Commitment: commitment,
		Z:          z,
		U:          u,
		V:          v,
	}, nil
}

func (p *Proof) Verify(group curve.Curve, hash *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}

	if !arith.IsInIntervalLEps(p.Z) {
		return false
	}

	prover := public.Prover

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	{
		// lhs = (z ⊙ Y)•uᴺ
		lhs := public.Y.Clone().Mul(prover, p.Z)
		lhs.Randomize(prover, p.U)

		// (e ⊙ C) ⊕ A
		rhs := public.C.Clone().Mul(prover, e).Add(prover, p.A)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		// lhs = Enc(z;v)
		lhs := prover.EncWithNonce(p.Z, p.V)

		// rhs = (e ⊙ X) ⊕ B
		rhs := public.X.Clone().Mul(prover, e).Add(prover, p.B)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (*saferith.Int, error) {
	return zk.Challenge(hash, group, zk.Mul,
		public.Prover,
		public.X, public.Y, public.C,
		commitment.A, commitment.B)
}

// Empty returns a Proof ready to be decoded into.
func Empty(curve.Curve) *Proof {
	return &Proof{Commitment: &Commitment{}}
}
