package zkmod

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
)

type Public struct {
	// N = p*q
	N *saferith.Modulus
}

type Private struct {
	// P, Q primes such that
	// P, Q ≡ 3 mod 4
	P, Q *saferith.Nat
	// Phi = ϕ(n) = (p-1)(q-1)
	Phi *saferith.Nat
}

// ForSecretKey returns the statement and witness that sk's modulus is a Paillier-Blum integer.
func ForSecretKey(sk *paillier.SecretKey) (Public, Private) {
	return Public{N: sk.N()}, Private{P: sk.P(), Q: sk.Q(), Phi: sk.Phi()}
}

type Response struct {
	// A, B s.t. y' = (-1)ᵃ wᵇ y
	A, B bool
	// X = y' ^ {1/4}
	X *saferith.Nat
	// Z = y^{N⁻¹ mod ϕ(N)}
	Z *saferith.Nat
}

type Proof struct {
	W         *saferith.Nat
	Responses [params.ZKModIterations]Response
}

// isQR reports whether y is a square mod p and mod q, using Euler's criterion with pHalf = (p-1)/2 and qHalf = (q-1)/2.
func isQR(y, pHalf, qHalf *saferith.Nat, p, q *saferith.Modulus) saferith.Choice {
	one := new(saferith.Nat).SetUint64(1)

	test := new(saferith.Nat).Exp(y, pHalf, p)
	pOk := test.Eq(one)

	test.Exp(y, qHalf, q)
	qOk := test.Eq(one)

	return pOk & qOk
}

// fourthRootExponent returns e such that (qrᵉ)⁴ = qr for every quadratic residue qr mod a Blum integer:
//
//	     ϕ + 4
//	e' = ------,   e = (e')² mod ϕ
//	       8
func fourthRootExponent(phi *saferith.Nat) *saferith.Nat {
	e := new(saferith.Nat).SetUint64(4)
	e.Add(e, phi, -1)
	e.Rsh(e, 3, -1)
	e.ModMul(e, e, saferith.ModulusFromNat(phi))
	return e
}

// makeQuadraticResidue finds a, b such that y' = (-1)ᵃ wᵇ y is a square mod N.
//
// For a Blum integer N and a quadratic non residue w with Jacobi symbol -1, exactly one choice works.
// The returned values may be leaked, the factorization may not.
func makeQuadraticResidue(y, w, pHalf, qHalf *saferith.Nat, n, p, q *saferith.Modulus) (a, b bool, out *saferith.Nat) {
	out = new(saferith.Nat).Mod(y, n)
	if isQR(out, pHalf, qHalf, p, q) == 1 {
		return
	}

	out.ModNeg(out, n)
	a, b = true, false
	if isQR(out, pHalf, qHalf, p, q) == 1 {
		return
	}

	out.ModMul(out, w, n)
	a, b = true, true
	if isQR(out, pHalf, qHalf, p, q) == 1 {
		return
	}

	out.ModNeg(out, n)
	a, b = false, true
	return
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || paillier.ValidateN(public.N) != nil {
		return false
	}
	if !arith.IsValidNatModN(public.N, p.W) {
		return false
	}
	if big.Jacobi(p.W.Big(), public.N.Big()) != -1 {
		return false
	}
	for _, r := range p.Responses {
		if !arith.IsValidNatModN(public.N, r.X, r.Z) {
			return false
		}
	}
	return true
}

// NewProof generates a proof that:
//   - n = pq
//   - p and q are odd primes
//   - p, q ≡ 3 (mod 4)
//
// With:
//   - W s.t. (w/N) = -1
//   - x = y' ^ {1/4}
//   - z = y^{N⁻¹ mod ϕ(N)}
//   - a, b s.t. y' = (-1)ᵃ wᵇ y
//   - R = [(xᵢ aᵢ, bᵢ), zᵢ] for i = 1, …, m
func NewProof(hash *hash.Hash, public Public, private Private, pl *pool.Pool) (*Proof, error) {
	if public.N == nil || private.P == nil || private.Q == nil || private.Phi == nil {
		return nil, fmt.Errorf("%w: mod: incomplete statement", zk.ErrProofConstruction)
	}
	if err := paillier.ValidateN(public.N); err != nil {
		return nil, fmt.Errorf("%w: mod: %w", zk.ErrProofConstruction, err)
	}
	n, p, q, phi := public.N, private.P, private.Q, private.Phi
	nModulus := arith.ModulusFromFactors(p, q)
	if nModulus.Nat().Eq(n.Nat()) != 1 {
		return nil, fmt.Errorf("%w: mod: factors do not match N", zk.ErrProofConstruction)
	}
	pHalf := new(saferith.Nat).Rsh(p, 1, -1)
	pMod := saferith.ModulusFromNat(p)
	qHalf := new(saferith.Nat).Rsh(q, 1, -1)
	qMod := saferith.ModulusFromNat(q)
	phiMod := saferith.ModulusFromNat(phi)
	// W can be leaked
	w := sample.QNR(rand.Reader, n)

	nInverse := new(saferith.Nat).ModInverse(n.Nat(), phiMod)

	e := fourthRootExponent(phi)

	ys, err := challenge(hash, n, w)
	if err != nil {
		return nil, fmt.Errorf("%w: mod: %w", zk.ErrProofConstruction, err)
	}

	var rs [params.ZKModIterations]Response
	pl.Parallelize(params.ZKModIterations, func(i int) interface{} {
		y := ys[i]

		// Z = y^{n⁻¹ (mod ϕ)}
		z := nModulus.Exp(y, nInverse)

		a, b, yPrime := makeQuadraticResidue(y, w, pHalf, qHalf, n, pMod, qMod)
		// X = (y')¹/4
		x := nModulus.Exp(yPrime, e)

		rs[i] = Response{
			A: a,
			B: b,
			X: x,
			Z: z,
		}
		return nil
	})

	return &Proof{
		W:         w,
		Responses: rs,
	}, nil
}

func (r *Response) Verify(n *saferith.Modulus, w, y *saferith.Nat) bool {
	// zⁿ = y mod n
	lhs := new(saferith.Nat).Exp(r.Z, n.Nat(), n)
	if lhs.Eq(y) != 1 {
		return false
	}

	// x⁴ = (-1)ᵃ • wᵇ • y mod n
	lhs.ModMul(r.X, r.X, n)
	lhs.ModMul(lhs, lhs, n)

	rhs := new(saferith.Nat).SetNat(y)
	if r.A {
		rhs.ModNeg(rhs, n)
	}
	if r.B {
		rhs.ModMul(rhs, w, n)
	}
	return lhs.Eq(rhs) == 1
}

func (p *Proof) Verify(hash *hash.Hash, public Public, pl *pool.Pool) bool {
	if !p.IsValid(public) {
		return false
	}
	n := public.N
	nBig := n.Big()
	// N must be odd and composite
	if nBig.Bit(0) == 0 || nBig.ProbablyPrime(20) {
		return false
	}

	ys, err := challenge(hash, n, p.W)
	if err != nil {
		return false
	}
	verifications := pl.Parallelize(params.ZKModIterations, func(i int) interface{} {
		return p.Responses[i].Verify(n, p.W, ys[i])
	})
	for _, ok := range verifications {
		if !ok.(bool) {
			return false
		}
	}
	return true
}

// challenge derives the yᵢ ∈ ℤₙ from a single output stream of the transcript.
func challenge(hash *hash.Hash, n *saferith.Modulus, w *saferith.Nat) ([]*saferith.Nat, error) {
	if err := hash.WriteAny(n, w); err != nil {
		return nil, err
	}
	digest := hash.Digest()
	es := make([]*saferith.Nat, params.ZKModIterations)
	for i := range es {
		es[i] = sample.ModN(digest, n)
	}
	return es, nil
}
