package zkprm

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/pedersen"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
)

type (
	// Public states that T = Sˡ mod N for some secret λ.
	Public struct {
		N    *saferith.Modulus
		S, T *saferith.Nat
	}
	Private struct {
		Lambda, Phi *saferith.Nat
	}
)

type Proof struct {
	// Aᵢ = Sᵃⁱ mod N
	A [params.StatParam]*saferith.Nat
	// Zᵢ = aᵢ + eᵢλ mod ϕ
	Z [params.StatParam]*saferith.Nat
}

// Statements returns the two statements about a set of Parameters:
// t = sˡ, and s = tˡ⁻¹.
func Statements(aux *pedersen.Parameters) (forward, backward Public) {
	forward = Public{N: aux.N(), S: aux.S(), T: aux.T()}
	backward = Public{N: aux.N(), S: aux.T(), T: aux.S()}
	return
}

// Witnesses returns the secrets matching Statements.
func Witnesses(w *pedersen.Witness) (forward, backward Private) {
	forward = Private{Lambda: w.Lambda(), Phi: w.Phi()}
	backward = Private{Lambda: w.LambdaInv(), Phi: w.Phi()}
	return
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil {
		return false
	}
	if pedersen.ValidateParameters(public.N, public.S, public.T) != nil {
		return false
	}
	if !arith.IsValidNatModN(public.N, p.A[:]...) {
		return false
	}
	for _, z := range p.Z {
		if z == nil {
			return false
		}
		if _, _, lt := z.CmpMod(public.N); lt != 1 {
			return false
		}
	}
	return true
}

// NewProof generates a proof that T = Sˡ mod N.
func NewProof(hash *hash.Hash, public Public, private Private, pl *pool.Pool) (*Proof, error) {
	if pedersen.ValidateParameters(public.N, public.S, public.T) != nil {
		return nil, fmt.Errorf("%w: prm: invalid statement", zk.ErrProofConstruction)
	}
	if private.Lambda == nil || private.Phi == nil {
		return nil, fmt.Errorf("%w: prm: incomplete witness", zk.ErrProofConstruction)
	}
	n := arith.ModulusFromN(public.N)
	phi := saferith.ModulusFromNat(private.Phi)
	lambda := new(saferith.Nat).Mod(private.Lambda, phi)

	var a [params.StatParam]*saferith.Nat
	var A [params.StatParam]*saferith.Nat
	reader := pool.NewLockedReader(rand.Reader)
	pl.Parallelize(params.StatParam, func(i int) interface{} {
		// aᵢ ∈ mod ϕ(N)
		a[i] = sample.ModN(reader, phi)
		// Aᵢ = Sᵃ mod N
		A[i] = n.Exp(public.S, a[i])
		return nil
	})

	es, err := challenge(hash, public, A)
	if err != nil {
		return nil, fmt.Errorf("%w: prm: %w", zk.ErrProofConstruction, err)
	}

	var Z [params.StatParam]*saferith.Nat
	for i := range Z {
		z := new(saferith.Nat).SetNat(a[i])
		// The challenge is public, so branching is ok
		if es[i] {
			z.ModAdd(z, lambda, phi)
		}
		Z[i] = z
	}

	return &Proof{A: A, Z: Z}, nil
}

func (p *Proof) Verify(hash *hash.Hash, public Public, pl *pool.Pool) bool {
	if !p.IsValid(public) {
		return false
	}

	es, err := challenge(hash, public, p.A)
	if err != nil {
		return false
	}

	one := new(saferith.Nat).SetUint64(1)
	n := arith.ModulusFromN(public.N)
	results := pl.Parallelize(params.StatParam, func(i int) interface{} {
		a, z := p.A[i], p.Z[i]
		if a.Eq(one) == 1 {
			return false
		}
		// Sᶻ = A⋅Tᵉ
		lhs := n.Exp(public.S, z)
		rhs := new(saferith.Nat).SetNat(a)
		if es[i] {
			rhs.ModMul(rhs, public.T, public.N)
		}
		return lhs.Eq(rhs) == 1
	})
	for _, ok := range results {
		if !ok.(bool) {
			return false
		}
	}
	return true
}

func challenge(hash *hash.Hash, public Public, A [params.StatParam]*saferith.Nat) ([]bool, error) {
	if err := hash.WriteAny(public.N, public.S, public.T); err != nil {
		return nil, err
	}
	for _, a := range A {
		if err := hash.WriteAny(a); err != nil {
			return nil, err
		}
	}

	tmpBytes := make([]byte, params.StatParam)
	if _, err := io.ReadFull(hash.Digest(), tmpBytes); err != nil {
		return nil, err
	}

	out := make([]bool, params.StatParam)
	for i := range out {
		out[i] = (tmpBytes[i] & 1) == 1
	}
	return out, nil
}
