package sample

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// TryUnitModN returns a u ∈ ℤₙˣ, that is a uniform u ∈ [0, n) with gcd(u, n) = 1.
//
// Candidates are drawn by rejection sampling. For the moduli used in this module
// the density of non units is negligible, so the first candidate is almost always
// accepted. After maxIterations rejected candidates, ErrMaxIterations is returned.
func TryUnitModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	for i := 0; i < maxIterations; i++ {
		u := ModN(rand, n)
		if u.IsUnit(n) == 1 {
			return u, nil
		}
	}
	return nil, ErrMaxIterations
}

// UnitModN returns a u ∈ ℤₙˣ.
//
// It panics in the same conditions as TryUnitModN returns an error, which only
// happens with a broken source of randomness.
func UnitModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	u, err := TryUnitModN(rand, n)
	if err != nil {
		panic(err)
	}
	return u
}

// QNR samples a random quadratic non-residue in Z_n.
func QNR(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	var w big.Int
	nBig := n.Big()
	for i := 0; i < maxIterations; i++ {
		u := UnitModN(rand, n)
		w.SetBytes(u.Bytes())
		if big.Jacobi(&w, nBig) == -1 {
			return u
		}
	}
	panic(ErrMaxIterations)
}

// Scalar returns a new *curve.Scalar by reading bytes from rand.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buffer := make([]byte, group.SafeScalarBytes())
	mustReadBits(rand, buffer)
	n := new(saferith.Nat).SetBytes(buffer)
	return group.NewScalar().SetNat(n)
}
