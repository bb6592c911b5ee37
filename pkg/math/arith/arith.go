package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/params"
)

// ExpI returns xᵉ (mod n), where the exponent e may be negative.
//
// For e < 0 the result is (x⁻ᵉ)⁻¹ (mod n). If that inverse does not exist,
// because x shares a factor with n, the result is 0. Callers must treat a zero
// result as degenerate, see IsDegenerate.
//
// Odd moduli use saferith. Even moduli, which saferith cannot exponentiate with,
// fall back to math/big and are not constant time.
func ExpI(x *saferith.Nat, e *saferith.Int, n *saferith.Modulus) *saferith.Nat {
	if !isOdd(n) {
		return expIEven(x, e, n)
	}
	y := new(saferith.Nat).Exp(x, e.Abs(), n)
	return invertIfNegative(y, e.IsNegative(), n)
}

func isOdd(n *saferith.Modulus) bool {
	return n.Nat().Byte(0)&1 == 1
}

// expIEven computes ExpI with math/big, for an even n.
func expIEven(x *saferith.Nat, e *saferith.Int, n *saferith.Modulus) *saferith.Nat {
	nBig := n.Big()
	y := new(big.Int).Exp(x.Big(), e.Abs().Big(), nBig)
	if e.IsNegative() == 1 && y.ModInverse(y, nBig) == nil {
		y.SetUint64(0)
	}
	return new(saferith.Nat).SetBig(y, n.BitLen())
}

// invertIfNegative sets y to y⁻¹ (mod n) if neg = 1, and to 0 if additionally y has
// no inverse. y is modified and returned.
func invertIfNegative(y *saferith.Nat, neg saferith.Choice, n *saferith.Modulus) *saferith.Nat {
	inverted := new(saferith.Nat).ModInverse(y, n)
	zero := new(saferith.Nat).SetUint64(0).Resize(n.BitLen())
	inverted.CondAssign(y.IsUnit(n)^1, zero)
	y.CondAssign(neg, inverted)
	return y
}

// IsDegenerate returns true if x is nil or 0, which is how ExpI signals a missing inverse.
func IsDegenerate(x *saferith.Nat) bool {
	return x == nil || x.EqZero() == 1
}

// IsValidNatModN checks that ints are all in the range [1,…,N-1] and are co-prime to N.
func IsValidNatModN(N *saferith.Modulus, ints ...*saferith.Nat) bool {
	if N == nil {
		return false
	}
	for _, i := range ints {
		if i == nil {
			return false
		}
		if _, _, lt := i.CmpMod(N); lt != 1 {
			return false
		}
		if i.IsUnit(N) != 1 {
			return false
		}
	}
	return true
}

// IsInIntervalLEps returns true if n ∈ [-2ˡ⁺ᵉ,…,2ˡ⁺ᵉ].
func IsInIntervalLEps(n *saferith.Int) bool {
	if n == nil {
		return false
	}
	return n.Abs().TrueLen() <= params.LPlusEpsilon
}

// IsInIntervalLPrimeEps returns true if n ∈ [-2ˡ'⁺ᵉ,…,2ˡ'⁺ᵉ].
func IsInIntervalLPrimeEps(n *saferith.Int) bool {
	if n == nil {
		return false
	}
	return n.Abs().TrueLen() <= params.LPrimePlusEpsilon
}
