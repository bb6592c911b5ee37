package arith

import (
	"github.com/cronokirby/saferith"
)

// Modulus is an RSA style modulus n, optionally carrying its factorization n = p⋅q.
//
// With the factors, Exp splits the work into two half-size exponentiations and
// recombines them with the CRT. Without them it is a plain saferith exponentiation.
// A Modulus built with ModulusFromN can be shared freely.
type Modulus struct {
	*saferith.Modulus
	crt *crtParams
}

// crtParams are the values needed to recombine residues mod p and q.
type crtParams struct {
	p, q *saferith.Modulus
	// pNat = p as a Nat, to lift residues mod p
	pNat *saferith.Nat
	// pInv = p⁻¹ mod q
	pInv *saferith.Nat
}

// ModulusFromN wraps n without copying it.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{Modulus: n}
}

// ModulusFromFactors returns n = p⋅q, remembering p and q.
// p and q must be coprime.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	pMod := saferith.ModulusFromNat(p)
	qMod := saferith.ModulusFromNat(q)
	return &Modulus{
		Modulus: saferith.ModulusFromNat(new(saferith.Nat).Mul(p, q, -1)),
		crt: &crtParams{
			p:    pMod,
			q:    qMod,
			pNat: new(saferith.Nat).SetNat(p),
			pInv: new(saferith.Nat).ModInverse(p, qMod),
		},
	}
}

// Exp returns xᵉ mod n.
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if n.crt == nil {
		if !isOdd(n.Modulus) {
			return expIEven(x, new(saferith.Int).SetNat(e), n.Modulus)
		}
		return new(saferith.Nat).Exp(x, e, n.Modulus)
	}
	c := n.crt
	var xp, xq saferith.Nat
	xp.Exp(x, e, c.p)
	xq.Exp(x, e, c.q)
	// Garner: y = xp + p⋅((xq - xp)⋅p⁻¹ mod q)
	y := xq.ModSub(&xq, &xp, n.Modulus)
	y.ModMul(y, c.pInv, n.Modulus)
	y.ModMul(y, c.pNat, n.Modulus)
	return y.ModAdd(y, &xp, n.Modulus)
}

// ExpI returns xᵉ mod n for a signed e.
// As with the package level ExpI, the result is 0 when e < 0 and x is not a unit.
func (n *Modulus) ExpI(x *saferith.Nat, e *saferith.Int) *saferith.Nat {
	if n.crt == nil && !isOdd(n.Modulus) {
		return expIEven(x, e, n.Modulus)
	}
	return invertIfNegative(n.Exp(x, e.Abs()), e.IsNegative(), n.Modulus)
}

// HasFactorization reports whether n was built from its prime factors.
func (n *Modulus) HasFactorization() bool {
	return n.crt != nil
}
