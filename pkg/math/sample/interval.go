package sample

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
)

// signedBits returns a uniform x with |x| < 2ᵇⁱᵗˢ and a uniform sign.
//
// The first byte read decides the sign, the magnitude is masked to exactly bits bits.
// No branch depends on the sampled value.
func signedBits(rand io.Reader, bits int) *saferith.Int {
	size := (bits + 7) / 8
	buf := make([]byte, 1+size)
	mustReadBits(rand, buf)

	sign := saferith.Choice(buf[0] & 1)
	magnitude := buf[1:]
	if extra := 8*size - bits; extra > 0 {
		magnitude[0] &= 0xff >> extra
	}

	x := new(saferith.Int).SetBytes(magnitude)
	x.Neg(sign)
	return x
}

// IntervalL samples from ± 2ˡ.
func IntervalL(rand io.Reader) *saferith.Int {
	return signedBits(rand, params.L)
}

// IntervalLPrime samples from ± 2ˡ'.
func IntervalLPrime(rand io.Reader) *saferith.Int {
	return signedBits(rand, params.LPrime)
}

// IntervalLEps samples from ± 2ˡ⁺ᵉ, the range of masks for secrets in ± 2ˡ.
func IntervalLEps(rand io.Reader) *saferith.Int {
	return signedBits(rand, params.LPlusEpsilon)
}

// IntervalLPrimeEps samples from ± 2ˡ'⁺ᵉ.
func IntervalLPrimeEps(rand io.Reader) *saferith.Int {
	return signedBits(rand, params.LPrimePlusEpsilon)
}

// IntervalLN samples from ± 2ˡ⋅N, with N a Paillier sized modulus.
// It is used for the randomness of Ring-Pedersen commitments.
func IntervalLN(rand io.Reader) *saferith.Int {
	return signedBits(rand, params.L+params.BitsIntModN)
}

// IntervalLEpsN samples from ± 2ˡ⁺ᵉ⋅N.
func IntervalLEpsN(rand io.Reader) *saferith.Int {
	return signedBits(rand, params.LPlusEpsilon+params.BitsIntModN)
}

// IntervalScalar samples from ± 2^|q|, where q is the order of group.
//
// Challenges are derived with this function from a transcript output stream.
func IntervalScalar(rand io.Reader, group curve.Curve) *saferith.Int {
	return signedBits(rand, group.ScalarBits())
}
