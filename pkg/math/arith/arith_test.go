package arith

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/cmp-zk/internal/params"
)

func intFromInt64(x int64) *saferith.Int {
	neg := saferith.Choice(0)
	if x < 0 {
		neg = 1
		x = -x
	}
	return new(saferith.Int).SetNat(new(saferith.Nat).SetUint64(uint64(x))).Neg(neg)
}

func TestExpI_NonNegativeMatchesExp(t *testing.T) {
	m := saferith.ModulusFromUint64(3 * 11 * 65519)
	x := new(saferith.Nat).SetUint64(1234567)
	for _, e := range []int64{0, 1, 2, 17, 65537} {
		expected := new(saferith.Nat).Exp(x, new(saferith.Nat).SetUint64(uint64(e)), m)
		assert.True(t, expected.Eq(ExpI(x, intFromInt64(e), m)) == 1, "exponent %d", e)
	}
}

func TestExpI_NegativeIsInverse(t *testing.T) {
	m := saferith.ModulusFromUint64(3 * 11 * 65519)
	one := new(saferith.Nat).SetUint64(1)
	// 2 and 1234567 are both coprime to 3⋅11⋅65519
	for _, v := range []uint64{2, 1234567} {
		x := new(saferith.Nat).SetUint64(v)
		for _, e := range []int64{1, 5, 1000} {
			neg := ExpI(x, intFromInt64(-e), m)
			pos := ExpI(x, intFromInt64(e), m)
			require.False(t, IsDegenerate(neg))
			prod := new(saferith.Nat).ModMul(neg, pos, m)
			assert.True(t, prod.Eq(one) == 1, "x^-e * x^e should be 1 for x=%d, e=%d", v, e)
		}
	}
}

func TestExpI_NotInvertible(t *testing.T) {
	m := saferith.ModulusFromUint64(15)
	x := new(saferith.Nat).SetUint64(3)
	assert.True(t, IsDegenerate(ExpI(x, intFromInt64(-2), m)), "3 has no inverse mod 15")
	// positive exponents are unaffected
	assert.False(t, IsDegenerate(ExpI(x, intFromInt64(2), m)))
}

func TestExpI_EvenModulus(t *testing.T) {
	x := new(saferith.Nat).SetUint64(3)
	cases := []struct {
		n, pos uint64
	}{
		{16, 3},
		{1 << 20, 243},
		{10, 3},
		{12, 3},
	}
	for _, c := range cases {
		m := saferith.ModulusFromUint64(c.n)
		expected := new(saferith.Nat).SetUint64(c.pos)
		assert.True(t, expected.Eq(ExpI(x, intFromInt64(5), m)) == 1, "3^5 mod %d", c.n)
		assert.True(t, expected.Eq(ModulusFromN(m).ExpI(x, intFromInt64(5))) == 1, "3^5 mod %d", c.n)
	}

	// 3⁻⁵ ≡ 3⁻¹ ≡ 11 mod 16
	m := saferith.ModulusFromUint64(16)
	assert.True(t, new(saferith.Nat).SetUint64(11).Eq(ExpI(x, intFromInt64(-5), m)) == 1)
	// 3 has no inverse mod 12
	assert.True(t, IsDegenerate(ExpI(x, intFromInt64(-5), saferith.ModulusFromUint64(12))))
}

func TestIsValidNatModN(t *testing.T) {
	m := saferith.ModulusFromUint64(15)
	assert.True(t, IsValidNatModN(m, new(saferith.Nat).SetUint64(1), new(saferith.Nat).SetUint64(14)))
	assert.False(t, IsValidNatModN(m, new(saferith.Nat).SetUint64(0)))
	assert.False(t, IsValidNatModN(m, new(saferith.Nat).SetUint64(5)))
	assert.False(t, IsValidNatModN(m, new(saferith.Nat).SetUint64(16)))
	assert.False(t, IsValidNatModN(m, nil))
	assert.False(t, IsValidNatModN(nil, new(saferith.Nat).SetUint64(1)))
}

func TestIsInInterval(t *testing.T) {
	buf := make([]byte, params.LPlusEpsilon/8)
	_, _ = rand.Read(buf)
	inside := new(saferith.Int).SetNat(new(saferith.Nat).SetBytes(buf)).Neg(1)
	assert.True(t, IsInIntervalLEps(inside))

	outside := new(saferith.Nat).SetUint64(1)
	outside.Lsh(outside, params.LPlusEpsilon, -1)
	assert.False(t, IsInIntervalLEps(new(saferith.Int).SetNat(outside)))
	assert.True(t, IsInIntervalLPrimeEps(new(saferith.Int).SetNat(outside)))

	outside.Lsh(outside, params.LPrimePlusEpsilon-params.LPlusEpsilon, -1)
	assert.False(t, IsInIntervalLPrimeEps(new(saferith.Int).SetNat(outside).Neg(1)))
	assert.False(t, IsInIntervalLEps(nil))
}
