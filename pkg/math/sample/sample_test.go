package sample

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 32; i++ {
		x := ModN(rand.Reader, n)
		_, _, lt := x.CmpMod(n)
		assert.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= %v: %v", n, x)
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 32; i++ {
		u, err := TryUnitModN(rand.Reader, n)
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), u.IsUnit(n))
	}
}

// zeroReader produces only zeros, so every candidate is 0 and never a unit.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestUnitModNGivesUp(t *testing.T) {
	n := saferith.ModulusFromUint64(15)
	_, err := TryUnitModN(zeroReader{}, n)
	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Panics(t, func() { UnitModN(zeroReader{}, n) })
}

func TestQNR(t *testing.T) {
	// 7 * 11, both 3 mod 4
	n := saferith.ModulusFromUint64(77)
	for i := 0; i < 16; i++ {
		w := QNR(rand.Reader, n)
		assert.Equal(t, -1, big.Jacobi(w.Big(), n.Big()))
	}
}

func TestIntervals(t *testing.T) {
	for i := 0; i < 16; i++ {
		assert.LessOrEqual(t, IntervalL(rand.Reader).Abs().TrueLen(), params.L)
		assert.LessOrEqual(t, IntervalLPrime(rand.Reader).Abs().TrueLen(), params.LPrime)
		assert.LessOrEqual(t, IntervalLEps(rand.Reader).Abs().TrueLen(), params.LPlusEpsilon)
		assert.LessOrEqual(t, IntervalLPrimeEps(rand.Reader).Abs().TrueLen(), params.LPrimePlusEpsilon)
		assert.LessOrEqual(t, IntervalLN(rand.Reader).Abs().TrueLen(), params.L+params.BitsIntModN)
		assert.LessOrEqual(t, IntervalLEpsN(rand.Reader).Abs().TrueLen(), params.LPlusEpsilon+params.BitsIntModN)
		assert.LessOrEqual(t, IntervalScalar(rand.Reader, curve.Secp256k1{}).Abs().TrueLen(), 256)
	}
}

func TestIntervalsHitBothSigns(t *testing.T) {
	var neg, pos bool
	for i := 0; i < 64 && !(neg && pos); i++ {
		if IntervalL(rand.Reader).IsNegative() == 1 {
			neg = true
		} else {
			pos = true
		}
	}
	assert.True(t, neg)
	assert.True(t, pos)
}

func TestScalarDeterministic(t *testing.T) {
	group := curve.Secp256k1{}
	seed := bytes.Repeat([]byte{0xAB}, 2*group.SafeScalarBytes())
	a := Scalar(bytes.NewReader(seed), group)
	b := Scalar(bytes.NewReader(seed), group)
	assert.True(t, a.Equal(b))
	assert.False(t, a.IsZero())
}

func TestBlumPrimes(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	p, q, err := BlumPrimes(rand.Reader, pl)
	require.NoError(t, err)
	assert.NotEqual(t, saferith.Choice(1), p.Eq(q))
	for _, x := range []*saferith.Nat{p, q} {
		b := x.Big()
		assert.Equal(t, params.BitsBlumPrime, b.BitLen())
		assert.True(t, b.ProbablyPrime(20))
		assert.Equal(t, uint64(3), new(big.Int).Mod(b, big.NewInt(4)).Uint64())
	}
}

func TestSafeBlumPrimes(t *testing.T) {
	if testing.Short() {
		t.Skip("safe prime generation is slow")
	}
	pl := pool.NewPool(0)
	defer pl.TearDown()

	p, q, err := SafeBlumPrimes(rand.Reader, pl)
	require.NoError(t, err)
	for _, x := range []*saferith.Nat{p, q} {
		b := x.Big()
		assert.True(t, b.ProbablyPrime(20))
		half := new(big.Int).Rsh(b, 1)
		assert.True(t, half.ProbablyPrime(20), "p isn't safe because (p - 1) / 2 isn't prime")
	}
}

func TestPrimeSearchFailsOnBrokenRandomness(t *testing.T) {
	_, _, err := SafeBlumPrimes(failingReader{}, nil)
	assert.ErrorIs(t, err, ErrPrimeSearch)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultNat *saferith.Nat

func BenchmarkModN(b *testing.B) {
	b.StopTimer()
	nBytes := make([]byte, (params.BitsPaillier+7)/8)
	_, _ = rand.Read(nBytes)
	n := saferith.ModulusFromBytes(nBytes)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		resultNat = ModN(rand.Reader, n)
	}
}
