package zkmod

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/internal/test"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
)

func TestMod(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	party, _ := test.Parties()
	public, private := ForSecretKey(party.Paillier)

	proof, err := NewProof(hash.New(), public, private, pl)
	require.NoError(t, err)
	assert.True(t, proof.Verify(hash.New(), public, pl))

	out, err := cbor.Marshal(proof)
	require.NoError(t, err, "failed to marshal proof")
	proof2 := &Proof{}
	require.NoError(t, cbor.Unmarshal(out, proof2), "failed to unmarshal proof")
	assert.True(t, proof2.Verify(hash.New(), public, pl), "failed to verify unmarshalled proof")
}

func TestModRejects(t *testing.T) {
	party, other := test.Parties()
	public, private := ForSecretKey(party.Paillier)
	otherPublic, _ := ForSecretKey(other.Paillier)

	proof, err := NewProof(hash.New(), public, private, nil)
	require.NoError(t, err)

	assert.False(t, proof.Verify(hash.New(), otherPublic, nil), "proof verifies for another modulus")

	session := hash.New()
	require.NoError(t, session.WriteAny([]byte("session")))
	assert.False(t, proof.Verify(session, public, nil), "proof verifies in another session")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	two := new(saferith.Nat).SetUint64(2)
	mutations := map[string]func(p *Proof){
		"W": func(p *Proof) { p.W.ModMul(p.W, two, public.N) },
		"X": func(p *Proof) { p.Responses[2].X.ModMul(p.Responses[2].X, two, public.N) },
		"Z": func(p *Proof) { p.Responses[7].Z.ModMul(p.Responses[7].Z, two, public.N) },
		"A": func(p *Proof) { p.Responses[0].A = !p.Responses[0].A },
	}
	for name, mutate := range mutations {
		p := &Proof{}
		require.NoError(t, cbor.Unmarshal(data, p))
		mutate(p)
		assert.False(t, p.Verify(hash.New(), public, nil), "mutated %s still verifies", name)
	}
}

func TestModMismatchedFactors(t *testing.T) {
	party, other := test.Parties()
	public, _ := ForSecretKey(party.Paillier)
	_, private := ForSecretKey(other.Paillier)

	_, err := NewProof(hash.New(), public, private, nil)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)
}

func TestFourthRoot(t *testing.T) {
	// 7 and 11 are Blum primes, 4 is a square mod 77
	p := new(saferith.Nat).SetUint64(7)
	q := new(saferith.Nat).SetUint64(11)
	phi := new(saferith.Nat).SetUint64(60)
	n := saferith.ModulusFromUint64(77)

	qr := new(saferith.Nat).SetUint64(4)
	e := fourthRootExponent(phi)
	x := new(saferith.Nat).Exp(qr, e, n)
	x.ModMul(x, x, n)
	x.ModMul(x, x, n)
	assert.Equal(t, saferith.Choice(1), x.Eq(qr))

	w := new(saferith.Nat).SetUint64(2)
	pHalf := new(saferith.Nat).SetUint64(3)
	qHalf := new(saferith.Nat).SetUint64(5)
	for y := uint64(1); y < 77; y++ {
		if y%7 == 0 || y%11 == 0 {
			continue
		}
		yNat := new(saferith.Nat).SetUint64(y)
		_, _, yPrime := makeQuadraticResidue(yNat, w, pHalf, qHalf, n, saferith.ModulusFromNat(p), saferith.ModulusFromNat(q))
		assert.Equal(t, saferith.Choice(1), isQR(yPrime, pHalf, qHalf, saferith.ModulusFromNat(p), saferith.ModulusFromNat(q)), "y = %d", y)
	}
}

func TestModMalformedModulus(t *testing.T) {
	party, _ := test.Parties()
	public, private := ForSecretKey(party.Paillier)
	proof, err := NewProof(hash.New(), public, private, nil)
	require.NoError(t, err)

	for name, n := range test.MalformedModuli() {
		bad := Public{N: n}
		assert.False(t, proof.Verify(hash.New(), bad, nil), name)
		_, err = NewProof(hash.New(), bad, private, nil)
		assert.ErrorIs(t, err, zk.ErrProofConstruction, name)
	}
}
