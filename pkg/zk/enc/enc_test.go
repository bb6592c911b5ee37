package zkenc

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/internal/test"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
)

func newStatement(k *saferith.Int) (Public, Private) {
	prover, verifier := test.Parties()
	K, rho := prover.Paillier.Enc(k)
	public := Public{
		K:      K,
		Prover: prover.Paillier.PublicKey,
		Aux:    verifier.Pedersen,
	}
	return public, Private{K: k, Rho: rho}
}

func TestEnc(t *testing.T) {
	group := curve.Secp256k1{}
	public, private := newStatement(sample.IntervalL(rand.Reader))

	proof, err := NewProof(group, hash.New(), public, private)
	require.NoError(t, err)
	assert.True(t, proof.Verify(group, hash.New(), public))

	out, err := cbor.Marshal(proof)
	require.NoError(t, err, "failed to marshal proof")
	proof2 := Empty()
	require.NoError(t, cbor.Unmarshal(out, proof2), "failed to unmarshal proof")
	assert.True(t, proof2.Verify(group, hash.New(), public), "failed to verify unmarshalled proof")
}

func TestEncRejects(t *testing.T) {
	group := curve.Secp256k1{}
	public, private := newStatement(sample.IntervalL(rand.Reader))
	proof, err := NewProof(group, hash.New(), public, private)
	require.NoError(t, err)

	other, _ := newStatement(sample.IntervalL(rand.Reader))
	assert.False(t, proof.Verify(group, hash.New(), other), "proof verifies for another ciphertext")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	one := new(saferith.Int).SetUint64(1)
	two := new(saferith.Nat).SetUint64(2)
	mutations := map[string]func(p *Proof){
		"A":  func(p *Proof) { p.A.Randomize(public.Prover, nil) },
		"S":  func(p *Proof) { p.S.ModMul(p.S, public.Aux.S(), public.Aux.N()) },
		"C":  func(p *Proof) { p.C.ModMul(p.C, public.Aux.S(), public.Aux.N()) },
		"Z1": func(p *Proof) { p.Z1.Add(p.Z1, one, -1) },
		"Z2": func(p *Proof) { p.Z2.ModMul(p.Z2, two, public.Prover.N()) },
		"Z3": func(p *Proof) { p.Z3.Add(p.Z3, one, -1) },
	}
	for name, mutate := range mutations {
		p := Empty()
		require.NoError(t, cbor.Unmarshal(data, p))
		mutate(p)
		assert.False(t, p.Verify(group, hash.New(), public), "mutated %s still verifies", name)
	}
}

func TestEncOutOfRange(t *testing.T) {
	group := curve.Secp256k1{}
	k := new(saferith.Int).SetNat(new(saferith.Nat).Lsh(new(saferith.Nat).SetUint64(1), 1000, -1))
	public, private := newStatement(k)

	proof, err := NewProof(group, hash.New(), public, private)
	require.NoError(t, err)
	assert.False(t, proof.Verify(group, hash.New(), public))
}

func TestEncConstructionFailure(t *testing.T) {
	group := curve.Secp256k1{}
	public, private := newStatement(sample.IntervalL(rand.Reader))
	private.Rho = new(saferith.Nat).SetUint64(0)
	_, err := NewProof(group, hash.New(), public, private)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)
}

func TestEncMalformedModulus(t *testing.T) {
	group := curve.Secp256k1{}
	public, private := newStatement(sample.IntervalL(rand.Reader))
	proof, err := NewProof(group, hash.New(), public, private)
	require.NoError(t, err)

	check := func(name string, bad Public) {
		assert.False(t, proof.Verify(group, hash.New(), bad), name)
		_, err := NewProof(group, hash.New(), bad, private)
		assert.ErrorIs(t, err, zk.ErrProofConstruction, name)
	}
	for name, pk := range test.MalformedKeys() {
		bad := public
		bad.Prover = pk
		check("Prover "+name, bad)
	}
	for name, aux := range test.MalformedAux() {
		bad := public
		bad.Aux = aux
		check("Aux "+name, bad)
	}
}
