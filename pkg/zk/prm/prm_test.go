package zkprm

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

func TestPrm(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	party, _ := test.Parties()
	forward, backward := Statements(party.Pedersen)
	forwardWitness, backwardWitness := Witnesses(party.Witness)

	cases := map[string]struct {
		public  Public
		private Private
	}{
		"t = s^lambda":   {forward, forwardWitness},
		"s = t^lambda-1": {backward, backwardWitness},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			proof, err := NewProof(hash.New(), c.public, c.private, pl)
			require.NoError(t, err)
			assert.True(t, proof.Verify(hash.New(), c.public, pl))

			out, err := cbor.Marshal(proof)
			require.NoError(t, err, "failed to marshal proof")
			proof2 := &Proof{}
			require.NoError(t, cbor.Unmarshal(out, proof2), "failed to unmarshal proof")
			assert.True(t, proof2.Verify(hash.New(), c.public, pl), "failed to verify unmarshalled proof")
		})
	}
}

func TestPrmWrongWitness(t *testing.T) {
	party, _ := test.Parties()
	forward, _ := Statements(party.Pedersen)
	_, backwardWitness := Witnesses(party.Witness)

	// λ⁻¹ does not open t in base s, unless λ² = 1 mod ϕ.
	proof, err := NewProof(hash.New(), forward, backwardWitness, nil)
	require.NoError(t, err)
	assert.False(t, proof.Verify(hash.New(), forward, nil))
}

func TestPrmMutations(t *testing.T) {
	party, other := test.Parties()
	forward, _ := Statements(party.Pedersen)
	witness, _ := Witnesses(party.Witness)

	proof, err := NewProof(hash.New(), forward, witness, nil)
	require.NoError(t, err)

	otherForward, _ := Statements(other.Pedersen)
	assert.False(t, proof.Verify(hash.New(), otherForward, nil), "proof verifies for other parameters")

	session := hash.New()
	require.NoError(t, session.WriteAny([]byte("session")))
	assert.False(t, proof.Verify(session, forward, nil), "proof verifies in another session")

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	one := new(saferith.Nat).SetUint64(1)
	mutations := map[string]func(p *Proof){
		"A":     func(p *Proof) { p.A[3].ModMul(p.A[3], forward.S, forward.N) },
		"Z":     func(p *Proof) { p.Z[5].Add(p.Z[5], one, -1) },
		"A one": func(p *Proof) { p.A[0] = new(saferith.Nat).SetUint64(1) },
		"nil Z": func(p *Proof) { p.Z[1] = nil },
	}
	for name, mutate := range mutations {
		p := &Proof{}
		require.NoError(t, cbor.Unmarshal(data, p))
		mutate(p)
		assert.False(t, p.Verify(hash.New(), forward, nil), "mutated %s still verifies", name)
	}
}

func TestPrmInvalidStatement(t *testing.T) {
	party, _ := test.Parties()
	forward, _ := Statements(party.Pedersen)
	witness, _ := Witnesses(party.Witness)

	forward.T = forward.S
	_, err := NewProof(hash.New(), forward, witness, nil)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)
}

func TestPrmMalformedModulus(t *testing.T) {
	party, _ := test.Parties()
	forward, _ := Statements(party.Pedersen)
	witness, _ := Witnesses(party.Witness)
	proof, err := NewProof(hash.New(), forward, witness, nil)
	require.NoError(t, err)

	for name, aux := range test.MalformedAux() {
		bad, _ := Statements(aux)
		assert.False(t, proof.Verify(hash.New(), bad, nil), name)
		_, err = NewProof(hash.New(), bad, witness, nil)
		assert.ErrorIs(t, err, zk.ErrProofConstruction, name)
	}
}
