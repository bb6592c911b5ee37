package nizk

import (
	"context"
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
	zkaffg "github.com/taurusgroup/cmp-zk/pkg/zk/affg"
	zkdec "github.com/taurusgroup/cmp-zk/pkg/zk/dec"
	zklogstar "github.com/taurusgroup/cmp-zk/pkg/zk/logstar"
	zkmul "github.com/taurusgroup/cmp-zk/pkg/zk/mul"
	zkmulstar "github.com/taurusgroup/cmp-zk/pkg/zk/mulstar"
)

type statement struct {
	public  zk.Statement
	private zk.Witness
}

// statements returns a valid statement and witness for every kind.
func statements(group curve.Curve) map[zk.Kind]statement {
	prover, verifier := test.Parties()
	pk0 := verifier.Paillier.PublicKey
	pk1 := prover.Paillier.PublicKey
	aux := verifier.Pedersen

	out := make(map[zk.Kind]statement, len(zk.Kinds()))

	{
		x := sample.IntervalL(rand.Reader)
		y := sample.IntervalLPrime(rand.Reader)
		C, _ := pk0.Enc(sample.IntervalLEps(rand.Reader))
		D, rho := pk0.Enc(y)
		D.Add(pk0, C.Clone().Mul(pk0, x))
		Y, rhoY := pk1.Enc(y)
		out[zk.AffG] = statement{
			zkaffg.Public{C: C, D: D, Y: Y, X: zk.IntToScalar(group, x).ActOnBase(), Prover: pk1, Verifier: pk0, Aux: aux},
			zkaffg.Private{X: x, Y: y, Rho: rho, RhoY: rhoY},
		}
	}
	{
		y := sample.IntervalL(rand.Reader)
		C, rho := pk1.Enc(y)
		out[zk.Dec] = statement{
			zkdec.Public{C: C, X: zk.IntToScalar(group, y), Prover: pk1, Aux: aux},
			zkdec.Private{Y: y, Rho: rho},
		}
	}
	{
		x := sample.IntervalL(rand.Reader)
		C, rho := pk1.Enc(x)
		out[zk.LogStar] = statement{
			zklogstar.Public{C: C, X: zk.IntToScalar(group, x).ActOnBase(), Prover: pk1, Aux: aux},
			zklogstar.Private{X: x, Rho: rho},
		}
	}
	{
		x := sample.IntervalL(rand.Reader)
		X, rhoX := pk1.Enc(x)
		Y, _ := pk1.Enc(sample.IntervalL(rand.Reader))
		C := Y.Clone().Mul(pk1, x)
		rho := C.Randomize(pk1, nil)
		out[zk.Mul] = statement{
			zkmul.Public{X: X, Y: Y, C: C, Prover: pk1},
			zkmul.Private{X: x, Rho: rho, RhoX: rhoX},
		}
	}
	{
		x := sample.IntervalL(rand.Reader)
		C, _ := pk0.Enc(sample.IntervalL(rand.Reader))
		D := C.Clone().Mul(pk0, x)
		rho := D.Randomize(pk0, nil)
		out[zk.MulStar] = statement{
			zkmulstar.Public{C: C, D: D, X: zk.IntToScalar(group, x).ActOnBase(), Verifier: pk0, Aux: aux},
			zkmulstar.Private{X: x, Rho: rho},
		}
	}
	return out
}

func TestProveVerify(t *testing.T) {
	group := curve.Secp256k1{}
	for kind, s := range statements(group) {
		t.Run(kind.String(), func(t *testing.T) {
			proof, err := Prove(group, hash.New(), s.public, s.private)
			require.NoError(t, err)
			assert.Equal(t, kind, proof.Kind())
			assert.Equal(t, zk.Verified, Verify(group, hash.New(), s.public, proof))

			data, err := cbor.Marshal(proof)
			require.NoError(t, err)
			decoded, err := Empty(kind, group)
			require.NoError(t, err)
			require.NoError(t, cbor.Unmarshal(data, decoded))
			assert.Equal(t, zk.Verified, Verify(group, hash.New(), s.public, decoded))
		})
	}
}

func TestProveKindMismatch(t *testing.T) {
	group := curve.Secp256k1{}
	all := statements(group)

	_, err := Prove(group, hash.New(), all[zk.Dec].public, all[zk.LogStar].private)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)

	_, err = Prove(group, hash.New(), nil, all[zk.Dec].private)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)

	_, err = Prove(group, nil, all[zk.Dec].public, all[zk.Dec].private)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)
}

func TestProveFailure(t *testing.T) {
	group := curve.Secp256k1{}
	s := statements(group)[zk.LogStar]
	private := s.private.(zklogstar.Private)
	private.Rho = new(saferith.Nat).SetUint64(0)

	proof, err := Prove(group, hash.New(), s.public, private)
	assert.ErrorIs(t, err, zk.ErrProofConstruction)
	assert.Nil(t, proof)
}

func TestVerifyRejects(t *testing.T) {
	group := curve.Secp256k1{}
	all := statements(group)
	s := all[zk.Mul]
	proof, err := Prove(group, hash.New(), s.public, s.private)
	require.NoError(t, err)

	assert.Equal(t, zk.Rejected, Verify(group, hash.New(), all[zk.Dec].public, proof), "kind mismatch")
	assert.Equal(t, zk.Rejected, Verify(group, hash.New(), s.public, nil), "nil proof")
	assert.Equal(t, zk.Rejected, Verify(group, hash.New(), s.public, &zkmul.Proof{}), "empty proof")
	assert.Equal(t, zk.Rejected, Verify(group, hash.New(), zkmul.Public{}, proof), "empty statement")
	assert.NotPanics(t, func() {
		Verify(group, hash.New(), s.public, (*zkmul.Proof)(nil))
	})
}

func TestEmptyUnknownKind(t *testing.T) {
	_, err := Empty(zk.Kind(0), curve.Secp256k1{})
	assert.Error(t, err)
}

func TestVerifyAll(t *testing.T) {
	group := curve.Secp256k1{}
	session := hash.New()
	require.NoError(t, session.WriteAny([]byte("batch")))

	var jobs []Job
	for _, s := range statements(group) {
		proof, err := Prove(group, session.Clone(), s.public, s.private)
		require.NoError(t, err)
		jobs = append(jobs, Job{Statement: s.public, Proof: proof})
	}

	outcome, err := VerifyAll(context.Background(), group, session, jobs)
	require.NoError(t, err)
	assert.Equal(t, zk.Verified, outcome)

	// the transcript of the caller is left untouched
	outcome, err = VerifyAll(context.Background(), group, session, jobs)
	require.NoError(t, err)
	assert.Equal(t, zk.Verified, outcome)

	outcome, err = VerifyAll(context.Background(), group, hash.New(), jobs)
	require.NoError(t, err)
	assert.Equal(t, zk.Rejected, outcome, "batch verifies in another session")

	outcome, err = VerifyAll(context.Background(), group, session, nil)
	require.NoError(t, err)
	assert.Equal(t, zk.Verified, outcome)
}

func TestVerifyAllOneMutated(t *testing.T) {
	group := curve.Secp256k1{}
	var jobs []Job
	for _, s := range statements(group) {
		proof, err := Prove(group, hash.New(), s.public, s.private)
		require.NoError(t, err)
		jobs = append(jobs, Job{Statement: s.public, Proof: proof})
	}

	for i, job := range jobs {
		if p, ok := job.Proof.(*zkdec.Proof); ok {
			mutated := *p
			mutated.Z1 = new(saferith.Int).Add(p.Z1, new(saferith.Int).SetUint64(1), -1)
			jobs[i].Proof = &mutated
		}
	}

	outcome, err := VerifyAll(context.Background(), group, hash.New(), jobs)
	require.NoError(t, err)
	assert.Equal(t, zk.Rejected, outcome)
}

func TestVerifyAllCancelled(t *testing.T) {
	group := curve.Secp256k1{}
	s := statements(group)[zk.LogStar]
	proof, err := Prove(group, hash.New(), s.public, s.private)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := VerifyAll(ctx, group, hash.New(), []Job{{Statement: s.public, Proof: proof}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, zk.Rejected, outcome)
}
