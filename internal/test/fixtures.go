// Package test holds fixtures shared by the tests of several packages.
package test

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/taurusgroup/cmp-zk/pkg/pedersen"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
)

// Party bundles the key material of a single participant.
type Party struct {
	Paillier *paillier.SecretKey
	Pedersen *pedersen.Parameters
	Witness  *pedersen.Witness
}

var (
	parties     [2]*Party
	partiesOnce sync.Once
)

func generateParty(pl *pool.Pool) *Party {
	_, sk, err := paillier.KeyGen(paillier.NormalPrimes, rand.Reader, pl)
	if err != nil {
		panic(err)
	}
	ped, wit, err := pedersen.FromSecretKey(rand.Reader, sk)
	if err != nil {
		panic(err)
	}
	return &Party{Paillier: sk, Pedersen: ped, Witness: wit}
}

// Parties returns two parties with distinct 2048 bit Paillier moduli and Ring-Pedersen parameters.
//
// Keys use NormalPrimes and are generated once per test binary.
func Parties() (prover, verifier *Party) {
	partiesOnce.Do(func() {
		pl := pool.NewPool(0)
		defer pl.TearDown()
		parties[0] = generateParty(pl)
		parties[1] = generateParty(pl)
	})
	return parties[0], parties[1]
}

// shifted returns n + 2ᵏ.
func shifted(n *saferith.Modulus, k uint) *saferith.Modulus {
	b := new(big.Int).Lsh(big.NewInt(1), k)
	b.Add(b, n.Big())
	return saferith.ModulusFromNat(new(saferith.Nat).SetBig(b, b.BitLen()))
}

// MalformedModuli returns moduli that paillier.ValidateN refuses, keyed by a short description.
func MalformedModuli() map[string]*saferith.Modulus {
	prover, _ := Parties()
	n := prover.Paillier.N()
	return map[string]*saferith.Modulus{
		"N = 4":   saferith.ModulusFromUint64(4),
		"N = 2²⁰": saferith.ModulusFromUint64(1 << 20),
		"N = 2⁶²": saferith.ModulusFromUint64(1 << 62),
		"N = 77":  saferith.ModulusFromUint64(77),
		"even N":  shifted(n, 0),
		"long N":  shifted(n, params.BitsPaillier),
	}
}

// MalformedKeys returns a Paillier public key for each of MalformedModuli.
func MalformedKeys() map[string]*paillier.PublicKey {
	keys := make(map[string]*paillier.PublicKey)
	for name, n := range MalformedModuli() {
		keys[name] = paillier.NewPublicKey(n)
	}
	return keys
}

// MalformedAux returns Ring-Pedersen parameters over each of MalformedModuli, with s = 4 and t = 16.
func MalformedAux() map[string]*pedersen.Parameters {
	aux := make(map[string]*pedersen.Parameters)
	for name, n := range MalformedModuli() {
		aux[name] = pedersen.New(arith.ModulusFromN(n), new(saferith.Nat).SetUint64(4), new(saferith.Nat).SetUint64(16))
	}
	return aux
}
