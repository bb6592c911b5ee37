package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/taurusgroup/cmp-zk/pkg/pedersen"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
	zkmod "github.com/taurusgroup/cmp-zk/pkg/zk/mod"
	zkprm "github.com/taurusgroup/cmp-zk/pkg/zk/prm"
	"golang.org/x/crypto/sha3"
)

var errInvalidBundle = errors.New("rpgen: proofs do not verify")

// bundle is the file format written by generate.
type bundle struct {
	Mode   string               `cbor:"1,keyasint"`
	Params *pedersen.Parameters `cbor:"2,keyasint"`
	// Prm proves t = sˡ, then s = tˡ⁻¹
	Prm [2]*zkprm.Proof `cbor:"3,keyasint"`
	Mod *zkmod.Proof    `cbor:"4,keyasint"`
}

// fingerprint is a short identifier of the parameters, for comparing files out of band.
func (b *bundle) fingerprint() (string, error) {
	data, err := b.Params.MarshalBinary()
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// transcript binds every proof of a bundle to its parameters.
func transcript(aux *pedersen.Parameters) *hash.Hash {
	return hash.New(aux)
}

func newBundle(mode paillier.PrimeMode, pl *pool.Pool) (*bundle, error) {
	start := time.Now()
	_, sk, err := paillier.KeyGen(mode, rand.Reader, pl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pedersen.ErrSetupFailure, err)
	}
	aux, witness, err := pedersen.FromSecretKey(rand.Reader, sk)
	if err != nil {
		return nil, err
	}

	forward, backward := zkprm.Statements(aux)
	forwardWitness, backwardWitness := zkprm.Witnesses(witness)
	prmForward, err := zkprm.NewProof(transcript(aux), forward, forwardWitness, pl)
	if err != nil {
		return nil, err
	}
	prmBackward, err := zkprm.NewProof(transcript(aux), backward, backwardWitness, pl)
	if err != nil {
		return nil, err
	}

	modPublic, modPrivate := zkmod.ForSecretKey(sk)
	mod, err := zkmod.NewProof(transcript(aux), modPublic, modPrivate, pl)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"mode":    mode,
		"bits":    aux.N().BitLen(),
		"elapsed": time.Since(start),
	}).Info("generated parameters and proofs")

	return &bundle{
		Mode:   mode.String(),
		Params: aux,
		Prm:    [2]*zkprm.Proof{prmForward, prmBackward},
		Mod:    mod,
	}, nil
}

func (b *bundle) verify(pl *pool.Pool) bool {
	if b.Params == nil {
		return false
	}
	forward, backward := zkprm.Statements(b.Params)
	if !b.Prm[0].Verify(transcript(b.Params), forward, pl) {
		return false
	}
	if !b.Prm[1].Verify(transcript(b.Params), backward, pl) {
		return false
	}
	return b.Mod.Verify(transcript(b.Params), zkmod.Public{N: b.Params.N()}, pl)
}

func generate(mode paillier.PrimeMode, workers int, path string) error {
	pl := pool.NewPool(workers)
	defer pl.TearDown()

	b, err := newBundle(mode, pl)
	if err != nil {
		return err
	}
	data, err := cbor.Marshal(b)
	if err != nil {
		return fmt.Errorf("rpgen: encode: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("rpgen: %w", err)
	}
	fp, err := b.fingerprint()
	if err != nil {
		return fmt.Errorf("rpgen: %w", err)
	}
	logrus.WithFields(logrus.Fields{"file": path, "fingerprint": fp}).Info("wrote parameters")
	return nil
}

func verify(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rpgen: %w", err)
	}
	var b bundle
	if err = cbor.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("rpgen: decode: %w", err)
	}

	pl := pool.NewPool(0)
	defer pl.TearDown()
	if !b.verify(pl) {
		return errInvalidBundle
	}
	fp, err := b.fingerprint()
	if err != nil {
		return fmt.Errorf("rpgen: %w", err)
	}
	logrus.WithFields(logrus.Fields{"file": path, "mode": b.Mode, "fingerprint": fp}).Info("parameters verified")
	return nil
}
