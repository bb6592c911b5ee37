package pedersen

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cronokirby/saferith"
	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
)

// ErrSetupFailure is wrapped by every error returned from Generate and FromSecretKey.
var ErrSetupFailure = errors.New("pedersen: setup failure")

// maxLambdaIterations bounds the search for λ ∈ ℤϕˣ.
// About half of the candidates are units when N is a product of safe primes,
// so exhausting this cap means the randomness source is broken.
const maxLambdaIterations = 1024

// Generate creates a fresh Paillier modulus N in the given mode, and returns
// Ring-Pedersen parameters over N along with their witness.
//
// A failure of the prime generation is returned as is, wrapped in ErrSetupFailure.
// Generate never falls back to a weaker mode.
func Generate(mode paillier.PrimeMode, rand io.Reader, pl *pool.Pool) (*Parameters, *Witness, error) {
	start := time.Now()
	_, sk, err := paillier.KeyGen(mode, rand, pl)
	if err != nil {
		Logger.WithError(err).WithField("mode", mode.String()).Error("pedersen: modulus generation failed")
		return nil, nil, fmt.Errorf("%w: %w", ErrSetupFailure, err)
	}
	Logger.WithFields(logrus.Fields{
		"mode":    mode.String(),
		"bits":    sk.N().BitLen(),
		"elapsed": time.Since(start),
	}).Debug("pedersen: generated modulus")

	return FromSecretKey(rand, sk)
}

// FromSecretKey derives Ring-Pedersen parameters from an existing Paillier secret key.
//
// s = τ² mod N for a random unit τ, and t = sˡ mod N for a random λ ∈ ℤϕˣ.
func FromSecretKey(rand io.Reader, sk *paillier.SecretKey) (*Parameters, *Witness, error) {
	if sk == nil {
		return nil, nil, fmt.Errorf("%w: nil secret key", ErrSetupFailure)
	}
	n := sk.Modulus()
	phi := sk.Phi()
	phiMod := saferith.ModulusFromNat(phi)

	tau, err := sample.TryUnitModN(rand, n.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: sample τ: %w", ErrSetupFailure, err)
	}
	// s = τ² mod N
	s := new(saferith.Nat).ModMul(tau, tau, n.Modulus)

	var lambda, lambdaInv *saferith.Nat
	retries := 0
	for ; retries < maxLambdaIterations; retries++ {
		candidate := sample.ModN(rand, phiMod)
		if candidate.IsUnit(phiMod) == 1 {
			lambda = candidate
			lambdaInv = new(saferith.Nat).ModInverse(candidate, phiMod)
			break
		}
	}
	if lambda == nil {
		Logger.WithField("iterations", maxLambdaIterations).Error("pedersen: no invertible λ found")
		return nil, nil, fmt.Errorf("%w: no λ coprime to ϕ after %d candidates", ErrSetupFailure, maxLambdaIterations)
	}

	// t = sˡ mod N
	t := n.Exp(s, lambda)

	if err = ValidateParameters(n.Modulus, s, t); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSetupFailure, err)
	}

	Logger.WithFields(logrus.Fields{
		"bits":    n.BitLen(),
		"retries": retries,
	}).Info("pedersen: generated Ring-Pedersen parameters")

	// the factorization stays with the secret key
	return New(arith.ModulusFromN(n.Modulus), s, t), &Witness{lambda: lambda, lambdaInv: lambdaInv, phi: phi}, nil
}
