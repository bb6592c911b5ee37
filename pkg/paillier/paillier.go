package paillier

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/pkg/math/sample"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
)

// PrimeMode selects how the factors of a Paillier modulus are generated.
type PrimeMode int

const (
	// SafePrimes generates p, q such that p = 3 mod 4 and (p-1)/2 is prime.
	SafePrimes PrimeMode = iota
	// NormalPrimes only requires p = 3 mod 4, and is considerably faster.
	NormalPrimes
)

func (m PrimeMode) String() string {
	switch m {
	case SafePrimes:
		return "safe"
	case NormalPrimes:
		return "normal"
	default:
		return fmt.Sprintf("PrimeMode(%d)", int(m))
	}
}

// ParsePrimeMode is the inverse of PrimeMode.String.
func ParsePrimeMode(s string) (PrimeMode, error) {
	switch s {
	case "safe":
		return SafePrimes, nil
	case "normal":
		return NormalPrimes, nil
	default:
		return 0, fmt.Errorf("paillier: unknown prime mode %q", s)
	}
}

var (
	ErrPrimeBadLength = errors.New("prime factor is not the right length")
	ErrNotBlum        = errors.New("prime factor is not equivalent to 3 (mod 4)")
	ErrNotPrime       = errors.New("supposed prime factor is not prime")
	ErrNotSafePrime   = errors.New("supposed prime factor is not a safe prime")
	ErrPrimeNil       = errors.New("prime is nil")
	ErrUnknownMode    = errors.New("unknown prime mode")
	ErrInvalidModulus = errors.New("paillier: N must be odd and have exactly BitsPaillier bits")
	ErrValueTooLarge  = errors.New("paillier: value does not fit in its encoding")
)

// KeyGen generates a new PublicKey and its associated SecretKey, with factors chosen according to mode.
func KeyGen(mode PrimeMode, rand io.Reader, pl *pool.Pool) (*PublicKey, *SecretKey, error) {
	var (
		p, q *saferith.Nat
		err  error
	)
	switch mode {
	case SafePrimes:
		p, q, err = sample.SafeBlumPrimes(rand, pl)
	case NormalPrimes:
		p, q, err = sample.BlumPrimes(rand, pl)
	default:
		return nil, nil, fmt.Errorf("paillier: %w: %d", ErrUnknownMode, int(mode))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("paillier: generate %s primes: %w", mode, err)
	}
	sk := NewSecretKeyFromPrimes(p, q)
	return sk.PublicKey, sk, nil
}
