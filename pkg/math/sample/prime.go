package sample

import (
	"crypto/rand"
	"errors"
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/pool"
)

// ErrPrimeSearch is returned when no suitable prime could be found within the
// allotted number of candidates.
var ErrPrimeSearch = errors.New("sample: prime search exhausted")

// primes returns all odd primes below the given bound.
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	// roughly N / log N primes below N
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}
	return out
}

const (
	// width of the window scanned after each random starting point
	sieveSize = 1 << 18
	// small primes used for sieving are all below this bound
	primeBound = 1 << 20
	// Miller-Rabin rounds for the Sophie Germain half, same as Go's default
	blumPrimalityIterations = 20
	// number of sieve windows scanned before giving up on safe primes
	maxSafePrimeTries = 1 << 12
	// number of calls to crypto/rand.Prime before giving up on a Blum prime
	maxBlumPrimeTries = 1 << 10
)

var (
	thePrimes  []uint32
	initPrimes sync.Once
)

var sievePool = sync.Pool{
	New: func() interface{} {
		sieve := make([]bool, sieveSize)
		return &sieve
	},
}

// trySafeBlumPrime scans a window of candidates starting at a random point, and
// returns the first p such that p = 3 mod 4 and both p and (p-1)/2 are prime.
// It returns nil if the window contains no such p.
func trySafeBlumPrime(rand io.Reader) *saferith.Nat {
	initPrimes.Do(func() {
		thePrimes = primes(primeBound)
	})

	bytes := make([]byte, (params.BitsBlumPrime+7)/8)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		return nil
	}
	// p = 3 mod 4
	bytes[len(bytes)-1] |= 3
	// top two bits set, so that the product of two such primes has exactly twice the bits
	bytes[0] |= 0xC0
	base := new(big.Int).SetBytes(bytes)

	sievePtr := sievePool.Get().(*[]bool)
	sieve := *sievePtr
	defer sievePool.Put(sievePtr)
	for i := 0; i < len(sieve); i++ {
		sieve[i] = true
	}
	// only base + 4k can be 3 mod 4
	for i := 1; i+2 < len(sieve); i += 4 {
		sieve[i] = false
		sieve[i+1] = false
		sieve[i+2] = false
	}
	// x = 0 mod r means x is composite, x = 1 mod r means (x-1)/2 is composite.
	remainder := new(big.Int)
	for _, prime := range thePrimes {
		remainder.SetUint64(uint64(prime))
		remainder.Mod(base, remainder)
		r := int(remainder.Uint64())
		primeInt := int(prime)
		firstMultiple := primeInt - r
		if r == 0 {
			firstMultiple = 0
		}
		for i := firstMultiple; i+1 < len(sieve); i += primeInt {
			sieve[i] = false
			sieve[i+1] = false
		}
	}

	p := new(big.Int)
	q := new(big.Int)
	for delta := 0; delta < len(sieve); delta++ {
		if !sieve[delta] {
			continue
		}
		p.SetUint64(uint64(delta))
		p.Add(p, base)
		if p.BitLen() > params.BitsBlumPrime {
			return nil
		}
		q.Rsh(p, 1)
		// q failing is the likelier outcome, so check it first
		if !q.ProbablyPrime(blumPrimalityIterations) {
			continue
		}
		// a single Baillie-PSW round suffices once q is known to be prime
		if !p.ProbablyPrime(0) {
			continue
		}
		return new(saferith.Nat).SetBig(p, params.BitsBlumPrime)
	}
	return nil
}

// tryBlumPrime returns a random prime p of params.BitsBlumPrime bits with p = 3 mod 4,
// or nil if none was found after maxBlumPrimeTries attempts.
func tryBlumPrime(rand io.Reader) *saferith.Nat {
	for i := 0; i < maxBlumPrimeTries; i++ {
		p, err := cryptoPrime(rand, params.BitsBlumPrime)
		if err != nil {
			return nil
		}
		if p.Bit(0) == 1 && p.Bit(1) == 1 {
			return new(saferith.Nat).SetBig(p, params.BitsBlumPrime)
		}
	}
	return nil
}

// cryptoPrime is crypto/rand.Prime, which already sets the top two bits.
var cryptoPrime = rand.Prime

// SafeBlumPrimes returns two distinct safe Blum primes p, q, meaning p = 3 mod 4 and (p-1)/2 is prime.
//
// The search is spread over the pool, and fails with ErrPrimeSearch when the candidate budget runs out.
func SafeBlumPrimes(rand io.Reader, pl *pool.Pool) (p, q *saferith.Nat, err error) {
	return searchDistinct(rand, pl, maxSafePrimeTries, trySafeBlumPrime)
}

// BlumPrimes returns two distinct Blum primes p, q, meaning p = q = 3 mod 4.
//
// These are much faster to generate than safe primes, but only suitable where
// the proofs using the resulting modulus do not rely on the group structure of safe primes.
func BlumPrimes(rand io.Reader, pl *pool.Pool) (p, q *saferith.Nat, err error) {
	return searchDistinct(rand, pl, maxBlumPrimeTries, tryBlumPrime)
}

func searchDistinct(rand io.Reader, pl *pool.Pool, maxTries int, try func(io.Reader) *saferith.Nat) (p, q *saferith.Nat, err error) {
	reader := pool.NewLockedReader(rand)
	for attempt := 0; attempt < maxIterations; attempt++ {
		results, err := pl.Search(2, maxTries, func() interface{} {
			n := try(reader)
			// a typed nil would be counted as a result
			if n == nil {
				return nil
			}
			return n
		})
		if err != nil {
			return nil, nil, ErrPrimeSearch
		}
		p, q = results[0].(*saferith.Nat), results[1].(*saferith.Nat)
		if p.Eq(q) != 1 {
			return p, q, nil
		}
	}
	return nil, nil, ErrPrimeSearch
}
