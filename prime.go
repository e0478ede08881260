package ffdh

import (
	"io"
	"math/big"
)

// sievePrimes are the odd primes below 1000. Candidates divisible by any of
// them are discarded before the probabilistic test.
var sievePrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307, 311, 313, 317,
	331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409, 419,
	421, 431, 433, 439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503,
	509, 521, 523, 541, 547, 557, 563, 569, 571, 577, 587, 593, 599, 601, 607,
	613, 617, 619, 631, 641, 643, 647, 653, 659, 661, 673, 677, 683, 691, 701,
	709, 719, 727, 733, 739, 743, 751, 757, 761, 769, 773, 787, 797, 809, 811,
	821, 823, 827, 829, 839, 853, 857, 859, 863, 877, 881, 883, 887, 907, 911,
	919, 929, 937, 941, 947, 953, 967, 971, 977, 983, 991, 997,
}

// sieved reports whether n has a small factor other than itself.
func sieved(n *big.Int) bool {
	m := new(big.Int)
	d := new(big.Int)
	for _, sp := range sievePrimes {
		d.SetUint64(sp)
		if n.Cmp(d) == 0 {
			return false
		}
		if m.Mod(n, d).Sign() == 0 {
			return true
		}
	}
	return false
}

func isPrime(n *big.Int, rounds int) bool {
	return !sieved(n) && n.ProbablyPrime(rounds)
}

// checkGroupSafety applies the checks SetParamsChecked runs on untrusted
// parameters. With q: p and q prime, q divides p-1 and g^q = 1 mod p.
// Without q: p is a safe prime and g generates the subgroup of order
// (p-1)/2, so no bit of the private value leaks through the order-2
// subgroup.
func checkGroupSafety(gp GroupParams, cfg Config) error {
	if bits := gp.P.BitLen(); bits < cfg.MinModulusBits {
		return wrapf(ErrWeakParams, "modulus of %d bits below minimum %d", bits, cfg.MinModulusBits)
	}
	if !isPrime(gp.P, cfg.PrimalityRounds) {
		return wrapf(ErrWeakParams, "p is not prime")
	}
	pm1 := new(big.Int).Sub(gp.P, one)
	if gp.HasQ() {
		if !isPrime(gp.Q, cfg.PrimalityRounds) {
			return wrapf(ErrWeakParams, "q is not prime")
		}
		if new(big.Int).Mod(pm1, gp.Q).Sign() != 0 {
			return wrapf(ErrWeakParams, "q does not divide p-1")
		}
		if new(big.Int).Exp(gp.G, gp.Q, gp.P).Cmp(one) != 0 {
			return wrapf(ErrWeakParams, "g does not generate the order-q subgroup")
		}
		return nil
	}
	if gp.G.Cmp(pm1) == 0 {
		return wrapf(ErrWeakParams, "g generates a subgroup of order 2")
	}
	half := new(big.Int).Rsh(gp.P, 1)
	if !isPrime(half, cfg.PrimalityRounds) {
		return wrapf(ErrWeakParams, "p is not a safe prime")
	}
	if new(big.Int).Exp(gp.G, half, gp.P).Cmp(one) != 0 {
		return wrapf(ErrWeakParams, "g does not generate the subgroup of order (p-1)/2")
	}
	return nil
}

// readCandidate fills buf from rng and returns it as an integer of exactly
// bits bits (top bit forced). buf must be (bits+7)/8 bytes.
func readCandidate(rng io.Reader, buf []byte, bits int) (*big.Int, error) {
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, wrapf(ErrRandomUnavailable, "read: %v", err)
	}
	excess := uint(len(buf)*8 - bits)
	buf[0] &= byte(0xff >> excess)
	buf[0] |= byte(0x80 >> excess)
	return new(big.Int).SetBytes(buf), nil
}

// searchPrime returns a random prime of exactly bits bits.
func searchPrime(cfg Config, bits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	for i := 0; i < cfg.MaxGenerationAttempts; i++ {
		n, err := readCandidate(cfg.Random, buf, bits)
		if err != nil {
			return nil, err
		}
		n.SetBit(n, 0, 1)
		if isPrime(n, cfg.PrimalityRounds) {
			return n, nil
		}
	}
	return nil, wrapf(ErrGenerationTimeout, "no %d-bit prime after %d attempts", bits, cfg.MaxGenerationAttempts)
}

// searchModulus returns a prime p of exactly bits bits with p = 1 mod 2q.
func searchModulus(cfg Config, q *big.Int, bits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	q2 := new(big.Int).Lsh(q, 1)
	r := new(big.Int)
	for i := 0; i < cfg.MaxGenerationAttempts; i++ {
		x, err := readCandidate(cfg.Random, buf, bits)
		if err != nil {
			return nil, err
		}
		r.Mod(x, q2)
		p := x.Sub(x, r)
		p.Add(p, one)
		if p.BitLen() != bits {
			continue
		}
		if isPrime(p, cfg.PrimalityRounds) {
			log.Debugf("ffdh: %d-bit modulus found after %d candidates", bits, i+1)
			return p, nil
		}
	}
	return nil, wrapf(ErrGenerationTimeout, "no %d-bit modulus after %d attempts", bits, cfg.MaxGenerationAttempts)
}

// findGenerator returns h^((p-1)/q) mod p for the first h >= 2 whose result
// is not 1.
func findGenerator(p, q *big.Int, attempts int) (*big.Int, error) {
	e := new(big.Int).Sub(p, one)
	e.Div(e, q)
	h := big.NewInt(2)
	g := new(big.Int)
	for i := 0; i < attempts && h.Cmp(p) < 0; i++ {
		if g.Exp(h, e, p).Cmp(one) != 0 {
			return g, nil
		}
		h.Add(h, one)
	}
	return nil, wrapf(ErrGenerationTimeout, "no generator after %d attempts", attempts)
}

// subgroupBits returns the size of q used for a modulus of modBits bits.
func subgroupBits(modBits int) int {
	if modBits < 2048 {
		return smallSubgroupBits
	}
	return largeSubgroupBits
}

// GenerateParams generates fresh group parameters with a modBits-bit prime
// modulus and a prime-order subgroup, and returns a key holding them. The
// parameters are trusted. Each prime search is bounded by
// cfg.MaxGenerationAttempts.
func GenerateParams(cfg Config, modBits int) (*Key, error) {
	k := NewKey(cfg)
	cfg = k.cfg
	if modBits < cfg.MinModulusBits || modBits > MaxModulusBits {
		return nil, wrapf(ErrInvalidParams, "modulus size %d outside [%d, %d]", modBits, cfg.MinModulusBits, MaxModulusBits)
	}
	log.WithField("bits", modBits).Debug("ffdh: generating group parameters")

	q, err := searchPrime(cfg, subgroupBits(modBits))
	if err != nil {
		return nil, err
	}
	p, err := searchModulus(cfg, q, modBits)
	if err != nil {
		return nil, err
	}
	g, err := findGenerator(p, q, cfg.MaxGenerationAttempts)
	if err != nil {
		return nil, err
	}
	k.install(GroupParams{P: p, G: g, Q: q}, true, 0)
	return k, nil
}
