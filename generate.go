package ffdh

import (
	"io"
	"math/big"
)

// exponentMax returns the largest private value the key's group allows:
// q-1 when q is known, p-2 otherwise.
func (k *Key) exponentMax() *big.Int {
	if k.q != nil {
		return new(big.Int).Sub(k.q, one)
	}
	return new(big.Int).Sub(k.p, two)
}

// privateSize is the width private values are written at.
func (k *Key) privateSize() int {
	return (k.exponentMax().BitLen() + 7) / 8
}

// PrivateSize returns the buffer size GenerateKeyPair needs for the private
// value, or 0 without parameters.
func (k *Key) PrivateSize() int {
	if k.p == nil {
		return 0
	}
	return k.privateSize()
}

// randomScalar draws a value uniformly from [2, limit] by rejection sampling.
// Each attempt reads len(limit) bytes from rng and masks the excess high bits.
// A non-nil accept may reject an in-range candidate; the draw then counts
// as a failed attempt.
func randomScalar(rng io.Reader, limit *big.Int, attempts int, accept func(*big.Int) bool) (*big.Int, error) {
	if limit.Cmp(two) < 0 {
		return nil, wrapf(ErrInvalidParams, "empty exponent range")
	}
	bitLen := limit.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	defer secureZero(buf)
	excess := uint(len(buf)*8 - bitLen)

	x := new(big.Int)
	for i := 0; i < attempts; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			secureZeroInt(x)
			return nil, wrapf(ErrRandomUnavailable, "read: %v", err)
		}
		buf[0] &= byte(0xff >> excess)
		x.SetBytes(buf)
		if x.Cmp(two) < 0 || x.Cmp(limit) > 0 {
			continue
		}
		if accept == nil || accept(x) {
			return x, nil
		}
	}
	secureZeroInt(x)
	log.WithField("attempts", attempts).Warn("ffdh: private value sampling exhausted")
	return nil, wrapf(ErrGenerationTimeout, "no private value after %d attempts", attempts)
}

// generate draws a private value and computes its public value. Draws whose
// public value is 1 or p-1 are rejected, which only happens when g has even
// order.
func (k *Key) generate() (priv, pub *big.Int, err error) {
	if err := k.ensureParams(); err != nil {
		return nil, nil, err
	}
	pub = new(big.Int)
	priv, err = randomScalar(k.cfg.Random, k.exponentMax(), k.cfg.MaxGenerationAttempts, func(x *big.Int) bool {
		return publicInRange(k.p, pub.Exp(k.g, x, k.p))
	})
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// GenerateKeyPair writes a fresh private value into priv, left-padded to
// PrivateSize, and its public value into pub, left-padded to Size. The key
// itself is not modified. Buffer sizes are checked before any randomness is
// consumed; a short buffer yields a *BufferTooSmallError.
func (k *Key) GenerateKeyPair(priv, pub []byte) (privLen, pubLen int, err error) {
	if err := k.ensureParams(); err != nil {
		return 0, 0, err
	}
	privLen, pubLen = k.privateSize(), k.Size()
	if err := checkCapacity("private", priv, privLen); err != nil {
		return 0, 0, err
	}
	if err := checkCapacity("public", pub, pubLen); err != nil {
		return 0, 0, err
	}
	x, y, err := k.generate()
	if err != nil {
		return 0, 0, err
	}
	x.FillBytes(priv[:privLen])
	y.FillBytes(pub[:pubLen])
	secureZeroInt(x)
	return privLen, pubLen, nil
}

// GenerateKey stores a fresh key pair in the key, replacing any previous one.
func (k *Key) GenerateKey() error {
	x, y, err := k.generate()
	if err != nil {
		return err
	}
	k.clearKeyPair()
	k.priv, k.pub = x, y
	log.WithField("bits", k.p.BitLen()).Debug("ffdh: key pair generated")
	return nil
}

// Generate returns a fresh key pair in newly allocated buffers without
// modifying the key.
func (k *Key) Generate() (DHKey, error) {
	if err := k.ensureParams(); err != nil {
		return DHKey{}, err
	}
	kp := DHKey{
		Private: make([]byte, k.privateSize()),
		Public:  make([]byte, k.Size()),
	}
	if _, _, err := k.GenerateKeyPair(kp.Private, kp.Public); err != nil {
		return DHKey{}, err
	}
	return kp, nil
}
