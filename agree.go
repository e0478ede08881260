package ffdh

import (
	"errors"
	"math/big"

	"github.com/samber/oops"
)

// needsSubgroupCheck reports whether peer values must be tested for
// membership in the order-q subgroup. Trusted safe-prime groups skip the
// test: every value in range other than p-1 lies in a subgroup of order q or
// 2q, and the result check rejects the order-2 case.
func (k *Key) needsSubgroupCheck() bool {
	if k.q == nil {
		return false
	}
	return !k.trusted || k.q.Cmp(new(big.Int).Rsh(k.p, 1)) != 0
}

// screenPeer parses and validates a peer public value. Out-of-range values
// are rejected before any exponentiation.
func (k *Key) screenPeer(peerPub []byte) (*big.Int, error) {
	if len(peerPub) == 0 || len(peerPub) > MaxModulusSize {
		return nil, wrapf(ErrInvalidPeerKey, "peer value of %d bytes", len(peerPub))
	}
	y := new(big.Int).SetBytes(peerPub)
	if !publicInRange(k.p, y) {
		log.WithField("bits", k.p.BitLen()).Warn("ffdh: peer public value out of range")
		return nil, wrapf(ErrInvalidPeerKey, "peer value outside (1, p-1)")
	}
	if k.needsSubgroupCheck() && !inSubgroup(k.p, k.q, y) {
		log.WithField("bits", k.p.BitLen()).Warn("ffdh: peer public value outside subgroup")
		return nil, wrapf(ErrInvalidPeerKey, "peer value outside the order-q subgroup")
	}
	return y, nil
}

// agreementScalar returns the private value to use. A nil priv selects the
// stored value. The second result reports whether the caller owns the
// returned integer and must zero it.
func (k *Key) agreementScalar(priv []byte) (*big.Int, bool, error) {
	if priv == nil {
		if k.priv == nil {
			return nil, false, ErrNoKey
		}
		return k.priv, false, nil
	}
	x := new(big.Int).SetBytes(priv)
	if !privateInRange(k.p, k.q, x) {
		secureZeroInt(x)
		return nil, false, wrapf(ErrRange, "private value out of range")
	}
	return x, true, nil
}

// Agree computes the shared secret between priv and the peer public value.
// A nil priv uses the key's stored private value. The secret is Size bytes,
// left-padded with zeros; the caller should zero it after use.
func (k *Key) Agree(priv, peerPub []byte) ([]byte, error) {
	if err := k.ensureParams(); err != nil {
		return nil, err
	}
	out := make([]byte, k.Size())
	n, err := k.AgreeTo(out, priv, peerPub)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// AgreeTo is Agree writing into out, which must hold at least Size bytes.
// It returns the number of bytes written.
func (k *Key) AgreeTo(out, priv, peerPub []byte) (int, error) {
	if err := k.ensureParams(); err != nil {
		return 0, err
	}
	size := k.Size()
	if err := checkCapacity("secret", out, size); err != nil {
		return 0, err
	}
	y, err := k.screenPeer(peerPub)
	if err != nil {
		return 0, err
	}
	x, owned, err := k.agreementScalar(priv)
	if err != nil {
		return 0, err
	}
	if owned {
		defer secureZeroInt(x)
	}

	if k.cfg.Device != nil {
		done, err := k.agreeOnDevice(out[:size], x, y)
		if err != nil {
			return 0, err
		}
		if done {
			return size, nil
		}
	}

	z := new(big.Int).Exp(y, x, k.p)
	defer secureZeroInt(z)
	if z.Cmp(one) <= 0 {
		return 0, wrapf(ErrInvalidPeerKey, "degenerate shared secret")
	}
	z.FillBytes(out[:size])
	return size, nil
}

// agreeOnDevice forwards the computation to the configured Device. It
// reports false with a nil error when the device declined and the secret
// must be computed locally.
func (k *Key) agreeOnDevice(out []byte, x, y *big.Int) (bool, error) {
	privBuf := x.FillBytes(make([]byte, k.privateSize()))
	defer secureZero(privBuf)

	secret, err := k.cfg.Device.Agree(k.params().clone(), privBuf, y.FillBytes(make([]byte, len(out))))
	if errors.Is(err, ErrDeviceUnavailable) {
		log.WithField("device", k.cfg.DeviceID).Debug("ffdh: device unavailable, computing locally")
		return false, nil
	}
	if err != nil {
		return false, oops.In("ffdh").With("device", k.cfg.DeviceID).Wrapf(err, "device agreement")
	}
	defer secureZero(secret)
	if len(secret) != len(out) {
		return false, oops.In("ffdh").With("device", k.cfg.DeviceID).Errorf("device returned %d-byte secret, want %d", len(secret), len(out))
	}
	if new(big.Int).SetBytes(secret).Cmp(one) <= 0 {
		return false, wrapf(ErrInvalidPeerKey, "degenerate shared secret")
	}
	copy(out, secret)
	return true, nil
}
