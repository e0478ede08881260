package ffdh

import (
	"bytes"
	"crypto/subtle"
	"math/big"
)

// publicInRange reports 1 < y < p-1.
func publicInRange(p, y *big.Int) bool {
	if y.Cmp(one) <= 0 {
		return false
	}
	pm1 := new(big.Int).Sub(p, one)
	return y.Cmp(pm1) < 0
}

// privateInRange reports 0 < x < q when q is known, otherwise 0 < x < p-1.
func privateInRange(p, q, x *big.Int) bool {
	if x.Sign() <= 0 {
		return false
	}
	if q != nil {
		return x.Cmp(q) < 0
	}
	pm1 := new(big.Int).Sub(p, one)
	return x.Cmp(pm1) < 0
}

// inSubgroup reports y^q = 1 mod p.
func inSubgroup(p, q, y *big.Int) bool {
	return new(big.Int).Exp(y, q, p).Cmp(one) == 0
}

// parseModulus converts a caller-supplied modulus, rejecting empty,
// oversized and even values.
func parseModulus(p []byte) (*big.Int, error) {
	if len(p) == 0 || len(p) > MaxModulusSize {
		return nil, wrapf(ErrInvalidParams, "modulus of %d bytes", len(p))
	}
	m := new(big.Int).SetBytes(p)
	if m.Bit(0) == 0 || m.Cmp(two) <= 0 {
		return nil, wrapf(ErrInvalidParams, "modulus is not an odd prime candidate")
	}
	return m, nil
}

func parseOrder(p *big.Int, q []byte) (*big.Int, error) {
	if len(q) == 0 {
		return nil, nil
	}
	o := new(big.Int).SetBytes(q)
	if o.Cmp(one) <= 0 || o.Cmp(p) >= 0 {
		return nil, wrapf(ErrInvalidParams, "q outside (1, p)")
	}
	return o, nil
}

// CheckPublicValue returns ErrRange unless 1 < pub < p-1.
func CheckPublicValue(p, pub []byte) error {
	return CheckPublicValueEx(p, pub, nil)
}

// CheckPublicValueEx is CheckPublicValue with an optional subgroup order.
// When q is non-empty pub must also satisfy pub^q = 1 mod p.
func CheckPublicValueEx(p, pub, q []byte) error {
	m, err := parseModulus(p)
	if err != nil {
		return err
	}
	order, err := parseOrder(m, q)
	if err != nil {
		return err
	}
	y := new(big.Int).SetBytes(pub)
	if !publicInRange(m, y) {
		return wrapf(ErrRange, "public value outside (1, p-1)")
	}
	if order != nil && !inSubgroup(m, order, y) {
		return wrapf(ErrRange, "public value outside the order-q subgroup")
	}
	return nil
}

// CheckPrivateValue returns ErrRange unless 0 < priv < p-1.
func CheckPrivateValue(p, priv []byte) error {
	return CheckPrivateValueEx(p, priv, nil)
}

// CheckPrivateValueEx is CheckPrivateValue with an optional subgroup order,
// in which case 0 < priv < q is required instead.
func CheckPrivateValueEx(p, priv, q []byte) error {
	m, err := parseModulus(p)
	if err != nil {
		return err
	}
	order, err := parseOrder(m, q)
	if err != nil {
		return err
	}
	x := new(big.Int).SetBytes(priv)
	defer secureZeroInt(x)
	if !privateInRange(m, order, x) {
		return wrapf(ErrRange, "private value out of range")
	}
	return nil
}

// CheckKeyPair returns ErrKeyMismatch unless g^priv mod p equals pub.
func CheckKeyPair(p, g, pub, priv []byte) error {
	m, err := parseModulus(p)
	if err != nil {
		return err
	}
	if len(g) == 0 {
		return wrapf(ErrInvalidParams, "empty g")
	}
	gen := new(big.Int).SetBytes(g)
	x := new(big.Int).SetBytes(priv)
	defer secureZeroInt(x)
	return checkPair(m, gen, new(big.Int).SetBytes(pub), x)
}

func checkPair(p, g, y, x *big.Int) error {
	if x.Sign() <= 0 {
		return wrapf(ErrKeyMismatch, "empty private value")
	}
	size := (p.BitLen() + 7) / 8
	if y.Sign() <= 0 || y.Cmp(p) >= 0 {
		return wrapf(ErrKeyMismatch, "public value not reduced mod p")
	}
	want := new(big.Int).Exp(g, x, p)
	if subtle.ConstantTimeCompare(want.FillBytes(make([]byte, size)), y.FillBytes(make([]byte, size))) != 1 {
		return wrapf(ErrKeyMismatch, "g^priv mod p differs from public value")
	}
	return nil
}

// CheckNamedGroup compares p, g and q with the catalog entry for id. Leading
// zero bytes are ignored. With noQ, q is not compared and may be nil.
func CheckNamedGroup(id NamedGroup, noQ bool, p, g, q []byte) error {
	e, err := lookupEntry(id)
	if err != nil {
		return err
	}
	if !bytes.Equal(e.p, trimLeadingZeros(p)) {
		return wrapf(ErrGroupMismatch, "%s: p differs", e.name)
	}
	if !bytes.Equal(e.g, trimLeadingZeros(g)) {
		return wrapf(ErrGroupMismatch, "%s: g differs", e.name)
	}
	if !noQ && !bytes.Equal(e.q, trimLeadingZeros(q)) {
		return wrapf(ErrGroupMismatch, "%s: q differs", e.name)
	}
	return nil
}

// CheckPublicKey validates the key's stored public value, including the
// subgroup check when q is known.
func (k *Key) CheckPublicKey() error {
	if err := k.ensureParams(); err != nil {
		return err
	}
	if k.pub == nil {
		return ErrNoKey
	}
	if !publicInRange(k.p, k.pub) {
		return wrapf(ErrRange, "public value outside (1, p-1)")
	}
	if k.q != nil && !inSubgroup(k.p, k.q, k.pub) {
		return wrapf(ErrRange, "public value outside the order-q subgroup")
	}
	return nil
}

// CheckPublicKeyEx validates pub against the key's modulus and, when q is
// non-empty, the subgroup of order q. A nil pub checks the stored value.
func (k *Key) CheckPublicKeyEx(pub, q []byte) error {
	if err := k.ensureParams(); err != nil {
		return err
	}
	if pub == nil {
		if k.pub == nil {
			return ErrNoKey
		}
		pub = k.PublicValue()
	}
	return CheckPublicValueEx(k.p.Bytes(), pub, q)
}

// CheckPrivateKey validates the stored private value. For named groups it
// also enforces the group's minimum private value size.
func (k *Key) CheckPrivateKey() error {
	if err := k.ensureParams(); err != nil {
		return err
	}
	if k.priv == nil {
		return ErrNoKey
	}
	if !privateInRange(k.p, k.q, k.priv) {
		return wrapf(ErrRange, "private value out of range")
	}
	if minSize := k.MinKeySize(); minSize > 0 && (k.priv.BitLen()+7)/8 < minSize {
		return wrapf(ErrRange, "private value shorter than %d bytes for %s", minSize, k.group)
	}
	return nil
}

// CheckKeyPair verifies that pub = g^priv mod p under the key's group. nil
// arguments select the key's stored values.
func (k *Key) CheckKeyPair(pub, priv []byte) error {
	if err := k.ensureParams(); err != nil {
		return err
	}
	y, x := k.pub, k.priv
	if pub != nil {
		y = new(big.Int).SetBytes(pub)
	}
	if priv != nil {
		x = new(big.Int).SetBytes(priv)
		defer secureZeroInt(x)
	}
	if x == nil || y == nil {
		return ErrNoKey
	}
	return checkPair(k.p, k.g, y, x)
}
