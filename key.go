// Package ffdh implements finite-field Diffie-Hellman key agreement.
//
// It provides the RFC 7919 named groups (FFDHE-2048 through FFDHE-8192),
// key objects holding group parameters and key material, key-pair and
// parameter generation, agreement, and validation of peer-supplied values.
// A Key is owned by a single goroutine; use one Key per goroutine or
// serialize access externally.
package ffdh

import (
	"math/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// A Key holds group parameters and, once generated or imported, a private
// and public value. The zero Key is not usable; create keys with NewKey.
type Key struct {
	p, g, q   *big.Int
	pub, priv *big.Int
	trusted   bool
	group     NamedGroup // zero unless the parameters are a catalog group
	cfg       Config
}

// NewKey returns a key without parameters. No big integers are allocated
// until parameters are set.
func NewKey(cfg Config) *Key {
	return &Key{cfg: cfg.withDefaults()}
}

// parseParams converts and range-checks raw parameter buffers. q may be empty.
func parseParams(p, g, q []byte) (GroupParams, error) {
	if len(p) == 0 {
		return GroupParams{}, wrapf(ErrInvalidParams, "empty p")
	}
	if len(g) == 0 {
		return GroupParams{}, wrapf(ErrInvalidParams, "empty g")
	}
	if len(p) > MaxModulusSize || len(g) > MaxModulusSize || len(q) > MaxModulusSize {
		return GroupParams{}, wrapf(ErrInvalidParams, "parameter exceeds %d bytes", MaxModulusSize)
	}
	gp := GroupParams{
		P: new(big.Int).SetBytes(p),
		G: new(big.Int).SetBytes(g),
	}
	if gp.P.Bit(0) == 0 {
		return GroupParams{}, wrapf(ErrInvalidParams, "p is even")
	}
	if gp.G.Cmp(one) <= 0 || gp.G.Cmp(gp.P) >= 0 {
		return GroupParams{}, wrapf(ErrInvalidParams, "g outside (1, p)")
	}
	if len(q) > 0 {
		gp.Q = new(big.Int).SetBytes(q)
		if gp.Q.Cmp(one) <= 0 || gp.Q.Cmp(gp.P) >= 0 {
			return GroupParams{}, wrapf(ErrInvalidParams, "q outside (1, p)")
		}
	}
	return gp, nil
}

// identify reports the catalog group gp belongs to. A supplied q must match
// the catalog q.
func identify(gp GroupParams) (NamedGroup, bool) {
	id, ok := IdentifyGroup(gp.P.Bytes(), gp.G.Bytes())
	if !ok {
		return 0, false
	}
	if gp.HasQ() && CheckNamedGroup(id, false, gp.P.Bytes(), gp.G.Bytes(), gp.Q.Bytes()) != nil {
		return 0, false
	}
	return id, true
}

// install replaces the key's parameters, discarding any key pair.
func (k *Key) install(gp GroupParams, trusted bool, group NamedGroup) {
	k.clearKeyPair()
	k.p, k.g, k.q = gp.P, gp.G, nil
	if gp.HasQ() {
		k.q = gp.Q
	}
	k.trusted = trusted
	k.group = group
	log.WithField("bits", k.p.BitLen()).WithField("trusted", trusted).Debug("ffdh: parameters set")
}

func (k *Key) clearKeyPair() {
	secureZeroInt(k.priv)
	k.priv = nil
	k.pub = nil
}

// SetParams sets the group parameters from big-endian buffers. q is optional.
// Parameters that equal a catalog group are marked trusted.
func (k *Key) SetParams(p, g, q []byte) error {
	gp, err := parseParams(p, g, q)
	if err != nil {
		return err
	}
	id, named := identify(gp)
	k.install(gp, named, id)
	return nil
}

// SetParamsChecked is SetParams followed by the group safety checks, which
// are skipped when trusted is true or the parameters are a catalog group.
// Failing parameters leave the key unchanged and return ErrWeakParams.
func (k *Key) SetParamsChecked(p, g, q []byte, trusted bool) error {
	gp, err := parseParams(p, g, q)
	if err != nil {
		return err
	}
	id, named := identify(gp)
	if !trusted && !named {
		if err := checkGroupSafety(gp, k.cfg); err != nil {
			log.WithError(err).Warn("ffdh: rejected group parameters")
			return err
		}
	}
	k.install(gp, trusted || named, id)
	return nil
}

// SetNamedGroup loads the parameters of a catalog group.
func (k *Key) SetNamedGroup(id NamedGroup) error {
	e, err := lookupEntry(id)
	if err != nil {
		return err
	}
	k.install(e.params(), true, id)
	return nil
}

func (k *Key) ensureParams() error {
	if k.p == nil {
		return ErrNoParams
	}
	return nil
}

func (k *Key) params() GroupParams {
	return GroupParams{P: k.p, G: k.g, Q: k.q}
}

// Params returns a copy of the key's group parameters.
func (k *Key) Params() (GroupParams, error) {
	if err := k.ensureParams(); err != nil {
		return GroupParams{}, err
	}
	return k.params().clone(), nil
}

// ExportParams returns big-endian p, g and q. q is nil when unknown.
func (k *Key) ExportParams() (p, g, q []byte, err error) {
	if err := k.ensureParams(); err != nil {
		return nil, nil, nil, err
	}
	if k.q != nil {
		q = k.q.Bytes()
	}
	return k.p.Bytes(), k.g.Bytes(), q, nil
}

// Size returns the byte length of p, or 0 without parameters.
func (k *Key) Size() int {
	return k.params().Size()
}

// Trusted reports whether the parameters came from the catalog, from
// GenerateParams, or were asserted trusted by the caller.
func (k *Key) Trusted() bool {
	return k.trusted
}

// Group returns the catalog group of the key's parameters, if any.
func (k *Key) Group() (NamedGroup, bool) {
	return k.group, k.group != 0
}

// MinKeySize returns the minimum private value size, in bytes, required by
// the key's named group, or 0 for other parameters.
func (k *Key) MinKeySize() int {
	return NamedGroupMinKeySize(k.group)
}

// HasPrivate reports whether the key holds a private value.
func (k *Key) HasPrivate() bool {
	return k.priv != nil
}

// PublicValue returns the stored public value padded to Size, or nil.
func (k *Key) PublicValue() []byte {
	if k.pub == nil {
		return nil
	}
	return k.pub.FillBytes(make([]byte, k.Size()))
}

// ImportKeyPair stores a private value, a public value, or both. When only
// a private value is given the public value is derived from it. Values are
// checked before the key is modified.
func (k *Key) ImportKeyPair(priv, pub []byte) error {
	if err := k.ensureParams(); err != nil {
		return err
	}
	if len(priv) == 0 && len(pub) == 0 {
		return wrapf(ErrNoKey, "nothing to import")
	}
	var x, y *big.Int
	if len(pub) > 0 {
		y = new(big.Int).SetBytes(pub)
		if !publicInRange(k.p, y) {
			return wrapf(ErrRange, "public value outside (1, p-1)")
		}
	}
	if len(priv) > 0 {
		x = new(big.Int).SetBytes(priv)
		if !privateInRange(k.p, k.q, x) {
			secureZeroInt(x)
			return wrapf(ErrRange, "private value out of range")
		}
		derived := new(big.Int).Exp(k.g, x, k.p)
		if y != nil && derived.Cmp(y) != 0 {
			secureZeroInt(x)
			return wrapf(ErrKeyMismatch, "imported pair")
		}
		if !publicInRange(k.p, derived) {
			secureZeroInt(x)
			return wrapf(ErrRange, "derived public value outside (1, p-1)")
		}
		y = derived
	}
	k.clearKeyPair()
	k.priv, k.pub = x, y
	return nil
}

// ExportKeyPair returns the stored private value padded to PrivateSize and
// the public value padded to Size, the widths GenerateKeyPair writes.
// Either is nil when not set.
func (k *Key) ExportKeyPair() (priv, pub []byte, err error) {
	if err := k.ensureParams(); err != nil {
		return nil, nil, err
	}
	if k.priv == nil && k.pub == nil {
		return nil, nil, ErrNoKey
	}
	if k.priv != nil {
		priv = k.priv.FillBytes(make([]byte, k.privateSize()))
	}
	return priv, k.PublicValue(), nil
}

// Free zeroes the private value, then releases all other values. The key
// can be reused after new parameters are set. Free is idempotent.
func (k *Key) Free() {
	if k.p == nil && k.priv == nil && k.pub == nil {
		return
	}
	k.clearKeyPair()
	secureZeroInt(k.q)
	secureZeroInt(k.g)
	secureZeroInt(k.p)
	k.p, k.g, k.q = nil, nil, nil
	k.trusted = false
	k.group = 0
}
