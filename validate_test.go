package ffdh

import (
	"bytes"
	"errors"
	"math/big"

	"gopkg.in/check.v1"
)

type ValidateSuite struct{}

var _ = check.Suite(&ValidateSuite{})

func (s *ValidateSuite) TestPublicValueBounds(c *check.C) {
	for _, id := range NamedGroups() {
		gp, err := Lookup(id)
		c.Assert(err, check.IsNil)
		p := gp.P.Bytes()
		pm1 := new(big.Int).Sub(gp.P, one).Bytes()
		pm2 := new(big.Int).Sub(gp.P, two).Bytes()

		for _, bad := range [][]byte{nil, {0}, {1}, pm1, p} {
			c.Check(errors.Is(CheckPublicValue(p, bad), ErrRange), check.Equals, true,
				check.Commentf("%s: %x", id, bad))
		}
		c.Check(CheckPublicValue(p, []byte{2}), check.IsNil)
		c.Check(CheckPublicValue(p, pm2), check.IsNil)
	}
}

// The modulus itself must never pass as a public value.
func (s *ValidateSuite) TestPublicValueEqualToModulus(c *check.C) {
	p, _, _, err := NamedGroupBytes(FFDHE2048)
	c.Assert(err, check.IsNil)
	err = CheckPublicValue(p, p)
	c.Check(errors.Is(err, ErrRange), check.Equals, true)
	c.Check(err, check.ErrorMatches, ".*value out of range.*")
}

func (s *ValidateSuite) TestPublicValueEx(c *check.C) {
	p, _, q, err := NamedGroupBytes(FFDHE2048)
	c.Assert(err, check.IsNil)
	pm2 := new(big.Int).Sub(new(big.Int).SetBytes(p), two).Bytes()

	// 2 is a quadratic residue mod p and lies in the order-q subgroup; -2
	// is a non-residue and does not.
	c.Check(CheckPublicValueEx(p, []byte{2}, q), check.IsNil)
	c.Check(CheckPublicValue(p, pm2), check.IsNil)
	c.Check(errors.Is(CheckPublicValueEx(p, pm2, q), ErrRange), check.Equals, true)
	c.Check(CheckPublicValueEx(p, pm2, nil), check.IsNil)

	c.Check(errors.Is(CheckPublicValueEx(p, []byte{2}, []byte{1}), ErrInvalidParams), check.Equals, true)
}

func (s *ValidateSuite) TestMalformedModulus(c *check.C) {
	for _, p := range [][]byte{nil, {}, {24}, {2}, bytes.Repeat([]byte{0xff}, MaxModulusSize+1)} {
		c.Check(errors.Is(CheckPublicValue(p, []byte{2}), ErrInvalidParams), check.Equals, true)
		c.Check(errors.Is(CheckPrivateValue(p, []byte{2}), ErrInvalidParams), check.Equals, true)
		c.Check(errors.Is(CheckKeyPair(p, []byte{2}, []byte{4}, []byte{2}), ErrInvalidParams), check.Equals, true)
	}
}

func (s *ValidateSuite) TestPrivateValueBounds(c *check.C) {
	p, _, q, err := NamedGroupBytes(FFDHE2048)
	c.Assert(err, check.IsNil)
	pi := new(big.Int).SetBytes(p)
	qi := new(big.Int).SetBytes(q)

	c.Check(errors.Is(CheckPrivateValue(p, []byte{0}), ErrRange), check.Equals, true)
	c.Check(errors.Is(CheckPrivateValue(p, nil), ErrRange), check.Equals, true)
	c.Check(CheckPrivateValue(p, []byte{1}), check.IsNil)
	c.Check(CheckPrivateValue(p, new(big.Int).Sub(pi, two).Bytes()), check.IsNil)
	c.Check(errors.Is(CheckPrivateValue(p, new(big.Int).Sub(pi, one).Bytes()), ErrRange), check.Equals, true)

	// q tightens the range.
	c.Check(CheckPrivateValueEx(p, new(big.Int).Sub(qi, one).Bytes(), q), check.IsNil)
	c.Check(errors.Is(CheckPrivateValueEx(p, q, q), ErrRange), check.Equals, true)
	c.Check(CheckPrivateValueEx(p, q, nil), check.IsNil)
}

func (s *ValidateSuite) TestKeyPair(c *check.C) {
	// 5^6 mod 23 = 8
	c.Check(CheckKeyPair(toyP, []byte{5}, []byte{8}, []byte{6}), check.IsNil)
	c.Check(CheckKeyPair(toyP, []byte{5}, []byte{0, 8}, []byte{0, 6}), check.IsNil)

	for _, tc := range []struct{ pub, priv []byte }{
		{[]byte{9}, []byte{6}},
		{[]byte{8}, []byte{7}},
		{[]byte{8}, nil},
		{nil, []byte{6}},
		{[]byte{31}, []byte{6}}, // 31 = 8 + p
	} {
		c.Check(errors.Is(CheckKeyPair(toyP, []byte{5}, tc.pub, tc.priv), ErrKeyMismatch), check.Equals, true,
			check.Commentf("pub %x priv %x", tc.pub, tc.priv))
	}
	c.Check(errors.Is(CheckKeyPair(toyP, nil, []byte{8}, []byte{6}), ErrInvalidParams), check.Equals, true)
}

func (s *ValidateSuite) TestNamedGroupComparison(c *check.C) {
	p, g, q, err := NamedGroupBytes(FFDHE3072)
	c.Assert(err, check.IsNil)
	otherQ := bytes.Clone(q)
	otherQ[0] ^= 1

	c.Check(CheckNamedGroup(FFDHE3072, false, p, g, q), check.IsNil)
	c.Check(CheckNamedGroup(FFDHE3072, true, p, g, nil), check.IsNil)
	c.Check(CheckNamedGroup(FFDHE3072, true, p, g, otherQ), check.IsNil)
	c.Check(CheckNamedGroup(FFDHE3072, false, append([]byte{0}, p...), []byte{0, 2}, append([]byte{0}, q...)), check.IsNil)

	c.Check(errors.Is(CheckNamedGroup(FFDHE3072, false, p, g, otherQ), ErrGroupMismatch), check.Equals, true)
	c.Check(errors.Is(CheckNamedGroup(FFDHE3072, false, p, g, nil), ErrGroupMismatch), check.Equals, true)
	c.Check(errors.Is(CheckNamedGroup(FFDHE3072, true, p, []byte{5}, q), ErrGroupMismatch), check.Equals, true)
	c.Check(errors.Is(CheckNamedGroup(FFDHE2048, true, p, g, nil), ErrGroupMismatch), check.Equals, true)
	c.Check(errors.Is(CheckNamedGroup(NamedGroup(42), true, p, g, nil), ErrUnknownGroup), check.Equals, true)
}

func (s *ValidateSuite) TestKeyBoundChecks(c *check.C) {
	k := NewKey(Config{})
	c.Assert(k.SetNamedGroup(FFDHE2048), check.IsNil)

	c.Check(k.CheckPublicKey(), check.Equals, ErrNoKey)
	c.Check(k.CheckPrivateKey(), check.Equals, ErrNoKey)
	c.Check(k.CheckKeyPair(nil, nil), check.Equals, ErrNoKey)

	// A short private value is in range but below the group's minimum size.
	c.Assert(k.ImportKeyPair([]byte{5}, nil), check.IsNil)
	c.Check(k.PublicValue()[255], check.Equals, byte(32))
	c.Check(errors.Is(k.CheckPrivateKey(), ErrRange), check.Equals, true)
	c.Check(k.CheckPublicKey(), check.IsNil)
	c.Check(k.CheckKeyPair(nil, nil), check.IsNil)
	c.Check(k.CheckKeyPair([]byte{32}, []byte{5}), check.IsNil)
	c.Check(errors.Is(k.CheckKeyPair([]byte{33}, nil), ErrKeyMismatch), check.Equals, true)

	c.Assert(k.GenerateKey(), check.IsNil)
	c.Check(k.CheckPrivateKey(), check.IsNil)

	_, _, q, _ := NamedGroupBytes(FFDHE2048)
	c.Check(k.CheckPublicKeyEx(nil, q), check.IsNil)
	pm2 := new(big.Int).Sub(k.params().P, two).Bytes()
	c.Check(k.CheckPublicKeyEx(pm2, nil), check.IsNil)
	c.Check(errors.Is(k.CheckPublicKeyEx(pm2, q), ErrRange), check.Equals, true)

	empty := NewKey(Config{})
	c.Check(empty.CheckPublicKey(), check.Equals, ErrNoParams)
	c.Check(empty.CheckPublicKeyEx([]byte{2}, nil), check.Equals, ErrNoParams)
}
