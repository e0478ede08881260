package ffdh

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"gopkg.in/check.v1"
)

// Hook gopkg.in/check.v1 suites into "go test".
func Test(t *testing.T) { check.TestingT(t) }

type GroupSuite struct{}

var _ = check.Suite(&GroupSuite{})

// SHA-256 of the big-endian RFC 7919 moduli.
var rfc7919Digests = map[NamedGroup]string{
	FFDHE2048: "9cd3b7f336872f46c09428d1bbc19877a4d440512cda8d1c1cf0cd6e33698966",
	FFDHE3072: "0eaf67db3a839156d5013494a5318a772b5697d270d721f37f092efc69ea5a17",
	FFDHE4096: "4648414224ac881b3d0dc59b466f96d06a558278776807797ecf1f66ff397b3e",
	FFDHE6144: "227ac9066b3ddd9e193670cda2388fa884f65ba0cf98b742d1fe77a6687c79c7",
	FFDHE8192: "770b14efaf6f049929c523113b3fa99a8d11dab1b18af3609590122075d19833",
}

func (s *GroupSuite) TestCatalogMatchesRFC7919(c *check.C) {
	for id, want := range rfc7919Digests {
		p, g, q, err := NamedGroupBytes(id)
		c.Assert(err, check.IsNil)

		sum := sha256.Sum256(p)
		c.Check(hex.EncodeToString(sum[:]), check.Equals, want, check.Commentf("%s", id))
		c.Check(g, check.DeepEquals, []byte{2})
		c.Check(len(p)*8, check.Equals, id.Bits())

		// RFC 7919 moduli have their top and bottom 64 bits set.
		ones := bytes.Repeat([]byte{0xff}, 8)
		c.Check(p[:8], check.DeepEquals, ones)
		c.Check(p[len(p)-8:], check.DeepEquals, ones)

		// q = (p-1)/2
		pi, qi := new(big.Int).SetBytes(p), new(big.Int).SetBytes(q)
		c.Check(new(big.Int).Add(new(big.Int).Lsh(qi, 1), one).Cmp(pi), check.Equals, 0)
	}
}

func (s *GroupSuite) TestFFDHE2048IsSafePrime(c *check.C) {
	gp, err := Lookup(FFDHE2048)
	c.Assert(err, check.IsNil)
	c.Check(gp.P.ProbablyPrime(8), check.Equals, true)
	c.Check(gp.Q.ProbablyPrime(8), check.Equals, true)
	c.Check(checkGroupSafety(GroupParams{P: gp.P, G: gp.G}, Config{}.withDefaults()), check.IsNil)
	c.Check(checkGroupSafety(gp, Config{}.withDefaults()), check.IsNil)
}

func (s *GroupSuite) TestNamedGroups(c *check.C) {
	c.Check(NamedGroups(), check.DeepEquals, []NamedGroup{FFDHE2048, FFDHE3072, FFDHE4096, FFDHE6144, FFDHE8192})
	c.Check(FFDHE6144.String(), check.Equals, "FFDHE6144")
	c.Check(NamedGroup(7).String(), check.Equals, "NamedGroup(7)")
	c.Check(NamedGroup(7).Bits(), check.Equals, 0)
}

func (s *GroupSuite) TestParamSizes(c *check.C) {
	cases := []struct {
		id      NamedGroup
		size    int
		minSize int
	}{
		{FFDHE2048, 256, 29},
		{FFDHE3072, 384, 34},
		{FFDHE4096, 512, 39},
		{FFDHE6144, 768, 46},
		{FFDHE8192, 1024, 52},
	}
	for _, tc := range cases {
		p, g, q, err := NamedGroupParamSize(tc.id)
		c.Assert(err, check.IsNil)
		c.Check(p, check.Equals, tc.size)
		c.Check(g, check.Equals, 1)
		c.Check(q, check.Equals, tc.size)
		c.Check(NamedGroupMinKeySize(tc.id), check.Equals, tc.minSize)
	}
	c.Check(NamedGroupMinKeySize(NamedGroup(1)), check.Equals, 0)
}

func (s *GroupSuite) TestUnknownGroup(c *check.C) {
	_, err := Lookup(NamedGroup(255))
	c.Check(errors.Is(err, ErrUnknownGroup), check.Equals, true)
	_, _, _, err = NamedGroupParamSize(NamedGroup(261))
	c.Check(errors.Is(err, ErrUnknownGroup), check.Equals, true)
	_, _, _, err = NamedGroupBytes(0)
	c.Check(errors.Is(err, ErrUnknownGroup), check.Equals, true)
}

func (s *GroupSuite) TestLookupReturnsCopies(c *check.C) {
	p, _, _, err := NamedGroupBytes(FFDHE3072)
	c.Assert(err, check.IsNil)
	p[0] = 0

	gp, err := Lookup(FFDHE3072)
	c.Assert(err, check.IsNil)
	c.Check(gp.P.Bytes()[0], check.Equals, byte(0xff))

	gp.P.SetInt64(5)
	again, err := Lookup(FFDHE3072)
	c.Assert(err, check.IsNil)
	c.Check(again.Bits(), check.Equals, 3072)
}

func (s *GroupSuite) TestIdentifyGroup(c *check.C) {
	p, g, _, err := NamedGroupBytes(FFDHE4096)
	c.Assert(err, check.IsNil)

	id, ok := IdentifyGroup(p, g)
	c.Check(ok, check.Equals, true)
	c.Check(id, check.Equals, FFDHE4096)

	id, ok = IdentifyGroup(append([]byte{0, 0}, p...), []byte{0, 2})
	c.Check(ok, check.Equals, true)
	c.Check(id, check.Equals, FFDHE4096)

	_, ok = IdentifyGroup(p, []byte{5})
	c.Check(ok, check.Equals, false)
	_, ok = IdentifyGroup([]byte{23}, []byte{2})
	c.Check(ok, check.Equals, false)
}
