package ffdh

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
)

// A NamedGroup identifies a standardized finite-field group. The values are
// the TLS supported_groups code points for the RFC 7919 groups.
type NamedGroup int

const (
	FFDHE2048 NamedGroup = 256 + iota
	FFDHE3072
	FFDHE4096
	FFDHE6144
	FFDHE8192
)

// GroupParams holds the domain parameters of a group. Q is nil when the
// subgroup order is unknown.
type GroupParams struct {
	P *big.Int // prime modulus
	G *big.Int // generator
	Q *big.Int // subgroup order, optional
}

// Size returns the byte length of P, which is also the length of public
// values and shared secrets.
func (gp GroupParams) Size() int {
	if gp.P == nil {
		return 0
	}
	return (gp.P.BitLen() + 7) / 8
}

// Bits returns the bit length of P.
func (gp GroupParams) Bits() int {
	if gp.P == nil {
		return 0
	}
	return gp.P.BitLen()
}

// HasQ reports whether the subgroup order is known.
func (gp GroupParams) HasQ() bool {
	return gp.Q != nil && gp.Q.Sign() > 0
}

func (gp GroupParams) clone() GroupParams {
	out := GroupParams{P: new(big.Int).Set(gp.P), G: new(big.Int).Set(gp.G)}
	if gp.HasQ() {
		out.Q = new(big.Int).Set(gp.Q)
	}
	return out
}

// namedGroupEntry is one immutable catalog row.
type namedGroupEntry struct {
	name       string
	p, g, q    []byte
	minKeySize int // smallest private value, in bytes
}

func (e *namedGroupEntry) params() GroupParams {
	return GroupParams{
		P: new(big.Int).SetBytes(e.p),
		G: new(big.Int).SetBytes(e.g),
		Q: new(big.Int).SetBytes(e.q),
	}
}

// namedGroups is populated once by init and only read afterwards.
var namedGroups = make(map[NamedGroup]*namedGroupEntry)

func init() {
	registerGroup(FFDHE2048, "FFDHE2048", ffdhe2048P, 29)
	registerGroup(FFDHE3072, "FFDHE3072", ffdhe3072P, 34)
	registerGroup(FFDHE4096, "FFDHE4096", ffdhe4096P, 39)
	registerGroup(FFDHE6144, "FFDHE6144", ffdhe6144P, 46)
	registerGroup(FFDHE8192, "FFDHE8192", ffdhe8192P, 52)
}

func registerGroup(id NamedGroup, name, pHex string, minKeySize int) {
	p, ok := new(big.Int).SetString(pHex, 16)
	if !ok || p.Bit(0) == 0 {
		panic("ffdh: bad prime for " + name)
	}
	// p is odd, so p>>1 == (p-1)/2.
	q := new(big.Int).Rsh(p, 1)
	namedGroups[id] = &namedGroupEntry{
		name:       name,
		p:          p.Bytes(),
		g:          []byte{2},
		q:          q.Bytes(),
		minKeySize: minKeySize,
	}
}

func lookupEntry(id NamedGroup) (*namedGroupEntry, error) {
	e, ok := namedGroups[id]
	if !ok {
		return nil, wrapf(ErrUnknownGroup, "group %d", int(id))
	}
	return e, nil
}

// String returns the group name, e.g. "FFDHE2048".
func (id NamedGroup) String() string {
	if e, ok := namedGroups[id]; ok {
		return e.name
	}
	return fmt.Sprintf("NamedGroup(%d)", int(id))
}

// Bits returns the modulus size of the group, or 0 for an unknown group.
func (id NamedGroup) Bits() int {
	if e, ok := namedGroups[id]; ok {
		return len(e.p) * 8
	}
	return 0
}

// NamedGroups returns every catalog group in ascending order.
func NamedGroups() []NamedGroup {
	ids := make([]NamedGroup, 0, len(namedGroups))
	for id := range namedGroups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns a fresh copy of the parameters of a named group.
func Lookup(id NamedGroup) (GroupParams, error) {
	e, err := lookupEntry(id)
	if err != nil {
		return GroupParams{}, err
	}
	return e.params(), nil
}

// NamedGroupParamSize returns the byte lengths of p, g and q for a named group.
func NamedGroupParamSize(id NamedGroup) (p, g, q int, err error) {
	e, err := lookupEntry(id)
	if err != nil {
		return 0, 0, 0, err
	}
	return len(e.p), len(e.g), len(e.q), nil
}

// NamedGroupMinKeySize returns the minimum private value size in bytes for a
// named group, or 0 if the group is unknown.
func NamedGroupMinKeySize(id NamedGroup) int {
	if e, ok := namedGroups[id]; ok {
		return e.minKeySize
	}
	return 0
}

// NamedGroupBytes returns copies of the big-endian p, g and q of a named group.
func NamedGroupBytes(id NamedGroup) (p, g, q []byte, err error) {
	e, err := lookupEntry(id)
	if err != nil {
		return nil, nil, nil, err
	}
	return bytes.Clone(e.p), bytes.Clone(e.g), bytes.Clone(e.q), nil
}

// IdentifyGroup returns the catalog group whose p and g equal the supplied
// values. Leading zero bytes are ignored.
func IdentifyGroup(p, g []byte) (NamedGroup, bool) {
	p, g = trimLeadingZeros(p), trimLeadingZeros(g)
	for id, e := range namedGroups {
		if bytes.Equal(e.p, p) && bytes.Equal(e.g, g) {
			return id, true
		}
	}
	return 0, false
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
