package ffdh

import "io"

// namedDH implements DHFunc over one catalog group.
type namedDH struct {
	group NamedGroup
}

func (d namedDH) key(random io.Reader) (*Key, error) {
	k := NewKey(Config{Random: random})
	if err := k.SetNamedGroup(d.group); err != nil {
		return nil, err
	}
	return k, nil
}

// GenerateKeypair generates a new keypair using random as a source of
// entropy. A nil random uses crypto/rand.Reader.
func (d namedDH) GenerateKeypair(random io.Reader) (DHKey, error) {
	k, err := d.key(random)
	if err != nil {
		return DHKey{}, err
	}
	defer k.Free()
	return k.Generate()
}

// DH computes the shared secret. The peer value is range-checked first.
func (d namedDH) DH(privkey, pubkey []byte) ([]byte, error) {
	k, err := d.key(nil)
	if err != nil {
		return nil, err
	}
	defer k.Free()
	if len(privkey) == 0 {
		return nil, wrapf(ErrRange, "empty private value")
	}
	return k.Agree(privkey, pubkey)
}

func (d namedDH) DHLen() int     { return d.group.Bits() / 8 }
func (d namedDH) DHName() string { return d.group.String() }

// DHFunc instances for the catalog groups.
var (
	DHFFDHE2048 DHFunc = namedDH{FFDHE2048}
	DHFFDHE3072 DHFunc = namedDH{FFDHE3072}
	DHFFDHE4096 DHFunc = namedDH{FFDHE4096}
	DHFFDHE6144 DHFunc = namedDH{FFDHE6144}
	DHFFDHE8192 DHFunc = namedDH{FFDHE8192}
)
