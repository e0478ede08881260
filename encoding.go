package ffdh

import (
	encoding_asn1 "encoding/asn1"
	"encoding/pem"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	// PKCS #3 dhKeyAgreement, parameters DHParameter ::= SEQUENCE { p, g, privateValueLength OPTIONAL }.
	oidDHKeyAgreement = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 3, 1}
	// ANSI X9.42 dhpublicnumber, parameters DomainParameters ::= SEQUENCE { p, g, q, j OPTIONAL, validationParms OPTIONAL }.
	oidDHPublicNumber = encoding_asn1.ObjectIdentifier{1, 2, 840, 10046, 2, 1}
)

// PEM block types produced and accepted by EncodePEM and DecodePEM.
const (
	pemTypeParams     = "DH PARAMETERS"
	pemTypeX942Params = "X9.42 DH PARAMETERS"
	pemTypePublicKey  = "PUBLIC KEY"
	pemTypePrivateKey = "PRIVATE KEY"
)

func invalidEncoding(what string) error {
	return wrapf(ErrInvalidEncoding, "%s", what)
}

// useX942 reports whether gp is encoded as X9.42 domain parameters. Groups
// whose q is (p-1)/2, including the catalog groups, use the PKCS #3 form.
func useX942(gp GroupParams) bool {
	return gp.HasQ() && gp.Q.Cmp(new(big.Int).Rsh(gp.P, 1)) != 0
}

func requireParams(gp GroupParams) error {
	if gp.P == nil || gp.G == nil || gp.P.Sign() <= 0 || gp.G.Sign() <= 0 {
		return wrapf(ErrInvalidParams, "missing p or g")
	}
	return nil
}

// MarshalParameters encodes p and g as a PKCS #3 DHParameter.
func MarshalParameters(gp GroupParams) ([]byte, error) {
	if err := requireParams(gp); err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	addPKCS3(&b, gp)
	return b.Bytes()
}

// MarshalX942Parameters encodes p, g and q as X9.42 DomainParameters. q is
// required.
func MarshalX942Parameters(gp GroupParams) ([]byte, error) {
	if err := requireParams(gp); err != nil {
		return nil, err
	}
	if !gp.HasQ() {
		return nil, wrapf(ErrInvalidParams, "X9.42 parameters need q")
	}
	var b cryptobyte.Builder
	addX942(&b, gp)
	return b.Bytes()
}

func addPKCS3(b *cryptobyte.Builder, gp GroupParams) {
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(gp.P)
		b.AddASN1BigInt(gp.G)
	})
}

func addX942(b *cryptobyte.Builder, gp GroupParams) {
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(gp.P)
		b.AddASN1BigInt(gp.G)
		b.AddASN1BigInt(gp.Q)
	})
}

func addAlgorithm(b *cryptobyte.Builder, gp GroupParams) {
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		if useX942(gp) {
			b.AddASN1ObjectIdentifier(oidDHPublicNumber)
			addX942(b, gp)
			return
		}
		b.AddASN1ObjectIdentifier(oidDHKeyAgreement)
		addPKCS3(b, gp)
	})
}

func readPositive(s *cryptobyte.String, out *big.Int) bool {
	return s.ReadASN1Integer(out) && out.Sign() > 0
}

// ParseParameters decodes a PKCS #3 DHParameter. The optional
// privateValueLength is accepted and ignored.
func ParseParameters(der []byte) (GroupParams, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return GroupParams{}, invalidEncoding("DHParameter")
	}
	gp := GroupParams{P: new(big.Int), G: new(big.Int)}
	if !readPositive(&seq, gp.P) || !readPositive(&seq, gp.G) {
		return GroupParams{}, invalidEncoding("DHParameter p or g")
	}
	if seq.PeekASN1Tag(cryptobyte_asn1.INTEGER) {
		var privateBits int
		if !seq.ReadASN1Integer(&privateBits) || privateBits < 0 {
			return GroupParams{}, invalidEncoding("DHParameter privateValueLength")
		}
	}
	if !seq.Empty() {
		return GroupParams{}, invalidEncoding("trailing data in DHParameter")
	}
	return gp, nil
}

// ParseX942Parameters decodes X9.42 DomainParameters. The optional j and
// validationParms fields are accepted and ignored.
func ParseX942Parameters(der []byte) (GroupParams, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return GroupParams{}, invalidEncoding("DomainParameters")
	}
	gp := GroupParams{P: new(big.Int), G: new(big.Int), Q: new(big.Int)}
	if !readPositive(&seq, gp.P) || !readPositive(&seq, gp.G) || !readPositive(&seq, gp.Q) {
		return GroupParams{}, invalidEncoding("DomainParameters p, g or q")
	}
	if !seq.SkipOptionalASN1(cryptobyte_asn1.INTEGER) ||
		!seq.SkipOptionalASN1(cryptobyte_asn1.SEQUENCE) ||
		!seq.Empty() {
		return GroupParams{}, invalidEncoding("DomainParameters trailer")
	}
	return gp, nil
}

// parseBareParameters accepts either parameter form. A PKCS #3 trailer
// fits in an int; an X9.42 q never does.
func parseBareParameters(der []byte) (GroupParams, error) {
	gp, err := ParseParameters(der)
	if err == nil {
		return gp, nil
	}
	if gp, x942Err := ParseX942Parameters(der); x942Err == nil {
		return gp, nil
	}
	return GroupParams{}, err
}

// LoadParams extracts big-endian p and g from a DER DHParameter.
func LoadParams(der []byte) (p, g []byte, err error) {
	gp, err := ParseParameters(der)
	if err != nil {
		return nil, nil, err
	}
	return gp.P.Bytes(), gp.G.Bytes(), nil
}

// MarshalPKIXPublicKey encodes the key's public value as a
// SubjectPublicKeyInfo.
func MarshalPKIXPublicKey(k *Key) ([]byte, error) {
	if err := k.ensureParams(); err != nil {
		return nil, err
	}
	if k.pub == nil {
		return nil, ErrNoKey
	}
	var inner cryptobyte.Builder
	inner.AddASN1BigInt(k.pub)
	y, err := inner.Bytes()
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addAlgorithm(b, k.params())
		b.AddASN1BitString(y)
	})
	return b.Bytes()
}

// MarshalPKCS8PrivateKey encodes the key's private value as a version 0
// PKCS #8 PrivateKeyInfo. The public value is not included.
func MarshalPKCS8PrivateKey(k *Key) ([]byte, error) {
	if err := k.ensureParams(); err != nil {
		return nil, err
	}
	if k.priv == nil {
		return nil, ErrNoKey
	}
	var inner cryptobyte.Builder
	inner.AddASN1BigInt(k.priv)
	x, err := inner.Bytes()
	if err != nil {
		return nil, err
	}
	defer secureZero(x)
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		addAlgorithm(b, k.params())
		b.AddASN1OctetString(x)
	})
	return b.Bytes()
}

// ParseKey decodes a PKCS #8 private key, a SubjectPublicKeyInfo or bare
// DH parameters into a new Key created with cfg. Parameters that match a
// catalog group are loaded from the catalog and trusted.
func ParseKey(der []byte, cfg Config) (*Key, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return nil, invalidEncoding("outer SEQUENCE")
	}
	k := NewKey(cfg)
	var err error
	switch {
	case seq.PeekASN1Tag(cryptobyte_asn1.SEQUENCE):
		err = k.parseSPKI(seq)
	case isPKCS8(seq):
		err = k.parsePKCS8(seq)
	default:
		var gp GroupParams
		if gp, err = parseBareParameters(der); err == nil {
			err = k.setDecoded(gp)
		}
	}
	if err != nil {
		k.Free()
		return nil, err
	}
	return k, nil
}

// isPKCS8 reports whether seq starts with a version INTEGER followed by an
// AlgorithmIdentifier.
func isPKCS8(seq cryptobyte.String) bool {
	return seq.SkipASN1(cryptobyte_asn1.INTEGER) && seq.PeekASN1Tag(cryptobyte_asn1.SEQUENCE)
}

func (k *Key) setDecoded(gp GroupParams) error {
	if id, ok := identify(gp); ok {
		return k.SetNamedGroup(id)
	}
	var q []byte
	if gp.HasQ() {
		q = gp.Q.Bytes()
	}
	return k.SetParams(gp.P.Bytes(), gp.G.Bytes(), q)
}

// readAlgorithm reads an AlgorithmIdentifier and installs its parameters.
func (k *Key) readAlgorithm(s *cryptobyte.String) error {
	var alg, params cryptobyte.String
	var oid encoding_asn1.ObjectIdentifier
	if !s.ReadASN1(&alg, cryptobyte_asn1.SEQUENCE) ||
		!alg.ReadASN1ObjectIdentifier(&oid) ||
		!alg.ReadASN1Element(&params, cryptobyte_asn1.SEQUENCE) ||
		!alg.Empty() {
		return invalidEncoding("AlgorithmIdentifier")
	}
	var gp GroupParams
	var err error
	switch {
	case oid.Equal(oidDHKeyAgreement):
		gp, err = ParseParameters(params)
	case oid.Equal(oidDHPublicNumber):
		gp, err = ParseX942Parameters(params)
	default:
		return wrapf(ErrInvalidEncoding, "unsupported algorithm %s", oid)
	}
	if err != nil {
		return err
	}
	return k.setDecoded(gp)
}

func (k *Key) parseSPKI(seq cryptobyte.String) error {
	if err := k.readAlgorithm(&seq); err != nil {
		return err
	}
	var bits []byte
	if !seq.ReadASN1BitStringAsBytes(&bits) || !seq.Empty() {
		return invalidEncoding("subjectPublicKey")
	}
	y := cryptobyte.String(bits)
	pub := new(big.Int)
	if !readPositive(&y, pub) || !y.Empty() {
		return invalidEncoding("public value")
	}
	return k.ImportKeyPair(nil, pub.Bytes())
}

func (k *Key) parsePKCS8(seq cryptobyte.String) error {
	var version int
	if !seq.ReadASN1Integer(&version) || (version != 0 && version != 1) {
		return invalidEncoding("PrivateKeyInfo version")
	}
	if err := k.readAlgorithm(&seq); err != nil {
		return err
	}
	var octets cryptobyte.String
	if !seq.ReadASN1(&octets, cryptobyte_asn1.OCTET_STRING) {
		return invalidEncoding("privateKey")
	}
	if !seq.SkipOptionalASN1(cryptobyte_asn1.Tag(0).Constructed().ContextSpecific()) ||
		!seq.SkipOptionalASN1(cryptobyte_asn1.Tag(1).ContextSpecific()) ||
		!seq.Empty() {
		return invalidEncoding("PrivateKeyInfo trailer")
	}
	x := new(big.Int)
	defer secureZeroInt(x)
	if !readPositive(&octets, x) || !octets.Empty() {
		return invalidEncoding("private value")
	}
	priv := x.Bytes()
	defer secureZero(priv)
	return k.ImportKeyPair(priv, nil)
}

// DERCodec encodes keys as DER: PKCS #8 when a private value is present,
// SubjectPublicKeyInfo when only a public value is, and bare parameters
// otherwise.
type DERCodec struct{}

var _ KeyCodec = DERCodec{}

// Encode implements KeyCodec.
func (DERCodec) Encode(k *Key) ([]byte, error) {
	der, _, err := encodeDER(k)
	return der, err
}

// Decode implements KeyCodec.
func (DERCodec) Decode(data []byte, cfg Config) (*Key, error) {
	return ParseKey(data, cfg)
}

// encodeDER returns the DER encoding of k and its PEM block type.
func encodeDER(k *Key) ([]byte, string, error) {
	if err := k.ensureParams(); err != nil {
		return nil, "", err
	}
	switch {
	case k.priv != nil:
		der, err := MarshalPKCS8PrivateKey(k)
		return der, pemTypePrivateKey, err
	case k.pub != nil:
		der, err := MarshalPKIXPublicKey(k)
		return der, pemTypePublicKey, err
	case useX942(k.params()):
		der, err := MarshalX942Parameters(k.params())
		return der, pemTypeX942Params, err
	default:
		der, err := MarshalParameters(k.params())
		return der, pemTypeParams, err
	}
}

// PEMCodec is DERCodec wrapped in PEM armour.
type PEMCodec struct{}

var _ KeyCodec = PEMCodec{}

// Encode implements KeyCodec.
func (PEMCodec) Encode(k *Key) ([]byte, error) {
	return EncodePEM(k)
}

// Decode implements KeyCodec.
func (PEMCodec) Decode(data []byte, cfg Config) (*Key, error) {
	return DecodePEM(data, cfg)
}

// EncodePEM returns the PEM encoding chosen by DERCodec.
func EncodePEM(k *Key) ([]byte, error) {
	der, blockType, err := encodeDER(k)
	if err != nil {
		return nil, err
	}
	out := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if blockType == pemTypePrivateKey {
		secureZero(der)
	}
	return out, nil
}

// DecodePEM parses the first PEM block in data.
func DecodePEM(data []byte, cfg Config) (*Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, invalidEncoding("no PEM block")
	}
	switch block.Type {
	case pemTypeParams, pemTypeX942Params, pemTypePublicKey, pemTypePrivateKey:
		return ParseKey(block.Bytes, cfg)
	default:
		return nil, wrapf(ErrInvalidEncoding, "unexpected PEM block %q", block.Type)
	}
}
