package ffdh

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestMLDSASignVerify(t *testing.T) {
	tests := []struct {
		name    string
		sig     SignatureFunc
		pubLen  int
		privLen int
		sigLen  int
	}{
		{"MLDSA44", SigMLDSA44, MLDSA44PublicKeySize, MLDSA44PrivateKeySize, MLDSA44SignatureSize},
		{"MLDSA65", SigMLDSA65, MLDSA65PublicKeySize, MLDSA65PrivateKeySize, MLDSA65SignatureSize},
		{"MLDSA87", SigMLDSA87, MLDSA87PublicKeySize, MLDSA87PrivateKeySize, MLDSA87SignatureSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sig.SignatureName() != tt.name {
				t.Errorf("SignatureName() = %q", tt.sig.SignatureName())
			}
			if tt.sig.PublicKeyLen() != tt.pubLen || tt.sig.PrivateKeyLen() != tt.privLen || tt.sig.SignatureLen() != tt.sigLen {
				t.Fatal("reported sizes do not match constants")
			}

			key, err := tt.sig.GenerateSigningKey(nil)
			if err != nil {
				t.Fatalf("GenerateSigningKey failed: %v", err)
			}
			if len(key.Public) != tt.pubLen || len(key.Private) != tt.privLen {
				t.Fatalf("key sizes %d/%d", len(key.Public), len(key.Private))
			}

			msg := []byte("ffdh public value")
			sig, err := tt.sig.Sign(key.Private, msg)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if len(sig) != tt.sigLen {
				t.Fatalf("signature size %d", len(sig))
			}
			if err := tt.sig.Verify(key.Public, msg, sig); err != nil {
				t.Fatalf("Verify failed: %v", err)
			}

			if err := tt.sig.Verify(key.Public, []byte("other message"), sig); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("tampered message: expected ErrInvalidSignature, got %v", err)
			}
			bad := bytes.Clone(sig)
			bad[0] ^= 0x01
			if err := tt.sig.Verify(key.Public, msg, bad); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("tampered signature: expected ErrInvalidSignature, got %v", err)
			}
			if err := tt.sig.Verify(key.Public, msg, sig[:len(sig)-1]); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("short signature: expected ErrInvalidSignature, got %v", err)
			}
			if err := tt.sig.Verify(key.Public[1:], msg, sig); !errors.Is(err, ErrInvalidSigningKey) {
				t.Errorf("short public key: expected ErrInvalidSigningKey, got %v", err)
			}
			if _, err := tt.sig.Sign(key.Private[1:], msg); !errors.Is(err, ErrInvalidSigningKey) {
				t.Errorf("short private key: expected ErrInvalidSigningKey, got %v", err)
			}
		})
	}
}

func TestMLDSADeterministicKeys(t *testing.T) {
	a, err := SigMLDSA44.GenerateSigningKey(rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := SigMLDSA44.GenerateSigningKey(rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Public, b.Public) || !bytes.Equal(a.Private, b.Private) {
		t.Error("same seed produced different signing keys")
	}

	s1, _ := SigMLDSA44.Sign(a.Private, []byte("m"))
	s2, _ := SigMLDSA44.Sign(a.Private, []byte("m"))
	if !bytes.Equal(s1, s2) {
		t.Error("signing is not deterministic")
	}

	if _, err := SigMLDSA44.GenerateSigningKey(bytes.NewReader(nil)); !errors.Is(err, ErrRandomUnavailable) {
		t.Errorf("expected ErrRandomUnavailable, got %v", err)
	}
}

func TestSignatureForLevel(t *testing.T) {
	for level, want := range map[int]string{2: "MLDSA44", 3: "MLDSA65", 5: "MLDSA87"} {
		sig, err := SignatureForLevel(level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if sig.SignatureName() != want {
			t.Errorf("level %d: got %s", level, sig.SignatureName())
		}
	}
	for _, level := range []int{0, 1, 4, 6} {
		if _, err := SignatureForLevel(level); !errors.Is(err, ErrUnsupportedLevel) {
			t.Errorf("level %d: expected ErrUnsupportedLevel, got %v", level, err)
		}
	}
}
