// Command vectorgen writes deterministic FFDHE agreement test vectors as JSON.
//
// Every random value is drawn from an HKDF stream keyed by --seed, so the
// same seed always reproduces the same file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-i2p/ffdh"
	"github.com/go-i2p/logger"
	"github.com/spf13/cobra"
)

var log = logger.GetGoI2PLogger()

var errShortSeed = fmt.Errorf("seed must be at least %d bytes", seedLen)

type agreementVector struct {
	Group        string `json:"group"`
	P            string `json:"p"`
	G            string `json:"g"`
	AlicePrivate string `json:"alice_private"`
	AlicePublic  string `json:"alice_public"`
	BobPrivate   string `json:"bob_private"`
	BobPublic    string `json:"bob_public"`
	Shared       string `json:"shared"`
	Derived      string `json:"derived,omitempty"`
}

type signatureVector struct {
	Scheme    string `json:"scheme"`
	Public    string `json:"public"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type vectorFile struct {
	Agreements []agreementVector `json:"agreements"`
	Signatures []signatureVector `json:"signatures,omitempty"`
}

var (
	seedHex    string
	outPath    string
	groupNames []string
	deriveLen  int
	sigLevels  []int
)

var rootCmd = &cobra.Command{
	Use:   "vectorgen",
	Short: "Generate deterministic FFDHE test vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := decodeSeed(seedHex)
		if err != nil {
			return fmt.Errorf("--seed: %w", err)
		}
		groups, err := selectGroups(groupNames)
		if err != nil {
			return err
		}
		var vf vectorFile
		for _, id := range groups {
			v, err := agreement(seed, id, deriveLen)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			log.WithField("group", id.String()).Debug("vectorgen: agreement vector generated")
			vf.Agreements = append(vf.Agreements, v)
		}
		for _, level := range sigLevels {
			v, err := signature(seed, level)
			if err != nil {
				return err
			}
			vf.Signatures = append(vf.Signatures, v)
		}
		return write(cmd, vf)
	},
}

func init() {
	rootCmd.Flags().StringVar(&seedHex, "seed", strings.Repeat("00", seedLen), "hex seed for all random values")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	rootCmd.Flags().StringSliceVar(&groupNames, "group", nil, "groups to include, e.g. FFDHE2048 (default all)")
	rootCmd.Flags().IntVar(&deriveLen, "derive", 32, "HKDF-SHA256 output length, 0 to skip")
	rootCmd.Flags().IntSliceVar(&sigLevels, "mldsa", nil, "ML-DSA security levels to include (2, 3, 5)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func selectGroups(names []string) ([]ffdh.NamedGroup, error) {
	all := ffdh.NamedGroups()
	if len(names) == 0 {
		return all, nil
	}
	out := make([]ffdh.NamedGroup, 0, len(names))
	for _, name := range names {
		found := false
		for _, id := range all {
			if strings.EqualFold(id.String(), name) {
				out = append(out, id)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown group %q: %w", name, ffdh.ErrUnknownGroup)
		}
	}
	return out, nil
}

func party(seed []byte, id ffdh.NamedGroup, name string) (*ffdh.Key, error) {
	k := ffdh.NewKey(ffdh.Config{Random: labelReader(seed, id.String()+"/"+name)})
	if err := k.SetNamedGroup(id); err != nil {
		return nil, err
	}
	if err := k.GenerateKey(); err != nil {
		return nil, err
	}
	return k, nil
}

func agreement(seed []byte, id ffdh.NamedGroup, derive int) (agreementVector, error) {
	alice, err := party(seed, id, "alice")
	if err != nil {
		return agreementVector{}, err
	}
	defer alice.Free()
	bob, err := party(seed, id, "bob")
	if err != nil {
		return agreementVector{}, err
	}
	defer bob.Free()

	shared, err := alice.Agree(nil, bob.PublicValue())
	if err != nil {
		return agreementVector{}, err
	}
	check, err := bob.Agree(nil, alice.PublicValue())
	if err != nil {
		return agreementVector{}, err
	}
	if string(shared) != string(check) {
		return agreementVector{}, errors.New("shared secrets differ")
	}

	p, g, _, err := alice.ExportParams()
	if err != nil {
		return agreementVector{}, err
	}
	alicePriv, _, err := alice.ExportKeyPair()
	if err != nil {
		return agreementVector{}, err
	}
	bobPriv, _, err := bob.ExportKeyPair()
	if err != nil {
		return agreementVector{}, err
	}
	v := agreementVector{
		Group:        id.String(),
		P:            hexString(p),
		G:            hexString(g),
		AlicePrivate: hexString(alicePriv),
		AlicePublic:  hexString(alice.PublicValue()),
		BobPrivate:   hexString(bobPriv),
		BobPublic:    hexString(bob.PublicValue()),
		Shared:       hexString(shared),
	}
	if derive > 0 {
		okm, err := ffdh.DeriveKey(shared, nil, []byte(id.String()), derive)
		if err != nil {
			return agreementVector{}, err
		}
		v.Derived = hexString(okm)
	}
	return v, nil
}

func signature(seed []byte, level int) (signatureVector, error) {
	sf, err := ffdh.SignatureForLevel(level)
	if err != nil {
		return signatureVector{}, err
	}
	key, err := sf.GenerateSigningKey(labelReader(seed, sf.SignatureName()))
	if err != nil {
		return signatureVector{}, err
	}
	msg := []byte("ffdh test vector " + sf.SignatureName())
	sig, err := sf.Sign(key.Private, msg)
	if err != nil {
		return signatureVector{}, err
	}
	return signatureVector{
		Scheme:    sf.SignatureName(),
		Public:    hexString(key.Public),
		Message:   hexString(msg),
		Signature: hexString(sig),
	}, nil
}

func write(cmd *cobra.Command, vf vectorFile) error {
	data, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
