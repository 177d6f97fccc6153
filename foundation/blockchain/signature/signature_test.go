package signature_test

import (
	"errors"
	"testing"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey = "944d3b0607a8327bfef0658c4d3971df7d4ebd793cc5d3ddf03725d8b7509423"
	otherKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

	oneKey     = "0000000000000000000000000000000000000000000000000000000000000001"
	oneAddress = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	type table struct {
		name  string
		parts []string
		hash  string
	}

	tt := []table{
		{
			name:  "empty",
			parts: nil,
			hash:  "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		},
		{
			name:  "abc",
			parts: []string{"abc"},
			hash:  "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		},
		{
			name:  "concatenated",
			parts: []string{"a", "b", "c"},
			hash:  "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		},
	}

	t.Log("Given the need to hash values consistently.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				h := signature.Hash(tst.parts...)
				if h != tst.hash {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, h)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right hash.", success, testID)

				if h2 := signature.Hash(tst.parts...); h2 != h {
					t.Fatalf("\t%s\tTest %d:\tShould get back the same hash twice.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the same hash twice.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Address(t *testing.T) {
	t.Log("Given the need to derive an address from a private key.")
	{
		pk, err := signature.HexToKey(oneKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse the private key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to parse the private key.", success)

		addr := signature.PublicKeyToAddress(pk.PublicKey)
		if addr != oneAddress {
			t.Logf("\t%s\tgot: %s", failed, addr)
			t.Logf("\t%s\texp: %s", failed, oneAddress)
			t.Fatalf("\t%s\tShould get back the generator point as the address.", failed)
		}
		t.Logf("\t%s\tShould get back the generator point as the address.", success)

		pub, err := signature.AddressToPublicKey(addr)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to recover the public key: %s", failed, err)
		}
		if !pub.Equal(&pk.PublicKey) {
			t.Fatalf("\t%s\tShould recover the same public key.", failed)
		}
		t.Logf("\t%s\tShould recover the same public key.", success)

		if _, err := signature.AddressToPublicKey("zz"); err == nil {
			t.Fatalf("\t%s\tShould reject a malformed address.", failed)
		}
		t.Logf("\t%s\tShould reject a malformed address.", success)
	}
}

func Test_Signing(t *testing.T) {
	digest := signature.Hash("Bill")

	pk, err := signature.HexToKey(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to parse a private key: %s", err)
	}
	addr := signature.PublicKeyToAddress(pk.PublicKey)

	t.Log("Given the need to sign and verify a digest.")
	{
		sig, err := signature.Sign(digest, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign data.", success)

		if err := signature.Verify(digest, sig, addr); err != nil {
			t.Fatalf("\t%s\tShould be able to verify the signature: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)

		sig2, err := signature.Sign(digest, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data again: %s", failed, err)
		}
		if sig != sig2 {
			t.Logf("\t%s\tgot: %s", failed, sig2)
			t.Logf("\t%s\texp: %s", failed, sig)
			t.Fatalf("\t%s\tShould produce a deterministic signature.", failed)
		}
		t.Logf("\t%s\tShould produce a deterministic signature.", success)

		err = signature.Verify(signature.Hash("Jill"), sig, addr)
		if !errors.Is(err, signature.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould fail to verify a different digest: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail to verify a different digest.", success)

		other, err := signature.HexToKey(otherKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse the other private key: %s", failed, err)
		}

		err = signature.Verify(digest, sig, signature.PublicKeyToAddress(other.PublicKey))
		if !errors.Is(err, signature.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould fail to verify against another address: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail to verify against another address.", success)

		if err := signature.Verify(digest, "3006", addr); err == nil {
			t.Fatalf("\t%s\tShould reject a malformed signature.", failed)
		}
		t.Logf("\t%s\tShould reject a malformed signature.", success)
	}
}
