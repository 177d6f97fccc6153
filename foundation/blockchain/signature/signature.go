// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decred "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
)

// HashLength is the number of hex characters in a hash produced by Hash.
const HashLength = 2 * sha512.Size

// ErrInvalidSignature is returned when a signature does not verify against
// the provided digest and address.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Hash returns the hex encoded SHA-512 digest of the concatenated parts.
func Hash(parts ...string) string {
	h := sha512.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// GenerateKey creates a new secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// HexToKey parses a hex encoded secp256k1 private key.
func HexToKey(hexKey string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
}

// LoadKey reads a hex encoded private key from the specified file.
func LoadKey(path string) (*ecdsa.PrivateKey, error) {
	return crypto.LoadECDSA(path)
}

// SaveKey writes the private key to the specified file in hex.
func SaveKey(path string, privateKey *ecdsa.PrivateKey) error {
	return crypto.SaveECDSA(path, privateKey)
}

// KeyToHex returns the hex encoding of the private key.
func KeyToHex(privateKey *ecdsa.PrivateKey) string {
	return hex.EncodeToString(crypto.FromECDSA(privateKey))
}

// PublicKeyToAddress converts the public key into an address. The address is
// the hex encoding of the uncompressed 65 byte public key.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return hex.EncodeToString(crypto.FromECDSAPub(&pk))
}

// AddressToPublicKey recovers the public key carried by an address.
func AddressToPublicKey(address string) (*ecdsa.PublicKey, error) {
	data, err := hex.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("decoding address: %w", err)
	}

	pk, err := crypto.UnmarshalPubkey(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal public key: %w", err)
	}

	return pk, nil
}

// Sign uses the specified private key to sign the hex encoded digest. The
// signature is deterministic (RFC6979) and returned as hex encoded DER.
func Sign(digest string, privateKey *ecdsa.PrivateKey) (string, error) {
	data, err := hex.DecodeString(digest)
	if err != nil {
		return "", fmt.Errorf("decoding digest: %w", err)
	}

	// Move the key into the curve implementation that supports DER.
	key := secp256k1.PrivKeyFromBytes(crypto.FromECDSA(privateKey))
	defer key.Zero()

	sig := decred.Sign(key, data)

	// Check the signature against our own public key before handing it out.
	if !sig.Verify(data, key.PubKey()) {
		return "", ErrInvalidSignature
	}

	return hex.EncodeToString(sig.Serialize()), nil
}

// Verify checks the hex encoded DER signature was produced over the digest
// by the private key belonging to the address.
func Verify(digest string, sigHex string, address string) error {
	data, err := hex.DecodeString(digest)
	if err != nil {
		return fmt.Errorf("decoding digest: %w", err)
	}

	pubBytes, err := hex.DecodeString(address)
	if err != nil {
		return fmt.Errorf("decoding address: %w", err)
	}

	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}

	der, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	sig, err := decred.ParseDERSignature(der)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	if !sig.Verify(data, pub) {
		return ErrInvalidSignature
	}

	return nil
}
