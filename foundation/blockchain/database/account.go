package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
)

// addressLength is the number of hex characters in an address derived from
// an uncompressed secp256k1 public key.
const addressLength = 130

// AccountID represents an address that receives value and, when derived from
// a public key, signs transactions. The empty AccountID is the system account
// that mints mining rewards.
type AccountID string

// SystemAccountID is the sender of every mining reward transaction.
const SystemAccountID AccountID = ""

// ToAccountID converts a hex-encoded public key to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(signature.PublicKeyToAddress(pk))
}

// IsSystem reports whether this is the reward minting account.
func (a AccountID) IsSystem() bool {
	return a == SystemAccountID
}

// IsAccountID verifies whether the underlying data represents a hex-encoded
// uncompressed public key. Recipients are not required to pass this check,
// only senders are, since only they need to be verified.
func (a AccountID) IsAccountID() bool {
	return len(a) == addressLength && a[:2] == "04" && isHex(a)
}

// Short returns an abbreviated form of the account for logging.
func (a AccountID) Short() string {
	switch {
	case a.IsSystem():
		return "system"
	case len(a) <= 12:
		return string(a)
	}

	return string(a[:6]) + ".." + string(a[len(a)-4:])
}

// =============================================================================

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
