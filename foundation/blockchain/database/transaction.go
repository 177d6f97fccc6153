package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strconv"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
)

// Set of errors returned when signing and validating transactions.
var (
	ErrAuthorization      = errors.New("signing key does not belong to the sender")
	ErrMissingSignature   = errors.New("transaction is not signed")
	ErrInvalidSignature   = errors.New("transaction signature does not verify")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// =============================================================================

// Tx is the transactional information between two parties. The field order
// is part of the block hash, since blocks hash the JSON of their transactions.
type Tx struct {
	FromID    AccountID `json:"from"`                // Account sending the value, empty for rewards.
	ToID      AccountID `json:"to"`                  // Account receiving the value.
	Amount    int64     `json:"amount"`              // Value moved from the sender to the receiver.
	Signature string    `json:"signature,omitempty"` // Hex encoded DER signature over Digest.
}

// NewTx constructs a new unsigned transaction.
func NewTx(fromID AccountID, toID AccountID, amount int64) Tx {
	return Tx{
		FromID: fromID,
		ToID:   toID,
		Amount: amount,
	}
}

// NewRewardTx constructs the transaction that pays the mining reward. It comes
// from the system account and never carries a signature.
func NewRewardTx(toID AccountID, amount int64) Tx {
	return NewTx(SystemAccountID, toID, amount)
}

// Digest returns the hash that is signed for this transaction. The amount is
// formatted in base 10 so the digest is reproducible everywhere.
func (tx Tx) Digest() string {
	return signature.Hash(string(tx.FromID), string(tx.ToID), strconv.FormatInt(tx.Amount, 10))
}

// Sign uses the specified private key to sign the transaction. The key must
// belong to the sender. Signing again replaces the previous signature.
func (tx *Tx) Sign(privateKey *ecdsa.PrivateKey) error {
	if PublicKeyToAccountID(privateKey.PublicKey) != tx.FromID {
		return ErrAuthorization
	}

	sig, err := signature.Sign(tx.Digest(), privateKey)
	if err != nil {
		return err
	}

	tx.Signature = sig

	return nil
}

// IsSystem reports whether this transaction was minted by the system.
func (tx Tx) IsSystem() bool {
	return tx.FromID.IsSystem()
}

// Validate verifies the transaction has a signature from the sender over
// the transaction digest. System transactions are always valid.
func (tx Tx) Validate() error {
	if tx.IsSystem() {
		return nil
	}

	if tx.Signature == "" {
		return ErrMissingSignature
	}

	if err := signature.Verify(tx.Digest(), tx.Signature, string(tx.FromID)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return nil
}

// IsValid reports whether Validate passes. It never fails for a missing
// signature, that just makes the transaction invalid.
func (tx Tx) IsValid() bool {
	return tx.Validate() == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.FromID.Short(), tx.ToID.Short(), tx.Amount)
}
