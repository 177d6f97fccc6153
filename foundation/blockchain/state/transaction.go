package state

import (
	"fmt"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
)

// AddTransaction validates a transaction and adds it to the end of the
// mempool. There is no balance check, an account is free to overspend.
func (s *State) AddTransaction(tx database.Tx) error {
	if tx.FromID == "" || tx.ToID == "" {
		return fmt.Errorf("%w: transaction must contain to and from address", database.ErrInvalidTransaction)
	}

	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", database.ErrInvalidTransaction, err)
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: AddTransaction: tx[%s]: mempool[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
