package state

import (
	"errors"
	"fmt"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
)

// Validate walks every block after genesis and checks it's linked to its
// parent, its hash matches its contents and every transaction is signed
// properly. The first violation is returned.
func (s *State) Validate() error {
	blocks, err := database.ReadAll(s.storage)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return errors.New("chain has no genesis block")
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].Validate(blocks[i-1]); err != nil {
			return fmt.Errorf("block[%d]: %w", i, err)
		}
	}

	return nil
}

// IsValid reports whether the whole chain passes Validate.
func (s *State) IsValid() bool {
	return s.Validate() == nil
}
