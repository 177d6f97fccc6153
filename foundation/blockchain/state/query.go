package state

import (
	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/genesis"
)

// AddressBalance replays every block after genesis and returns the net value
// received by the account. The balance can be negative.
func (s *State) AddressBalance(accountID database.AccountID) (int64, error) {
	var balance int64

	var num int
	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return 0, err
		}

		// Skip the genesis block.
		num++
		if num == 1 {
			continue
		}

		for _, tx := range block.Trans {
			if tx.FromID == accountID {
				balance -= tx.Amount
			}
			if tx.ToID == accountID {
				balance += tx.Amount
			}
		}
	}

	return balance, nil
}

// Blocks returns a copy of every block in the chain starting with genesis.
func (s *State) Blocks() ([]database.Block, error) {
	return database.ReadAll(s.storage)
}

// BlockByNumber returns a copy of the specified block.
func (s *State) BlockByNumber(num uint64) (database.Block, error) {
	return s.storage.GetBlock(num)
}

// BlockCount returns the number of blocks including genesis.
func (s *State) BlockCount() int {
	return s.storage.Count()
}

// LatestBlock returns a copy of the current latest block.
func (s *State) LatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock.Copy()
}

// Mempool returns a copy of the pending transactions in submission order.
func (s *State) Mempool() []database.Tx {
	return s.mempool.Copy()
}

// MempoolLength returns the current length of the mempool.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// MiningReward returns the value paid to the miner of each block.
func (s *State) MiningReward() int64 {
	return s.genesis.MiningReward
}

// Difficulty returns the number of leading zeros the next block must have.
func (s *State) Difficulty() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficulty
}

// SetDifficulty changes the difficulty used by the next mining operation.
func (s *State) SetDifficulty(difficulty uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SetDifficulty: difficulty[%d]", difficulty)
	s.difficulty = difficulty
}
