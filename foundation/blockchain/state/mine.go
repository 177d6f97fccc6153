package state

import (
	"context"
	"fmt"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
)

// MinePendingTransactions packages the mempool plus a reward for the specified
// account into a new block, performs the POW and appends the block to the
// chain. Only one mining operation runs at a time. Transactions submitted
// while the block is being mined stay in the mempool for the next block.
func (s *State) MinePendingTransactions(ctx context.Context, rewardID database.AccountID) (database.Block, error) {
	if rewardID.IsSystem() {
		return database.Block{}, fmt.Errorf("%w: reward needs a receiving address", database.ErrInvalidTransaction)
	}

	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	s.evHandler("state: MinePendingTransactions: MINING: started")
	defer s.evHandler("state: MinePendingTransactions: MINING: completed")

	pending := s.mempool.Copy()
	trans := append(pending, database.NewRewardTx(rewardID, s.genesis.MiningReward))

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	block := database.NewBlock(s.LatestBlock().Hash, trans)
	if err := block.Mine(ctx, s.Difficulty(), s.evHandler); err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MinePendingTransactions: MINING: update local state")

	if err := s.updateLocalState(block, len(pending)); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// =============================================================================

// updateLocalState appends the block to storage and removes the mined
// transactions from the mempool.
func (s *State) updateLocalState(block database.Block, mined int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := block.Validate(s.latestBlock); err != nil {
		return fmt.Errorf("mined block is invalid: %w", err)
	}

	s.evHandler("state: updateLocalState: write to storage: blk[%s]", block.Hash)

	if err := s.storage.Write(block); err != nil {
		return err
	}
	s.latestBlock = block

	s.evHandler("state: updateLocalState: remove from mempool: txs[%d]", mined)

	s.mempool.Delete(mined)

	return nil
}
