// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"sync"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/genesis"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/mempool"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/storage/memory"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
// When no storage is provided the chain is kept in memory.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler
}

// State manages the blockchain database.
type State struct {
	mu       sync.RWMutex
	miningMu sync.Mutex

	evHandler   EventHandler
	genesis     genesis.Genesis
	difficulty  uint
	latestBlock database.Block

	mempool *mempool.Mempool
	storage database.Storage

	Worker Worker
}

// New constructs a new blockchain for data management. An empty storage gets
// the genesis block, existing blocks are adopted as they are.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	strg := cfg.Storage
	if strg == nil {
		strg = memory.New()
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := database.ReadAll(strg)
	if err != nil {
		return nil, err
	}

	// A new chain always starts with exactly one genesis block.
	if len(blocks) == 0 {
		genesisBlock := database.NewGenesisBlock()
		if err := strg.Write(genesisBlock); err != nil {
			return nil, err
		}

		ev("state: New: created genesis block: blk[%s]", genesisBlock.Hash)
		blocks = append(blocks, genesisBlock)
	}

	state := State{
		evHandler:   ev,
		genesis:     cfg.Genesis,
		difficulty:  uint(cfg.Genesis.Difficulty),
		latestBlock: blocks[len(blocks)-1],
		mempool:     mempool.New(),
		storage:     strg,
	}

	// Blocks that were already stored are not trusted, but they are kept so
	// the problem can be reported by Validate.
	if len(blocks) > 1 {
		if err := state.Validate(); err != nil {
			ev("state: New: WARNING: stored chain is invalid: %s", err)
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down. The storage is closed once all
// blockchain writing activity has stopped.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	if err := s.storage.Close(); err != nil {
		s.evHandler("state: Shutdown: ERROR: closing storage: %s", err)
		return fmt.Errorf("closing storage: %w", err)
	}

	return nil
}
