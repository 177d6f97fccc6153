// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Default values used when no genesis file is provided.
const (
	DefaultDifficulty   = 2
	DefaultMiningReward = 100
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	Difficulty   uint16    `json:"difficulty"`    // How difficult it needs to be to solve the work problem.
	MiningReward int64     `json:"mining_reward"` // Reward for mining a block.
}

// New constructs a genesis value from the specified chain parameters.
func New(difficulty uint16, miningReward int64) Genesis {
	return Genesis{
		Date:         time.Now().UTC(),
		Difficulty:   difficulty,
		MiningReward: miningReward,
	}
}

// Default returns the chain parameters of the original demo chain.
func Default() Genesis {
	return New(DefaultDifficulty, DefaultMiningReward)
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	return genesis, nil
}
