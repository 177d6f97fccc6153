package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
)

// Set of errors returned when mining and validating blocks.
var (
	ErrDifficultyTooHigh = errors.New("difficulty is longer than the block hash")
	ErrBrokenLink        = errors.New("previous block hash does not match")
	ErrHashMismatch      = errors.New("block hash does not match its contents")
)

// =============================================================================

// BlockHeader represents the linkage information for each block.
type BlockHeader struct {
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain, empty for genesis.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was constructed in Unix milliseconds.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader `json:"header"`
	Hash   string      `json:"hash"`
	Trans  []Tx        `json:"trans"`
}

// NewBlock constructs a block linked to the previous hash with its initial
// hash computed for a nonce of zero. The block takes a copy of the
// transactions so later changes by the caller don't leak in.
func NewBlock(prevBlockHash string, trans []Tx) Block {
	b := Block{
		Header: BlockHeader{
			PrevBlockHash: prevBlockHash,
			TimeStamp:     uint64(time.Now().UTC().UnixMilli()),
			Nonce:         0,
		},
		Trans: copyTrans(trans),
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewGenesisBlock constructs the first block of a chain.
func NewGenesisBlock() Block {
	return NewBlock("", nil)
}

// ComputeHash returns the hash for the current contents of the block. The
// stored Hash field is never trusted, this is what it's compared against.
func (b Block) ComputeHash() string {
	data, err := json.Marshal(b.Trans)
	if err != nil {
		return ""
	}

	return signature.Hash(
		b.Header.PrevBlockHash,
		strconv.FormatUint(b.Header.TimeStamp, 10),
		string(data),
		strconv.FormatUint(b.Header.Nonce, 10),
	)
}

// Mine performs the work to find a nonce that solves the POW puzzle for the
// specified difficulty. The search is sequential from the current nonce and
// has no upper bound. Pointer semantics are being used since a nonce is
// being discovered.
func (b *Block) Mine(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if difficulty > signature.HashLength {
		return fmt.Errorf("%w: difficulty[%d]", ErrDifficultyTooHigh, difficulty)
	}

	ev("database: Mine: MINING: started: difficulty[%d]", difficulty)
	defer ev("database: Mine: MINING: completed")

	for _, tx := range b.Trans {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return ctx.Err()
		}

		b.Hash = b.ComputeHash()
		if isHashSolved(difficulty, b.Hash) {
			ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.Header.PrevBlockHash, b.Hash, b.Header.Nonce)
			return nil
		}

		b.Header.Nonce++
	}
}

// IsSolved reports whether the stored hash satisfies the difficulty.
func (b Block) IsSolved(difficulty uint) bool {
	return isHashSolved(difficulty, b.Hash)
}

// ValidateTransactions checks every transaction in order and returns the
// first failure.
func (b Block) ValidateTransactions() error {
	for i, tx := range b.Trans {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("tx[%d] %s: %w", i, tx, err)
		}
	}

	return nil
}

// HasValidTransactions reports whether every transaction is valid.
func (b Block) HasValidTransactions() bool {
	return b.ValidateTransactions() == nil
}

// ValidateLink checks the block points at the previous block and that its
// hash matches its contents.
func (b Block) ValidateLink(prevBlock Block) error {
	if b.Header.PrevBlockHash != prevBlock.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrBrokenLink, b.Header.PrevBlockHash, prevBlock.Hash)
	}

	if hash := b.ComputeHash(); b.Hash != hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrHashMismatch, b.Hash, hash)
	}

	return nil
}

// Validate takes a block and validates it against the block before it.
func (b Block) Validate(prevBlock Block) error {
	if err := b.ValidateLink(prevBlock); err != nil {
		return err
	}

	return b.ValidateTransactions()
}

// Copy returns a block that shares no memory with the original.
func (b Block) Copy() Block {
	b.Trans = copyTrans(b.Trans)
	return b
}

// =============================================================================

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	if len(hash) != signature.HashLength {
		return false
	}

	return hash[:difficulty] == strings.Repeat("0", int(difficulty))
}

// copyTrans always returns a non-nil slice so an empty block hashes the
// same whether it was built from nil or from zero transactions.
func copyTrans(trans []Tx) []Tx {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
