// Package database provides the transaction and block types of the chain
// along with the storage contract used to hold the blocks.
package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain. Blocks
// are numbered from zero, the genesis block.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Count() int
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// ReadAll walks the storage and returns every block in order.
func ReadAll(storage Storage) ([]Block, error) {
	var blocks []Block

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
