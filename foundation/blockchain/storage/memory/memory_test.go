package memory_test

import (
	"errors"
	"testing"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Memory(t *testing.T) {
	t.Log("Given the need to store blocks in memory.")
	{
		m := memory.New()

		genesis := database.NewGenesisBlock()
		next := database.NewBlock(genesis.Hash, []database.Tx{database.NewRewardTx("miner", 100)})

		for _, b := range []database.Block{genesis, next} {
			if err := m.Write(b); err != nil {
				t.Fatalf("\t%s\tShould be able to write a block: %s", failed, err)
			}
		}
		if m.Count() != 2 {
			t.Fatalf("\t%s\tShould have two blocks, got %d.", failed, m.Count())
		}
		t.Logf("\t%s\tShould be able to write blocks.", success)

		next.Trans[0].Amount = 1
		b, err := m.GetBlock(1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read a block: %s", failed, err)
		}
		if b.Trans[0].Amount != 100 {
			t.Fatalf("\t%s\tShould not share memory with the written block.", failed)
		}

		b.Trans[0].Amount = 2
		b, _ = m.GetBlock(1)
		if b.Trans[0].Amount != 100 {
			t.Fatalf("\t%s\tShould not share memory with a read block.", failed)
		}
		t.Logf("\t%s\tShould hold its own copy of every block.", success)

		if _, err := m.GetBlock(2); !errors.Is(err, memory.ErrNotFound) {
			t.Fatalf("\t%s\tShould fail for a block past the end: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail for a block past the end.", success)

		blocks, err := database.ReadAll(m)
		if err != nil || len(blocks) != 2 || blocks[0].Hash != genesis.Hash || blocks[1].Hash != next.Hash {
			t.Fatalf("\t%s\tShould iterate the blocks in order: %v", failed, err)
		}
		t.Logf("\t%s\tShould iterate the blocks in order.", success)

		if err := m.Reset(); err != nil || m.Count() != 0 {
			t.Fatalf("\t%s\tShould be able to reset the chain.", failed)
		}
		if blocks, _ := database.ReadAll(m); len(blocks) != 0 {
			t.Fatalf("\t%s\tShould iterate nothing after a reset.", failed)
		}
		t.Logf("\t%s\tShould be able to reset the chain.", success)
	}
}
