package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load the chain parameters from a genesis file.")
	{
		path := filepath.Join(t.TempDir(), "genesis.json")
		data := []byte(`{"date":"2022-01-01T00:00:00Z","difficulty":3,"mining_reward":50}`)
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write the genesis file: %s", failed, err)
		}

		gen, err := genesis.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the genesis file: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the genesis file.", success)

		if gen.Difficulty != 3 || gen.MiningReward != 50 {
			t.Logf("\t%s\tgot: %+v", failed, gen)
			t.Fatalf("\t%s\tShould get back the configured values.", failed)
		}
		t.Logf("\t%s\tShould get back the configured values.", success)

		if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Fatalf("\t%s\tShould fail for a missing file.", failed)
		}
		t.Logf("\t%s\tShould fail for a missing file.", success)

		def := genesis.Default()
		if def.Difficulty != genesis.DefaultDifficulty || def.MiningReward != genesis.DefaultMiningReward {
			t.Fatalf("\t%s\tShould provide the default chain parameters.", failed)
		}
		t.Logf("\t%s\tShould provide the default chain parameters.", success)
	}
}
