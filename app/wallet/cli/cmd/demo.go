package cmd

import (
	"context"
	"fmt"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/genesis"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/state"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/storage/memory"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// The demo chain is always built from the same wallet and recipient.
const (
	demoHexKey      = "944d3b0607a8327bfef0658c4d3971df7d4ebd793cc5d3ddf03725d8b7509423"
	demoRecipientID = database.AccountID("u3tyt938g49g38g8349834yt4g9h4408h3894hg")
	demoAmount      = 10
)

var (
	tamper  bool
	verbose bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build, mine and validate a small chain in memory",
	RunE:  demoRun,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().BoolVar(&tamper, "tamper", false, "Change the first mined transaction before validating.")
	demoCmd.Flags().BoolVar(&verbose, "verbose", false, "Print the chain events.")
}

// demoResult is the outcome of a demo run.
type demoResult struct {
	AccountID        database.AccountID
	InitBalance      int64
	Balance          int64
	RecipientBalance int64
	Blocks           []database.Block
	Valid            bool
	ValidateErr      error
}

func demoRun(cmd *cobra.Command, args []string) error {
	var ev state.EventHandler
	if verbose {
		ev = func(v string, args ...any) {
			pterm.Debug.Printfln(v, args...)
		}
		pterm.EnableDebugMessages()
	}

	res, err := runDemo(cmd.Context(), genesis.Default(), tamper, ev)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Wallet")
	pterm.Println("Wallet Address :", string(res.AccountID))

	pterm.DefaultSection.Println("Blocks")
	data := pterm.TableData{{"#", "Hash", "Previous", "Nonce", "Transactions"}}
	for i, blk := range res.Blocks {
		data = append(data, []string{
			fmt.Sprint(i),
			short(blk.Hash),
			short(blk.Header.PrevBlockHash),
			fmt.Sprint(blk.Header.Nonce),
			fmt.Sprint(len(blk.Trans)),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Balances")
	if err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"", "Account", "Balance"},
		{"Init Balance", res.AccountID.Short(), fmt.Sprint(res.InitBalance)},
		{"Final Balance", res.AccountID.Short(), fmt.Sprint(res.Balance)},
		{"Receiver Balance", string(demoRecipientID), fmt.Sprint(res.RecipientBalance)},
	}).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Validity")
	if res.Valid {
		pterm.Success.Println("chain is valid")
		return nil
	}
	pterm.Error.Println("chain is invalid:", res.ValidateErr)

	return nil
}

// runDemo signs a single transfer from the demo wallet, mines it with the
// reward paid back to the same wallet and validates the chain. When tamper
// is set the amount of the first mined transaction is changed first.
func runDemo(ctx context.Context, gen genesis.Genesis, tamper bool, ev state.EventHandler) (demoResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	privateKey, err := signature.HexToKey(demoHexKey)
	if err != nil {
		return demoResult{}, fmt.Errorf("parsing demo key: %w", err)
	}
	accountID := database.PublicKeyToAccountID(privateKey.PublicKey)

	strg := memory.New()
	st, err := state.New(state.Config{
		Genesis:   gen,
		Storage:   strg,
		EvHandler: ev,
	})
	if err != nil {
		return demoResult{}, err
	}
	defer st.Shutdown()

	initBal, err := st.AddressBalance(accountID)
	if err != nil {
		return demoResult{}, err
	}

	tx := database.NewTx(accountID, demoRecipientID, demoAmount)
	if err := tx.Sign(privateKey); err != nil {
		return demoResult{}, err
	}

	if err := st.AddTransaction(tx); err != nil {
		return demoResult{}, err
	}

	if _, err := st.MinePendingTransactions(ctx, accountID); err != nil {
		return demoResult{}, err
	}

	if tamper {
		if err := tamperFirstTx(strg); err != nil {
			return demoResult{}, err
		}
	}

	bal, err := st.AddressBalance(accountID)
	if err != nil {
		return demoResult{}, err
	}

	recipientBal, err := st.AddressBalance(demoRecipientID)
	if err != nil {
		return demoResult{}, err
	}

	blocks, err := st.Blocks()
	if err != nil {
		return demoResult{}, err
	}

	res := demoResult{
		AccountID:        accountID,
		InitBalance:      initBal,
		Balance:          bal,
		RecipientBalance: recipientBal,
		Blocks:           blocks,
		ValidateErr:      st.Validate(),
	}
	res.Valid = res.ValidateErr == nil

	return res, nil
}

// tamperFirstTx rewrites the storage with the amount of the first
// transaction of the first mined block set to 100.
func tamperFirstTx(strg *memory.Memory) error {
	blocks, err := database.ReadAll(strg)
	if err != nil {
		return err
	}

	if len(blocks) < 2 || len(blocks[1].Trans) == 0 {
		return fmt.Errorf("no mined transaction to tamper with")
	}
	blocks[1].Trans[0].Amount = 100

	if err := strg.Reset(); err != nil {
		return err
	}
	for _, blk := range blocks {
		if err := strg.Write(blk); err != nil {
			return err
		}
	}

	return nil
}

func short(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + ".."
}
