package cmd

import (
	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	privateKey, err := signature.GenerateKey()
	if err != nil {
		return err
	}

	path := getPrivateKeyPath()
	if err := signature.SaveKey(path, privateKey); err != nil {
		return err
	}

	accountID := database.PublicKeyToAccountID(privateKey.PublicKey)

	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Key", "Value"},
		{"Private Key", signature.KeyToHex(privateKey)},
		{"Public Key", string(accountID)},
		{"File", path},
	}).Render()
}
