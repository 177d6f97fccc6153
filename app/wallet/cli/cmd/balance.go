package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type balance struct {
	Account     string `json:"account"`
	Name        string `json:"name"`
	Balance     int64  `json:"balance"`
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	privateKey, err := signature.LoadKey(getPrivateKeyPath())
	if err != nil {
		return err
	}

	accountID := database.PublicKeyToAccountID(privateKey.PublicKey)

	resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, accountID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	var bal balance
	if err := json.NewDecoder(resp.Body).Decode(&bal); err != nil {
		return err
	}

	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Account", "Name", "Balance", "Uncommitted"},
		{accountID.Short(), bal.Name, fmt.Sprint(bal.Balance), fmt.Sprint(bal.Uncommitted)},
	}).Render()
}
