package main

import "github.com/cleggacus/cleggcoin/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
