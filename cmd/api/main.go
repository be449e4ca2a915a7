package main

import (
	"os"

	"github.com/fkhayef/splitledger/cmd/api/commands"
)

// @title                       Splitledger API
// @version                     1.0
// @description                 Shared-expense ledger: groups, expenses with flexible splits, balances and settlements.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
