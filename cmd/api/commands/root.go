package commands

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fkhayef/splitledger/internal/config"
	"github.com/fkhayef/splitledger/pkg/logging"
)

// cfg is loaded once before any subcommand runs
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "splitledger",
	Short: "Splitledger - shared expense ledger",
	Long: `Splitledger tracks shared expenses within groups. Members log expenses
with equal, unequal, percent or weighted splits; the ledger keeps each
member's net balance in the group's base currency and suggests the fewest
payments that settle everyone up.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file found, using environment variables")
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
