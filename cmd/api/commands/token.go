package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fkhayef/splitledger/internal/auth"
	"github.com/fkhayef/splitledger/internal/member"
)

var (
	tokenMemberID string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a member",
	Long: `Prints a signed JWT for an existing member. Useful for local
testing and for scripts that call the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		m, err := member.NewService(member.NewRepository(db)).GetByID(cmd.Context(), tokenMemberID)
		if err != nil {
			return err
		}

		ttl := cfg.TokenTTL
		if tokenTTL > 0 {
			ttl = tokenTTL
		}
		token, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, ttl).Issue(m.ID, m.Email, m.Name)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenMemberID, "member", "", "member ID to issue the token for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	_ = tokenCmd.MarkFlagRequired("member")
	rootCmd.AddCommand(tokenCmd)
}
