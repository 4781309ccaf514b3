package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invisible-growth/leadfinder/internal/store"
	"github.com/invisible-growth/leadfinder/pkg/zoominfo"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect or clear the stored API credential",
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credential's validity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		// nil client: status never authenticates, it only reads the store.
		tokens := zoominfo.NewTokenManager(nil, st)
		if err := tokens.LoadStored(ctx); err != nil {
			return err
		}

		if !tokens.IsValid() {
			fmt.Println("no valid token stored")
			return nil
		}
		fmt.Printf("token valid until %s\n", tokens.ExpiresAt().Format(time.RFC3339))
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		tokens := zoominfo.NewTokenManager(nil, st)
		if err := tokens.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("token cleared")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenStatusCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
