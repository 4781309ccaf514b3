package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invisible-growth/leadfinder/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List search history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.ListHistory(ctx, historyLimit)
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearHistory(ctx); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 100, "max entries to list")
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
