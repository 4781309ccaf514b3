package main

import (
	"github.com/spf13/cobra"
)

var (
	enrichSource string
	enrichWait   bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <person name> <company name>",
	Short: "Resolve an email for a known (person, company) pair",
	Long:  "Skips scraping and resolves the given pair through the primary enrichment API. With --wait, a miss triggers the fallback workflow and blocks until it finishes.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		source, err := parseSource(enrichSource)
		if err != nil {
			return err
		}

		return resolveAndReport(ctx, env, args[0], args[1], source, enrichWait)
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichSource, "source", "linkedin", "search source (linkedin or sales-navigator)")
	enrichCmd.Flags().BoolVar(&enrichWait, "wait", false, "trigger the fallback workflow and wait for it when no email is found")
	rootCmd.AddCommand(enrichCmd)
}
