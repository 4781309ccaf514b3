package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/extract"
	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/internal/resolve"
)

var (
	findSource string
	findWait   bool
	findAI     bool
)

var findCmd = &cobra.Command{
	Use:   "find <url|file>",
	Short: "Extract a person from a profile page and find their email",
	Long:  "Fetches the page, extracts the person and company names, and resolves an email through the primary enrichment API. With --wait, a miss triggers the fallback workflow and blocks until it finishes or the polling window closes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		source, err := parseSource(findSource)
		if err != nil {
			return err
		}

		doc, err := fetchTarget(ctx, env, args[0])
		if err != nil {
			return err
		}

		result := extractProfile(env, doc)
		if (result.PersonName == "" || result.CompanyName == "") && findAI && env.AI != nil {
			result = aiFallback(ctx, env, doc, result)
		}
		if result.PersonName == "" {
			return eris.Wrap(extract.ErrNoCandidate, "could not identify person")
		}
		if result.CompanyName == "" {
			return eris.Wrap(extract.ErrNoCandidate, "could not identify company")
		}
		zap.L().Info("profile extracted",
			zap.String("person", result.PersonName),
			zap.String("company", result.CompanyName))

		return resolveAndReport(ctx, env, result.PersonName, result.CompanyName, source, findWait)
	},
}

// resolveAndReport runs the primary resolution and, when asked to wait,
// drives the fallback workflow through its polling window.
func resolveAndReport(ctx context.Context, env *appEnv, personName, companyName string, source model.Source, wait bool) error {
	out, err := env.Resolver.Resolve(ctx, personName, companyName, source)
	if err != nil {
		return err
	}

	if out.Status == resolve.StatusSucceeded || !wait {
		return printJSON(out)
	}

	job, err := env.Resolver.TriggerFallback(ctx, personName, companyName, source)
	if err != nil {
		return err
	}
	zap.L().Info("waiting for fallback enrichment", zap.String("job_id", job.ID))

	done, err := env.Resolver.AwaitFallback(ctx, job.ID, cfg.Clay.PollInterval(), cfg.Clay.MaxPolls)
	if err != nil {
		return err
	}
	return printJSON(done)
}

func parseSource(s string) (model.Source, error) {
	switch s {
	case "linkedin":
		return model.SourceLinkedIn, nil
	case "sales-navigator":
		return model.SourceSalesNav, nil
	default:
		return "", eris.Errorf("unknown source %q (want linkedin or sales-navigator)", s)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	findCmd.Flags().StringVar(&findSource, "source", "linkedin", "search source (linkedin or sales-navigator)")
	findCmd.Flags().BoolVar(&findWait, "wait", false, "trigger the fallback workflow and wait for it when no email is found")
	findCmd.Flags().BoolVar(&findAI, "ai", false, "fall back to AI extraction when scraping is incomplete")
	rootCmd.AddCommand(findCmd)
}
