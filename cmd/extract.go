package main

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/extract"
	"github.com/invisible-growth/leadfinder/internal/model"
)

var extractAI bool

var extractCmd = &cobra.Command{
	Use:   "extract <url|file>",
	Short: "Extract person and company names from a profile page",
	Long:  "Fetches a profile page (or reads a saved one from disk) and runs the tiered extraction. With --ai, incomplete extractions fall back to the language model.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		doc, err := fetchTarget(ctx, env, args[0])
		if err != nil {
			return err
		}

		result := extractProfile(env, doc)
		if (result.PersonName == "" || result.CompanyName == "") && extractAI {
			if env.AI == nil {
				zap.L().Warn("--ai requested but openai is not enabled in config")
			} else {
				result = aiFallback(ctx, env, doc, result)
			}
		}

		return printJSON(result)
	},
}

func fetchTarget(ctx context.Context, env *appEnv, target string) (*goquery.Document, error) {
	if isURL(target) {
		return env.Fetcher.Fetch(ctx, target)
	}
	return env.Fetcher.FetchFile(target)
}

func extractProfile(env *appEnv, doc *goquery.Document) model.ExtractionResult {
	var result model.ExtractionResult
	if name, ok := env.Extractor.ProfilePerson(doc); ok {
		result.PersonName = name
	}
	if company, ok := env.Extractor.ProfileCompany(doc, result.PersonName); ok {
		result.CompanyName = company
	}
	return result
}

// aiFallback fills only the fields traditional extraction missed. AI output
// never overrides a scraped value.
func aiFallback(ctx context.Context, env *appEnv, doc *goquery.Document, scraped model.ExtractionResult) model.ExtractionResult {
	mode := extract.ModeBoth
	switch {
	case scraped.PersonName == "" && scraped.CompanyName != "":
		mode = extract.ModeName
	case scraped.PersonName != "" && scraped.CompanyName == "":
		mode = extract.ModeCompany
	}

	aiResult, err := env.AI.Extract(ctx, extract.PageText(doc, cfg.OpenAI.MaxChars), mode)
	if err != nil {
		zap.L().Warn("ai extraction failed", zap.Error(err))
		return scraped
	}
	if scraped.PersonName == "" {
		scraped.PersonName = aiResult.PersonName
	}
	if scraped.CompanyName == "" {
		scraped.CompanyName = aiResult.CompanyName
	}
	return scraped
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func init() {
	extractCmd.Flags().BoolVar(&extractAI, "ai", false, "fall back to AI extraction when scraping is incomplete")
	rootCmd.AddCommand(extractCmd)
}
