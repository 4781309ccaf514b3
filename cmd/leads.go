package main

import (
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/invisible-growth/leadfinder/internal/extract"
	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/internal/resolve"
)

var (
	leadsConcurrency int
	leadsResolve     bool
)

// leadResult pairs a scraped lead with its resolution outcome.
type leadResult struct {
	Lead    model.LeadData       `json:"lead"`
	Status  resolve.Status       `json:"status,omitempty"`
	Contact *model.ContactRecord `json:"contact,omitempty"`
	Error   string               `json:"error,omitempty"`
}

var leadsCmd = &cobra.Command{
	Use:   "leads <url|file>",
	Short: "Extract leads from a Sales Navigator list page",
	Long:  "Parses every lead row from a Sales Navigator search or list page. With --resolve, each valid lead is resolved through the primary enrichment API concurrently.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		doc, err := fetchTarget(ctx, env, args[0])
		if err != nil {
			return err
		}

		rows := extract.LeadRows(doc)
		if len(rows) == 0 {
			// List pages and lead profiles share a URL space; fall back to
			// the sidebar and profile shapes before giving up.
			if lead := extract.SidebarLead(doc); lead.Valid() {
				rows = append(rows, lead)
			} else if lead := extract.ProfileLead(doc); lead.Valid() {
				rows = append(rows, lead)
			}
		}
		zap.L().Info("leads extracted", zap.Int("count", len(rows)))

		results := make([]leadResult, len(rows))
		for i, lead := range rows {
			results[i] = leadResult{Lead: lead}
		}

		if leadsResolve {
			var mu sync.Mutex
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(leadsConcurrency)
			for i, lead := range rows {
				g.Go(func() error {
					out, err := env.Resolver.Resolve(gctx, lead.FullName, lead.CompanyName, model.SourceSalesNav)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						results[i].Error = err.Error()
						return nil
					}
					results[i].Status = out.Status
					results[i].Contact = &out.Contact
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
		}

		return printJSON(results)
	},
}

func init() {
	leadsCmd.Flags().IntVar(&leadsConcurrency, "concurrency", 4, "max concurrent resolutions")
	leadsCmd.Flags().BoolVar(&leadsResolve, "resolve", false, "resolve an email for each extracted lead")
	rootCmd.AddCommand(leadsCmd)
}
