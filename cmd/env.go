package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/invisible-growth/leadfinder/internal/extract"
	"github.com/invisible-growth/leadfinder/internal/history"
	"github.com/invisible-growth/leadfinder/internal/jobs"
	"github.com/invisible-growth/leadfinder/internal/resilience"
	"github.com/invisible-growth/leadfinder/internal/resolve"
	"github.com/invisible-growth/leadfinder/internal/scrape"
	"github.com/invisible-growth/leadfinder/internal/store"
	"github.com/invisible-growth/leadfinder/pkg/clay"
	"github.com/invisible-growth/leadfinder/pkg/openai"
	"github.com/invisible-growth/leadfinder/pkg/zoominfo"
)

// appEnv holds the initialized store, clients, and services shared by the
// find/leads/enrich/serve commands.
type appEnv struct {
	Store     store.Store
	History   *history.Service
	Registry  *jobs.Registry
	Tokens    *zoominfo.TokenManager
	Resolver  *resolve.Resolver
	Fetcher   *scrape.Fetcher
	Extractor *extract.Extractor
	AI        *extract.AIExtractor // nil unless openai.enabled
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv wires the store, API clients, and resolver. Callers should defer
// env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if cfg.ZoomInfo.Username == "" || cfg.ZoomInfo.Password == "" {
		_ = st.Close()
		return nil, eris.New("zoominfo credentials not configured")
	}

	ziClient := zoominfo.NewClient(cfg.ZoomInfo.Username, cfg.ZoomInfo.Password,
		zoominfo.WithBaseURL(cfg.ZoomInfo.BaseURL),
		zoominfo.WithRateLimit(cfg.ZoomInfo.RatePerSec))

	tokens := zoominfo.NewTokenManager(ziClient, st)
	if err := tokens.LoadStored(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	var clayClient clay.Client
	if cfg.Clay.WebhookURL != "" {
		clayClient = clay.NewClient(cfg.Clay.WebhookURL, clay.WithTimeout(cfg.Clay.Timeout()))
	}

	hist := history.NewService(st)
	registry := jobs.NewRegistry()
	resolver := resolve.New(tokens, ziClient, clayClient, hist, registry,
		resolve.WithFallbackTimeout(cfg.Clay.Timeout()))

	retryCfg := resilience.DefaultRetryConfig()
	if cfg.Scrape.Retries >= 0 {
		retryCfg.MaxAttempts = cfg.Scrape.Retries + 1
	}

	env := &appEnv{
		Store:    st,
		History:  hist,
		Registry: registry,
		Tokens:   tokens,
		Resolver: resolver,
		Fetcher: scrape.NewFetcher(
			scrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second),
			scrape.WithRetry(retryCfg)),
		Extractor: extract.New(cfg.Extract),
	}

	if cfg.OpenAI.Enabled {
		if cfg.OpenAI.Key == "" {
			env.Close()
			return nil, eris.New("openai enabled but no key configured")
		}
		aiClient := openai.NewClient(cfg.OpenAI.Key,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model))
		env.AI = extract.NewAI(aiClient, cfg.OpenAI.MaxChars, cfg.OpenAI.MaxTokens)
	}

	return env, nil
}
