package main

import (
	"fmt"

	"github.com/dazca/municat/internal/fetcher"
	"github.com/dazca/municat/internal/fusion"
	"github.com/dazca/municat/internal/source"
)

// buildSource assembles the catalog, fetcher and data source from config.
func buildSource(opts ...source.Option) (*source.HTTPSource, *source.Catalog, error) {
	catalog := source.DefaultCatalog()
	if cfg.Catalog.Path != "" {
		c, err := source.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		catalog = c
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout(),
		MaxRetries:   cfg.HTTP.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	return source.NewHTTPSource(catalog, f, opts...), catalog, nil
}

// buildEngine wires a fusion engine over the given data source.
func buildEngine(src fusion.DataSource) *fusion.Engine {
	return fusion.NewEngine(src, fusion.Options{
		K:     cfg.Fusion.K,
		Power: cfg.Fusion.Power,
	})
}
