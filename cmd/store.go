package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/agroclim/cropgrid/internal/boundary"
	"github.com/agroclim/cropgrid/internal/demographics"
	"github.com/agroclim/cropgrid/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "cropgrid.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initResolver(shapefilePath string) (*boundary.Resolver, error) {
	path := shapefilePath
	if path == "" {
		path = cfg.Boundary.Shapefile
	}
	if path == "" {
		return nil, eris.New("boundary shapefile is required (CROPGRID_BOUNDARY_SHAPEFILE or --shapefile)")
	}

	regions, err := boundary.LoadShapefile(path, boundary.Options{
		CountryField:   cfg.Boundary.CountryField,
		ContinentField: cfg.Boundary.ContinentField,
	})
	if err != nil {
		return nil, err
	}
	return boundary.NewResolver(regions), nil
}

func initReconciler() (*demographics.Reconciler, error) {
	aliases := demographics.DefaultAliases()
	if cfg.Demographics.AliasFile != "" {
		loaded, err := demographics.LoadAliases(cfg.Demographics.AliasFile)
		if err != nil {
			return nil, err
		}
		// File entries override the built-in table.
		for k, v := range loaded {
			aliases[k] = v
		}
	}
	return demographics.NewReconciler(aliases), nil
}
