package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hemantajax/connectclo/internal/adapters/catalogapi"
	"github.com/hemantajax/connectclo/internal/adapters/httpserver"
	"github.com/hemantajax/connectclo/internal/adapters/repo/postgres"
	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/usecase"
)

type App struct {
	Config    Config
	DB        *gorm.DB
	ProductUC *usecase.ProductUC
	Engine    *usecase.Engine
}

// NewApp wires the product source. The snapshot mirror is only enabled when a
// database is configured; failing to reach it is not fatal.
func NewApp(cfg Config) (*App, error) {
	app := &App{Config: cfg, Engine: usecase.NewEngine()}

	var snapshots domain.SnapshotRepo
	if cfg.DSN != "" {
		db, err := gorm.Open(pgdriver.Open(cfg.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			log.Warn().Err(err).Msg("snapshot database unavailable, continuing without mirror")
		} else if err := postgres.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate snapshot table: %w", err)
		} else {
			app.DB = db
			snapshots = postgres.NewSnapshotRepo(db)
		}
	}

	client := catalogapi.NewClient(cfg.ProductsURL, cfg.FetchTimeout)
	app.ProductUC = usecase.NewProductUC(client, snapshots, cfg.CacheTTL)
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.Engine, a.Config.Layout)
}

// OpenSession starts a session at location and loads the catalog into it.
func (a *App) OpenSession(ctx context.Context, location string) (*Session, error) {
	s, err := NewSession(location, nil, a.Config.Layout)
	if err != nil {
		return nil, err
	}
	res := a.ProductUC.Fetch(ctx)
	if res.Data == nil {
		s.Close()
		if res.Err == nil {
			res.Err = domain.ErrSourceUnavailable
		}
		return nil, res.Err
	}
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("serving previous catalog")
	}
	s.SetCatalog(res.Data)
	return s, nil
}

// Close releases the database connection when one was opened.
func (a *App) Close() {
	if a.DB == nil {
		return
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
