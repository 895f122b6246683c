package router

import (
	"net/http"
	"strings"
	"time"

	"evexpert-backend/internal/application/analysis"
	garagesvc "evexpert-backend/internal/application/garage"
	"evexpert-backend/internal/config"
	"evexpert-backend/internal/infrastructure/cache"
	"evexpert-backend/internal/infrastructure/database"
	bazaarhandler "evexpert-backend/internal/interfaces/handlers/bazaar"
	garagehandler "evexpert-backend/internal/interfaces/handlers/garage"
	healthhandler "evexpert-backend/internal/interfaces/handlers/health"
	"evexpert-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Deps are the already-opened collaborators the app is built from.
// DB, Rdb and Analyzer may be nil; the matching routes are then not mounted or degrade.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Rdb      *redis.Client
	Analyzer analysis.Analyzer
}

// CreateApp opens the database and Redis from cfg and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = cache.Open(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL, database.Options{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			LogSQL:          strings.EqualFold(cfg.LogLevel, "debug"),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var analyzer analysis.Analyzer
	if cfg.AnalysisURL != "" {
		analyzer = &analysis.HTTPClient{
			BaseURL: cfg.AnalysisURL,
			APIKey:  cfg.AnalysisAPIKey,
			Client:  &http.Client{Timeout: cfg.AnalysisTimeout},
		}
	}

	app := NewApp(Deps{Config: cfg, DB: db, Rdb: rdb, Analyzer: analyzer})
	return app, db, rdb, nil
}

// NewApp registers middleware and routes.
func NewApp(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(d.Rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            d.Rdb,
		HealthAdminKey: cfg.HealthAdminKey,
		AnalysisURL:    cfg.AnalysisURL,
	}
	if d.DB != nil {
		hh.DB = &gormDBPinger{db: d.DB}
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	bh := &bazaarhandler.Handlers{}
	app.Get("/api/v1/bazaar/links", bh.Links)

	if d.DB != nil {
		gs := &garagesvc.Service{DB: d.DB}
		if d.Rdb != nil {
			gs.Cache = &cache.Snapshot{Rdb: d.Rdb, TTL: cfg.SnapshotTTL}
		}
		gh := &garagehandler.Handlers{
			Service:      gs,
			Analyzer:     d.Analyzer,
			RefreshDelay: cfg.RefreshDelay,
		}
		gg := app.Group("/api/v1/garage")
		gg.Get("/listings", gh.ListListings)
		gg.Delete("/listings", gh.ClearGarage)
		gg.Get("/listings/:id", gh.GetListing)
		gg.Get("/listings/:id/breakdown", gh.GetBreakdown)
		gg.Patch("/listings/:id", gh.UpdateListing)
		gg.Delete("/listings/:id", gh.DeleteListing)
		gg.Post("/ingest", gh.Ingest)
		gg.Post("/analyze", gh.Analyze)
	}

	return app
}

// Handler exposes app as a net/http handler for serverless hosts.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
