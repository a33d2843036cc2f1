package app

import (
	"sync"

	"greenvest-backend/internal/auth"
	"greenvest-backend/internal/companies"
	"greenvest-backend/internal/config"
	"greenvest-backend/internal/database"
	"greenvest-backend/internal/health"
	"greenvest-backend/internal/leaderboard"
	"greenvest-backend/internal/middleware"
	"greenvest-backend/internal/realtime"
	"greenvest-backend/internal/rounds"
	"greenvest-backend/internal/trading"
	"greenvest-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Resources are the long-lived collaborators CreateApp wires up; main needs
// them for startup checks, timer resume, and the WebSocket listener.
type Resources struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	Hub    *realtime.Hub
	Rounds *rounds.Service
}

// CreateApp builds the Fiber app with all global middleware and route
// registration.
func CreateApp(cfg *config.Config) (*fiber.App, *Resources, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{}))

	sessionCfg := middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, err
	}

	hub := realtime.NewHub()

	// One lock for trades and settlement: a trade transaction must never
	// interleave with the round flip + metric writes.
	engineMu := &sync.Mutex{}

	leaderboardSvc := &leaderboard.Service{DB: db, Rdb: rdb}
	roundsSvc := &rounds.Service{
		DB:          db,
		Hub:         hub,
		Clock:       rounds.SystemClock{},
		Leaderboard: leaderboardSvc,
		Mu:          engineMu,
	}
	tradingSvc := &trading.Service{DB: db, Hub: hub, Mu: engineMu}
	authSvc := &auth.Service{
		DB:              db,
		StartingBalance: cfg.StartingBalance,
		AdminEmail:      cfg.AdminEmail,
	}
	companiesSvc := &companies.Service{DB: db, Hub: hub}
	usersSvc := &users.Service{DB: db}

	authHandlers := &auth.Handlers{Service: authSvc, Rdb: rdb, Config: sessionCfg}
	tradeHandlers := &trading.Handlers{Service: tradingSvc}
	roundHandlers := &rounds.Handlers{Service: roundsSvc}
	companyHandlers := &companies.Handlers{Service: companiesSvc}
	userHandlers := &users.Handlers{Service: usersSvc}
	leaderboardHandlers := &leaderboard.Handlers{Service: leaderboardSvc}

	healthHandlers := &health.Handlers{Rdb: rdb, DB: db}
	app.Get("/health/json", healthHandlers.JSON)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	api.Get("/companies", middleware.RequireAuth(), companyHandlers.List)
	api.Get("/companies/:id", middleware.RequireAuth(), companyHandlers.Get)
	api.Get("/leaderboard", middleware.RequireAuth(), leaderboardHandlers.Top)

	dashboard := api.Group("/dashboard", middleware.RequireAuth())
	dashboard.Get("/portfolio", userHandlers.Portfolio)
	dashboard.Get("/trades", userHandlers.Trades)

	trade := api.Group("/trade", middleware.RequireAuth())
	trade.Post("/execute", tradeHandlers.ExecuteTrade)

	api.Get("/rounds/status", middleware.RequireAuth(), roundHandlers.Status)

	admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	admin.Get("/users", userHandlers.List)
	admin.Post("/companies", companyHandlers.Create)
	admin.Put("/companies/:id", companyHandlers.Update)
	admin.Put("/companies/:id/price", companyHandlers.UpdatePrice)
	admin.Post("/rounds/start", roundHandlers.StartRound)
	admin.Post("/rounds/end", roundHandlers.EndRound)

	return app, &Resources{DB: db, Rdb: rdb, Hub: hub, Rounds: roundsSvc}, nil
}
