package main

import (
	"context"
	"fmt"
	"net/http"

	"greenvest-backend/internal/app"
	"greenvest-backend/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}

	fiberApp, res, err := app.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	// Verify connections before serving.
	sqlDB, err := res.DB.DB()
	if err != nil {
		panic("Postgres: get DB: " + err.Error())
	}
	if err := sqlDB.Ping(); err != nil {
		panic("Postgres connection failed: " + err.Error())
	}
	fmt.Println("Postgres connected")

	if err := res.Rdb.Ping(context.Background()).Err(); err != nil {
		panic("Redis connection failed: " + err.Error())
	}
	fmt.Println("Redis connected")

	go res.Hub.Run()

	// Re-arm the settlement timer for any round left active by a restart.
	if err := res.Rounds.Resume(context.Background()); err != nil {
		log.Error().Err(err).Msg("Round resume failed")
	}

	// WebSocket fan-out on its own listener; gorilla/websocket upgrades a
	// plain net/http connection.
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", res.Hub.HandleWS)
		wsAddr := ":" + cfg.WSPort
		fmt.Printf("WebSocket listening on %s/ws\n", wsAddr)
		if err := http.ListenAndServe(wsAddr, mux); err != nil {
			log.Error().Err(err).Msg("WebSocket listener stopped")
		}
	}()

	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
