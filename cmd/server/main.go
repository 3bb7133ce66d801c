package main

import (
	"log"
	"os"

	"github.com/benbeisheim/chessminimax/internal/config"
	"github.com/benbeisheim/chessminimax/internal/controller"
	"github.com/benbeisheim/chessminimax/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	// Initialize services
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager, cfg)

	app := controller.NewApp(gameService, cfg.AllowOrigins)
	log.Printf("listening on %s (max depth %d, timeout %s, workers %d)",
		cfg.Addr, cfg.MaxDepth, cfg.SearchTimeout, cfg.Workers)
	log.Fatal(app.Listen(cfg.Addr))
}
