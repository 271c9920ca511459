package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"discord-warden/internal/bot"
	"discord-warden/internal/config"
	"discord-warden/internal/handler"
	"discord-warden/internal/logger"
	"discord-warden/internal/service"
	"discord-warden/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if cfg.Database.Enabled {
		if err := storage.Initialize(cfg); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		log.Println("Database connection established")
	}

	if err := storage.InitializeMongo(cfg); err != nil {
		log.Fatalf("Failed to initialize case store: %v", err)
	}
	defer storage.CloseMongo()

	service.Initialize(cfg)
	service.InitRepositories()

	botService, err := bot.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	h := handler.New(botService.Session, cfg)
	h.Register()

	if err := botService.Start(); err != nil {
		log.Fatalf("Failed to connect to gateway: %v", err)
	}

	if err := botService.RegisterCommands(cfg); err != nil {
		log.Fatalf("Failed to register application commands: %v", err)
	}
	log.Println("Bot is running, press Ctrl+C to exit")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	h.Stop()
	botService.Stop()
	log.Println("Bot gracefully stopped")
}
