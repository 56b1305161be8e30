package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/vilarso/cropservicebot/core/cmd"
	"github.com/vilarso/cropservicebot/internal/app"
)

func main() {
	// Local dev convenience; in containers the env is already populated.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Fatalf("cropservicebot: %v", err)
	}
}
