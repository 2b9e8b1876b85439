package main

import (
	"context"
	"log"

	"campus-notes-bot/internal/app"
	"campus-notes-bot/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.Run(ctx)
}
