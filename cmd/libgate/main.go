package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/libgate/internal/app"
)

func main() {
	// Local overrides first; variables already set in the environment win.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ libgate failed to start: %v", err)
	}
}
