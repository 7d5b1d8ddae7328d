package main

import (
	"context"
	"log"

	"github.com/Apurer/petguard-api/internal/app/api"
)

func main() {
	if err := api.LoadDotEnv(); err != nil {
		log.Fatalf("petguard api: %v", err)
	}
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("petguard api: %v", err)
	}
}
