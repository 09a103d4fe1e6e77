package main

import (
	"os"

	"github.com/ayuni-ai/ayuni/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
