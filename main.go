package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/kilianp07/driverboard/cmd"
)

func main() {
	// Best-effort: local setups keep the signing secret and upstream
	// URLs in a .env file.
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
