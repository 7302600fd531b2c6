package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vibegen/mission-control/missionservice"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	if err := missionservice.Run(); err != nil {
		os.Exit(1)
	}
}
