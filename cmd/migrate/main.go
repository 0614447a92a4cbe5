package main

import (
	"os"

	"adalcrm/internal/app/repository"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN is empty. Check your .env file")
	}

	repo, err := repository.New(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Info("Connected to database successfully")

	if err = repo.Migrate(); err != nil {
		log.Fatal(err)
	}

	log.Info("Session table migration completed successfully")
}
