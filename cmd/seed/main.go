package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"eventhub/config"
	"eventhub/database"
	"eventhub/logging"
	"eventhub/services"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	file := flag.String("file", "./seed/workshops.json", "Path to the seed JSON file")
	sqlitePath := flag.String("sqlite", "", "Seed a local SQLite file instead of DATABASE_URL")
	flag.Parse()

	// A missing .env file is fine, system environment variables still apply
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("LOG_LEVEL"), false)

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("Failed to open seed file", "file", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	seed, err := parseSeed(f)
	if err != nil {
		logger.Error("Failed to read seed file", "error", err)
		os.Exit(1)
	}

	var db *gorm.DB
	if *sqlitePath != "" {
		db, err = database.OpenSQLite(*sqlitePath, logging.GormLevel("error"))
	} else {
		db, err = database.Connect(config.DatabaseURL(), logging.GormLevel("error"))
	}
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	sum, err := importSeed(context.Background(), db, services.NewStore(db), seed, logger)
	if err != nil {
		logger.Error("Seed import failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Imported %d users, %d workshops, %d tasks, %d groups, %d judges\n",
		sum.Users, sum.Workshops, sum.Tasks, sum.Groups, sum.Judges)
}
