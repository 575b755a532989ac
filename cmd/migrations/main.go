package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/mvalle/auth-api/internal/config"
)

const migrationsPath = "internal/adapters/repository/postgres/migrations"

// Runs every *.up.sql migration in lexical order, or a single named one when
// a migration name is passed as the first argument.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	files, err := migrationFiles(migrationsPath)
	if err != nil {
		log.Fatal(err)
	}

	if len(os.Args) > 1 {
		files, err = filterByName(files, os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsPath, name))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("Failed to execute %s: %v", name, err)
		}
		fmt.Printf("Applied %s\n", name)
	}
}

func migrationFiles(basePath string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}
		files = append(files, entry.Name())
	}

	sort.Strings(files)
	return files, nil
}

func filterByName(files []string, name string) ([]string, error) {
	for _, f := range files {
		if strings.Contains(f, name) {
			return []string{f}, nil
		}
	}
	return nil, fmt.Errorf("migration file not found: %s", name)
}
