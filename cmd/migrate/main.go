// Command migrate applies the embedded goose migrations to the database named
// by --database-url or DATABASE_URL.
package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
