// cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/db"
)

var seedFiles = []string{
	"seed/customers.sql",
	"seed/addresses.sql",
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
