// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/unclebandit/customer-records/internal/config"
)

// Open connects to Postgres through an instrumented driver and verifies the
// connection. The caller owns the returned pool and must Close it.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	driverName, err := otelsql.Register("postgres",
		otelsql.AllowRoot(),
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithDatabaseName(cfg.DatabaseName),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register db driver: %w", err)
	}

	conn, err := sql.Open(driverName, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := otelsql.RecordStats(conn,
		otelsql.WithDatabaseName(cfg.DatabaseName),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	); err != nil {
		log.Println("⚠️ failed to record db stats:", err)
	}

	log.Println("✅ Connected to database", cfg.DatabaseName)
	return conn, nil
}
