// internal/db/schema.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// schema is applied in order; addresses depends on customers.
var schema = []struct {
	name string
	ddl  string
}{
	{
		name: "customers",
		ddl: `CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone_number TEXT NOT NULL UNIQUE
		)`,
	},
	{
		name: "addresses",
		ddl: `CREATE TABLE IF NOT EXISTS addresses (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
			address_details TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			pin_code TEXT NOT NULL
		)`,
	},
	{
		name: "addresses_customer_id_idx",
		ddl:  `CREATE INDEX IF NOT EXISTS addresses_customer_id_idx ON addresses (customer_id)`,
	},
}

// EnsureSchema creates the customers and addresses tables if they are
// missing. Existing tables and rows are left untouched.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	for _, s := range schema {
		if _, err := conn.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
		log.Printf("%s is ready", s.name)
	}
	return nil
}
