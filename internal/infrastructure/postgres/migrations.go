package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed migrations/schema.sql
var schemaSQL string

func schemaStatements() []string {
	var statements []string
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// Migrate ensures the required tables exist.
func (db *Database) Migrate(ctx context.Context) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return applySchema(ctx, conn)
}

func applySchema(ctx context.Context, exec DBTX) error {
	for i, stmt := range schemaStatements() {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}
	return nil
}
