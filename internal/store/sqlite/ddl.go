package sqlite

import (
	"database/sql"
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddlFile string

// DDLStatements returns the CREATE TABLE / INDEX statements from schema.sql.
// It splits on semicolons and trims whitespace.
func DDLStatements() []string {
	parts := strings.Split(ddlFile, ";")
	var out []string
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// EnsureSchema applies the embedded DDL. Statements are idempotent, so it is
// safe to call on every startup.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range DDLStatements() {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
