package storage

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddlFile string

// DDLStatements returns the CREATE TABLE / INDEX statements from schema.sql,
// split on semicolons, for adapters to apply at startup and tests to apply
// against fresh databases.
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
