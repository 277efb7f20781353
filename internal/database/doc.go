// Package database implements the PostgreSQL adapters for the domain
// repositories, plus connection setup and schema migrations. Queries go
// through a pgx connection pool; missing rows are translated into domain
// sentinel errors so callers never see pgx.ErrNoRows.
package database
