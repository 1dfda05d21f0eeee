// Package repo contains PostgreSQL implementations of repository interfaces.
//
// This package implements the ports defined in src/core/ports: the credential
// store (ports.UserRepository) and the joke store (ports.JokeRepository). Both
// are served by one PostgresRepository over a shared pgx pool.
//
// Errors from pgx are translated into domain errors where they carry meaning
// (no rows, unique violations) and wrapped with context otherwise.
package repo
