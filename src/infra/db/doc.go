// Package db provides database connection management for PostgreSQL.
//
// This package is responsible for:
//   - PostgreSQL connection pool initialization
//   - Connection health checks
//   - Idempotent schema bootstrap for the users and jokes tables
//
// Example usage:
//
//	pg, err := db.New(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
//	if err := pg.Bootstrap(ctx); err != nil {
//	    return err
//	}
package db
