// Package domain contains the core domain model for the application.
//
// This package defines:
//   - Entities: User and Joke records owned by the repository
//   - Value objects: SearchFilter and TokenClaims
//   - Domain errors: business rule violations mapped to HTTP by the response package
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (database, HTTP, cache)
//
// Example:
//
//	filter := domain.NewSearchFilter(categoria, keyword)
//	if filter.IsEmpty() {
//	    // no constraint; every joke matches
//	}
package domain
