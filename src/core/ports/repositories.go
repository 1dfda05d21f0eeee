// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"piadas/src/core/domain"
)

// Repository is the base interface for all repositories.
// Concrete repositories should embed this and add entity-specific methods.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// UserRepository is the credential store.
type UserRepository interface {
	Repository

	// CreateUser persists a new user. Returns a conflict error if the
	// username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)

	// GetUserByUsername returns a not found error if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// JokeRepository persists jokes.
type JokeRepository interface {
	Repository

	// RandomJoke returns an empty error if no jokes are stored.
	RandomJoke(ctx context.Context) (*domain.Joke, error)

	// SearchJokes returns jokes matching the filter in storage order.
	SearchJokes(ctx context.Context, filter domain.SearchFilter) ([]domain.Joke, error)

	// InsertJoke stores a joke. Category may be empty.
	InsertJoke(ctx context.Context, content, category string) (*domain.Joke, error)
}
