package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"piadas/src/core/domain"
	"piadas/src/core/ports"
	"piadas/src/infra/db"
)

// conn is the subset of pgxpool.Pool the repository uses.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var (
	_ ports.UserRepository = (*PostgresRepository)(nil)
	_ ports.JokeRepository = (*PostgresRepository)(nil)
)

// PostgresRepository implements UserRepository and JokeRepository using pgx.
type PostgresRepository struct {
	pool conn
	log  *slog.Logger
}

// NewPostgresRepository constructs a repository backed by Postgres.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return newPostgresRepository(pg.Pool, log)
}

func newPostgresRepository(pool conn, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		log:  log,
	}
}

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// Users

func (r *PostgresRepository) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING user_id, username, password_hash, created_at
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, q, username, passwordHash).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("username already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
		SELECT user_id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	var u domain.User
	if err := r.pool.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Jokes

func (r *PostgresRepository) RandomJoke(ctx context.Context) (*domain.Joke, error) {
	const q = `
		SELECT joke_id, content, category, created_at
		FROM jokes
		ORDER BY random()
		LIMIT 1
	`
	var j domain.Joke
	if err := r.pool.QueryRow(ctx, q).Scan(&j.ID, &j.Content, &j.Category, &j.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewEmptyError("no jokes stored")
		}
		return nil, fmt.Errorf("random joke: %w", err)
	}
	return &j, nil
}

// SearchJokes matches category exactly and keyword as a case-insensitive
// substring. An empty filter field is bound as NULL and imposes no constraint.
func (r *PostgresRepository) SearchJokes(ctx context.Context, filter domain.SearchFilter) ([]domain.Joke, error) {
	const q = `
		SELECT joke_id, content, category, created_at
		FROM jokes
		WHERE ($1::text IS NULL OR category = $1)
		  AND ($2::text IS NULL OR content ILIKE '%' || $2 || '%' ESCAPE '\')
	`
	rows, err := r.pool.Query(ctx, q, nullable(filter.Category), nullable(escapeLike(filter.Keyword)))
	if err != nil {
		return nil, fmt.Errorf("search jokes: %w", err)
	}
	defer rows.Close()

	jokes := make([]domain.Joke, 0)
	for rows.Next() {
		var j domain.Joke
		if err := rows.Scan(&j.ID, &j.Content, &j.Category, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan joke: %w", err)
		}
		jokes = append(jokes, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search jokes: %w", err)
	}
	return jokes, nil
}

func (r *PostgresRepository) InsertJoke(ctx context.Context, content, category string) (*domain.Joke, error) {
	const q = `
		INSERT INTO jokes (content, category)
		VALUES ($1, $2)
		RETURNING joke_id, content, category, created_at
	`
	var j domain.Joke
	if err := r.pool.QueryRow(ctx, q, content, category).Scan(&j.ID, &j.Content, &j.Category, &j.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert joke: %w", err)
	}
	return &j, nil
}

// nullable maps "" to a NULL parameter.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
