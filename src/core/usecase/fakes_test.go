package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"piadas/src/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*domain.User
	getErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*domain.User{}}
}

func (f *fakeUsers) Health(context.Context) error { return nil }

func (f *fakeUsers) CreateUser(_ context.Context, username, hash string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[username]; ok {
		return nil, domain.NewConflictError("username already taken")
	}
	f.nextID++
	u := &domain.User{ID: f.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	return u, nil
}

// fakeHasher prefixes instead of hashing and records verify calls.
type fakeHasher struct {
	verifyCalls    int
	lastVerifyHash string
	hashErr        error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(hash, password string) bool {
	h.verifyCalls++
	h.lastVerifyHash = hash
	return hash == "hashed:"+password
}

type fakeTokens struct {
	issued []int64
	verify func(string) (domain.TokenClaims, error)
}

func (f *fakeTokens) Issue(userID int64) (string, domain.TokenClaims, error) {
	f.issued = append(f.issued, userID)
	exp := time.Now().Add(time.Hour)
	return "token-for-user", domain.TokenClaims{UserID: userID, ExpiresAt: exp}, nil
}

func (f *fakeTokens) Verify(token string) (domain.TokenClaims, error) {
	if f.verify != nil {
		return f.verify(token)
	}
	return domain.TokenClaims{}, domain.ErrInvalidToken
}

type fakeJokes struct {
	mu          sync.Mutex
	jokes       []domain.Joke
	searchCalls int
	searchErr   error
}

func (f *fakeJokes) Health(context.Context) error { return nil }

func (f *fakeJokes) RandomJoke(context.Context) (*domain.Joke, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jokes) == 0 {
		return nil, domain.NewEmptyError("jokes")
	}
	j := f.jokes[0]
	return &j, nil
}

func (f *fakeJokes) SearchJokes(_ context.Context, filter domain.SearchFilter) ([]domain.Joke, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []domain.Joke
	for _, j := range f.jokes {
		if filter.Category != "" && j.Category != filter.Category {
			continue
		}
		if filter.Keyword != "" && !containsFold(j.Content, filter.Keyword) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJokes) InsertJoke(_ context.Context, content, category string) (*domain.Joke, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := domain.Joke{ID: int64(len(f.jokes) + 1), Content: content, Category: category}
	f.jokes = append(f.jokes, j)
	return &j, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Health(context.Context) error { return nil }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

type fakeComponent struct{ err error }

func (f fakeComponent) Health(context.Context) error { return f.err }

var errBoom = errors.New("boom")

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
