package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"piadas/src/core/domain"
	"piadas/src/core/ports"
	"piadas/src/infra/auth"
	"piadas/src/infra/cache"
	"piadas/src/infra/config"
	"piadas/src/infra/ratelimit"
)

type memStore struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	jokes       []domain.Joke
	searchCalls int
	nextID      int64
}

func newMemStore(jokes ...domain.Joke) *memStore {
	return &memStore{users: map[string]*domain.User{}, jokes: jokes, nextID: int64(len(jokes))}
}

func (s *memStore) Health(context.Context) error { return nil }

func (s *memStore) CreateUser(_ context.Context, username, hash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return nil, domain.NewConflictError("username already taken")
	}
	s.nextID++
	u := &domain.User{ID: s.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	s.users[username] = u
	return u, nil
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, found := s.users[username]
	if !found {
		return nil, domain.NewNotFoundError("user")
	}
	return u, nil
}

func (s *memStore) RandomJoke(context.Context) (*domain.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jokes) == 0 {
		return nil, domain.NewEmptyError("jokes")
	}
	j := s.jokes[0]
	return &j, nil
}

func (s *memStore) SearchJokes(_ context.Context, f domain.SearchFilter) ([]domain.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	var out []domain.Joke
	for _, j := range s.jokes {
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.Keyword != "" && !strings.Contains(strings.ToLower(j.Content), strings.ToLower(f.Keyword)) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (s *memStore) InsertJoke(_ context.Context, content, category string) (*domain.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	j := domain.Joke{ID: s.nextID, Content: content, Category: category, CreatedAt: time.Now()}
	s.jokes = append(s.jokes, j)
	return &j, nil
}

func (s *memStore) searches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchCalls
}

type harness struct {
	router http.Handler
	store  *memStore
	redis  *miniredis.Miniredis
}

func newHarness(t *testing.T, limit int, jokes ...domain.Joke) *harness {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore(jokes...)
	searchCache := cache.NewRedisCache(rdb, log)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 3001, CORSOrigin: "http://localhost:3000"},
		Cache:  config.CacheConfig{TTL: 10 * time.Minute},
		Log:    config.LogConfig{Level: "error"},
	}

	srv := New(cfg, log, Deps{
		Users:   store,
		Jokes:   store,
		Cache:   searchCache,
		Limiter: ratelimit.NewMemoryLimiter(limit, 15*time.Minute),
		Hasher:  auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:  auth.NewTokenManager("test-secret", time.Hour),
		Components: map[string]ports.ExternalService{
			"database": store,
			"cache":    searchCache,
		},
	})

	return &harness{router: srv.Router(), store: store, redis: mr}
}

func (h *harness) do(t *testing.T, method, target, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func TestEndToEnd_RegisterLoginAddSearch(t *testing.T) {
	h := newHarness(t, 100, domain.Joke{ID: 1, Content: "Chuck Norris counted to infinity. Twice."})

	w, body := h.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = h.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	w, _ = h.do(t, http.MethodGet, "/piadas", "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = h.do(t, http.MethodGet, "/piadas", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chuck Norris counted to infinity. Twice.", body["piadas"])

	w, body = h.do(t, http.MethodPost, "/piadas", `{"content":"a test joke"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = h.do(t, http.MethodGet, "/piadas/busca?keyword=test", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"a test joke"}, body["piadas"])
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w, body = h.do(t, http.MethodGet, "/piadas/busca?keyword=TEST", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"a test joke"}, body["piadas"])
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, h.store.searches())
}

func TestRegister_Duplicate(t *testing.T) {
	h := newHarness(t, 100)

	w, _ := h.do(t, http.MethodPost, "/register", `{"username":"bob","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := h.do(t, http.MethodPost, "/register", `{"username":"bob","password":"another1"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t, 100)

	w, body := h.do(t, http.MethodPost, "/register", `{"username":"bob","password":"123"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	errs, _ := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].(map[string]any)["field"])
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t, 100)
	h.do(t, http.MethodPost, "/register", `{"username":"carol","password":"secret1"}`, "")

	for _, body := range []string{
		`{"username":"carol","password":"wrong-pass"}`,
		`{"username":"nobody","password":"secret1"}`,
	} {
		w, decoded := h.do(t, http.MethodPost, "/login", body, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decoded["success"])
		assert.Equal(t, "invalid credentials", decoded["message"])
		assert.NotContains(t, decoded, "token")
	}
}

func TestRandomJoke_EmptyStore(t *testing.T) {
	h := newHarness(t, 100)
	h.do(t, http.MethodPost, "/register", `{"username":"dave","password":"secret1"}`, "")
	_, login := h.do(t, http.MethodPost, "/login", `{"username":"dave","password":"secret1"}`, "")

	w, body := h.do(t, http.MethodGet, "/piadas", "", login["token"].(string))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestAddJoke_RequiresContent(t *testing.T) {
	h := newHarness(t, 100)
	h.do(t, http.MethodPost, "/register", `{"username":"erin","password":"secret1"}`, "")
	_, login := h.do(t, http.MethodPost, "/login", `{"username":"erin","password":"secret1"}`, "")
	token := login["token"].(string)

	w, _ := h.do(t, http.MethodPost, "/piadas", `{"categoria":"dev"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.do(t, http.MethodPost, "/piadas", `{"content":"<b></b>  "}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.do(t, http.MethodPost, "/piadas", `{"content":"valid"}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSearch_SentinelSharesCacheEntry(t *testing.T) {
	h := newHarness(t, 100,
		domain.Joke{ID: 1, Content: "first", Category: "dev"},
		domain.Joke{ID: 2, Content: "second", Category: "chuck"},
	)
	h.do(t, http.MethodPost, "/register", `{"username":"frank","password":"secret1"}`, "")
	_, login := h.do(t, http.MethodPost, "/login", `{"username":"frank","password":"secret1"}`, "")
	token := login["token"].(string)

	_, body := h.do(t, http.MethodGet, "/piadas/busca", "", token)
	assert.ElementsMatch(t, []any{"first", "second"}, body["piadas"])

	w, body := h.do(t, http.MethodGet, "/piadas/busca?categoria=all&keyword=all", "", token)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.ElementsMatch(t, []any{"first", "second"}, body["piadas"])
	assert.Equal(t, 1, h.store.searches())

	_, body = h.do(t, http.MethodGet, "/piadas/busca?categoria=dev", "", token)
	assert.Equal(t, []any{"first"}, body["piadas"])
	assert.Equal(t, 2, h.store.searches())

	h.redis.FastForward(11 * time.Minute)
	w, _ = h.do(t, http.MethodGet, "/piadas/busca", "", token)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 3, h.store.searches())
}

func TestSearch_EmptyResultIsList(t *testing.T) {
	h := newHarness(t, 100)
	h.do(t, http.MethodPost, "/register", `{"username":"gina","password":"secret1"}`, "")
	_, login := h.do(t, http.MethodPost, "/login", `{"username":"gina","password":"secret1"}`, "")

	w, body := h.do(t, http.MethodGet, "/piadas/busca?keyword=nothing", "", login["token"].(string))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["piadas"])
}

func TestRateLimit_RejectsOverQuota(t *testing.T) {
	h := newHarness(t, 3)

	for i := 0; i < 3; i++ {
		w, _ := h.do(t, http.MethodGet, "/health", "", "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := h.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestHealthDetailed(t *testing.T) {
	h := newHarness(t, 100)

	w, body := h.do(t, http.MethodGet, "/health/detailed", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	h.redis.Close()
	_, body = h.do(t, http.MethodGet, "/health/detailed", "", "")
	assert.Equal(t, "degraded", body["status"])
}

func TestNoRoute(t *testing.T) {
	h := newHarness(t, 100)

	w, body := h.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestSearch_KeywordAllInAnyCaseIsUnfiltered(t *testing.T) {
	h := newHarness(t, 100,
		domain.Joke{ID: 1, Content: "We ALL love Chuck"},
		domain.Joke{ID: 2, Content: "Chuck Norris pode dividir por zero."},
	)
	h.do(t, http.MethodPost, "/register", `{"username":"hank","password":"secret1"}`, "")
	_, login := h.do(t, http.MethodPost, "/login", `{"username":"hank","password":"secret1"}`, "")
	token := login["token"].(string)

	w, body := h.do(t, http.MethodGet, "/piadas/busca?keyword=All", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["piadas"], 2)

	w, body = h.do(t, http.MethodGet, "/piadas/busca", "", token)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Len(t, body["piadas"], 2)

	_, body = h.do(t, http.MethodGet, "/piadas/busca?keyword=love", "", token)
	assert.Equal(t, []any{"We ALL love Chuck"}, body["piadas"])
	assert.Equal(t, 2, h.store.searches())
}

func TestRegister_PasswordLimitCountsBytes(t *testing.T) {
	h := newHarness(t, 100)

	w, body := h.do(t, http.MethodPost, "/register", `{"username":"ivan","password":"`+strings.Repeat("é", 37)+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, _ := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, map[string]any{"field": "password", "message": "must be at most 72 bytes"}, errs[0])

	w, _ = h.do(t, http.MethodPost, "/register", `{"username":"ivan","password":"`+strings.Repeat("é", 36)+`"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddJoke_RejectsSentinelCategory(t *testing.T) {
	h := newHarness(t, 100)
	h.do(t, http.MethodPost, "/register", `{"username":"judy","password":"secret1"}`, "")
	_, login := h.do(t, http.MethodPost, "/login", `{"username":"judy","password":"secret1"}`, "")

	w, body := h.do(t, http.MethodPost, "/piadas", `{"content":"a joke","categoria":"all"}`, login["token"].(string))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, _ := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "categoria", errs[0].(map[string]any)["field"])
}
