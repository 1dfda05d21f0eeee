package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"piadas/src/core/domain"
	"piadas/src/core/ports"
)

// JokeService serves jokes, with search results read through the cache.
type JokeService struct {
	repo     ports.JokeRepository
	cache    ports.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewJokeService(repo ports.JokeRepository, cache ports.Cache, cacheTTL time.Duration, log *slog.Logger) *JokeService {
	if cacheTTL <= 0 {
		cacheTTL = domain.DefaultSearchCacheTTL
	}
	return &JokeService{repo: repo, cache: cache, cacheTTL: cacheTTL, log: log}
}

// SearchResult holds the contents of matching jokes.
type SearchResult struct {
	Jokes []string
	// Cached is true when the result was served from the cache.
	Cached bool
}

// Random returns one joke sampled from the store.
func (s *JokeService) Random(ctx context.Context) (*domain.Joke, error) {
	return s.repo.RandomJoke(ctx)
}

// Search returns the contents of jokes matching filter. On a miss the
// repository is queried and the entry is written before returning; there is
// no de-duplication of concurrent identical misses.
func (s *JokeService) Search(ctx context.Context, filter domain.SearchFilter) (*SearchResult, error) {
	filter = filter.Normalized()
	key := SearchCacheKey(filter)

	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	if hit {
		var jokes []string
		if err := json.Unmarshal(raw, &jokes); err == nil {
			s.log.Debug("search cache hit", "key", key)
			return &SearchResult{Jokes: jokes, Cached: true}, nil
		}
		// a corrupt entry is treated as a miss and overwritten below
		s.log.Warn("discarding undecodable cache entry", "key", key)
	}

	found, err := s.repo.SearchJokes(ctx, filter)
	if err != nil {
		return nil, err
	}

	jokes := make([]string, 0, len(found))
	for _, j := range found {
		jokes = append(jokes, j.Content)
	}

	payload, err := json.Marshal(jokes)
	if err != nil {
		return nil, fmt.Errorf("encode search result: %w", err)
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("cache set %q: %w", key, err)
	}
	s.log.Debug("search cache populated", "key", key, "count", len(jokes))

	return &SearchResult{Jokes: jokes}, nil
}

// Add stores a new joke.
func (s *JokeService) Add(ctx context.Context, content, category string) (*domain.Joke, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content", "is required")
	}

	category = strings.TrimSpace(category)
	if category == domain.FilterSentinel {
		return nil, domain.NewValidationError("categoria", fmt.Sprintf("must not be %q", domain.FilterSentinel))
	}

	joke, err := s.repo.InsertJoke(ctx, content, category)
	if err != nil {
		return nil, err
	}
	s.log.Info("joke added", "joke_id", joke.ID)
	return joke, nil
}
