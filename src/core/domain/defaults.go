package domain

import "time"

// DefaultTokenTTL is how long an issued bearer token stays valid.
const DefaultTokenTTL = time.Hour

// DefaultSearchCacheTTL is how long a cached search result is served.
const DefaultSearchCacheTTL = 10 * time.Minute

// FilterSentinel stands for "no constraint" in search filters and cache keys.
const FilterSentinel = "all"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72
