package domain

import (
	"strings"
	"time"
)

// User is a registered account. Immutable after creation.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Joke is a stored joke. Category is empty when the joke has none.
type Joke struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenClaims is the identity carried by a verified bearer token.
type TokenClaims struct {
	ID        string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SearchFilter constrains a joke search. Empty fields impose no constraint.
type SearchFilter struct {
	// Category is matched exactly and case-sensitively.
	Category string
	// Keyword is matched as a case-insensitive substring of the content.
	Keyword string
}

// NewSearchFilter normalizes raw search parameters.
func NewSearchFilter(category, keyword string) SearchFilter {
	return SearchFilter{Category: category, Keyword: keyword}.Normalized()
}

// Normalized trims both fields and clears those holding FilterSentinel.
// Category is matched exactly, so only "all" is the sentinel there. Keyword
// matching ignores case, so "All" and "ALL" are the sentinel too.
func (f SearchFilter) Normalized() SearchFilter {
	category := strings.TrimSpace(f.Category)
	if category == FilterSentinel {
		category = ""
	}
	keyword := strings.TrimSpace(f.Keyword)
	if strings.EqualFold(keyword, FilterSentinel) {
		keyword = ""
	}
	return SearchFilter{Category: category, Keyword: keyword}
}

// IsEmpty reports whether the filter matches every joke.
func (f SearchFilter) IsEmpty() bool {
	return f.Category == "" && f.Keyword == ""
}
