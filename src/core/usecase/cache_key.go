package usecase

import (
	"net/url"
	"strings"

	"piadas/src/core/domain"
)

const searchCacheKeyPrefix = "piadas:busca?"

// SearchCacheKey derives the cache key for a joke search. The filter is
// normalized first, so a field is written as domain.FilterSentinel exactly
// when it imposes no constraint. Keyword matching is case-insensitive, so
// the keyword is lower-cased.
func SearchCacheKey(filter domain.SearchFilter) string {
	filter = filter.Normalized()
	category := filter.Category
	if category == "" {
		category = domain.FilterSentinel
	}
	keyword := strings.ToLower(filter.Keyword)
	if keyword == "" {
		keyword = domain.FilterSentinel
	}

	v := url.Values{}
	v.Set("categoria", category)
	v.Set("keyword", keyword)
	return searchCacheKeyPrefix + v.Encode()
}
