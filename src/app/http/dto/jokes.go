package dto

// AddJokeRequest is the body of POST /piadas.
// "all" is not a category: searches read it as no constraint.
type AddJokeRequest struct {
	Content  string `json:"content" binding:"required,max=1000"`
	Category string `json:"categoria" binding:"max=64,ne=all"`
}

// SearchJokesQuery is the query string of GET /piadas/busca.
type SearchJokesQuery struct {
	Category string `form:"categoria" binding:"max=64"`
	Keyword  string `form:"keyword" binding:"max=100"`
}

// RandomJokeResponse is the body of GET /piadas.
type RandomJokeResponse struct {
	Piada string `json:"piadas"`
}

// SearchJokesResponse is the body of GET /piadas/busca.
type SearchJokesResponse struct {
	Piadas []string `json:"piadas"`
}
