// Package dto contains Data Transfer Objects for HTTP requests and responses.
//
// Request types carry binding tags checked by the Validate middleware.
// Naming convention:
//   - Request types: <Action><Resource>Request (e.g., AddJokeRequest)
//   - Response types: <Resource>Response (e.g., SearchJokesResponse)
package dto
