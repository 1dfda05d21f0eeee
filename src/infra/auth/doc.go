// Package auth provides the credential primitives: bcrypt password hashing
// and HS256 bearer tokens.
package auth
