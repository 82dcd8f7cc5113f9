package domain

import (
	"time"

	"github.com/samber/lo"
)

// Scope is a permission carried by an API token.
type Scope string

const (
	ScopeRead  Scope = "directory:read"
	ScopeWrite Scope = "directory:write"
)

// Token describes an issued API token.
type Token struct {
	Subject   string
	Scopes    []Scope
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasScope reports whether the token grants scope.
func (t Token) HasScope(scope Scope) bool {
	return lo.Contains(t.Scopes, scope)
}
