package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/personnel-directory/internal/domain"
)

func TestParseScopes(t *testing.T) {
	scopes, err := parseScopes([]string{"directory:write", " directory:read", "directory:write"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Scope{domain.ScopeWrite, domain.ScopeRead}, scopes)

	_, err = parseScopes([]string{"admin"})
	assert.Error(t, err)
}
