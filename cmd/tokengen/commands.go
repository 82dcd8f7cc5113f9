package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/spec-kit/personnel-directory/internal/auth"
	"github.com/spec-kit/personnel-directory/internal/domain"
)

type IssueCmd struct {
	Subject string        `arg:"" help:"Who the token is for."`
	Scopes  []string      `short:"s" default:"directory:read,directory:write" help:"Scopes to grant."`
	TTL     time.Duration `default:"1h" help:"Token lifetime."`
}

func (c *IssueCmd) Run(ctx *context) error {
	scopes, err := parseScopes(c.Scopes)
	if err != nil {
		return err
	}

	raw, token, err := auth.NewTokenManager(ctx.secret, c.TTL).GenerateToken(c.Subject, scopes...)
	if err != nil {
		return err
	}

	fmt.Println(raw)
	fmt.Fprintf(os.Stderr, "expires %s\n", token.ExpiresAt.Format(time.RFC3339))
	return nil
}

type InspectCmd struct {
	Token string `arg:"" help:"Token to verify."`
}

func (c *InspectCmd) Run(ctx *context) error {
	token, err := auth.NewTokenManager(ctx.secret, 0).ParseToken(c.Token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	fmt.Printf("subject: %s\n", token.Subject)
	fmt.Printf("scopes:  %s\n", strings.Join(lo.Map(token.Scopes, func(s domain.Scope, _ int) string { return string(s) }), ", "))
	fmt.Printf("issued:  %s\n", token.IssuedAt.Format(time.RFC3339))
	fmt.Printf("expires: %s\n", token.ExpiresAt.Format(time.RFC3339))
	return nil
}

var knownScopes = []domain.Scope{domain.ScopeRead, domain.ScopeWrite}

func parseScopes(values []string) ([]domain.Scope, error) {
	scopes := make([]domain.Scope, 0, len(values))
	for _, v := range lo.Uniq(values) {
		scope := domain.Scope(strings.TrimSpace(v))
		if !lo.Contains(knownScopes, scope) {
			return nil, fmt.Errorf("unknown scope %q", v)
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}
