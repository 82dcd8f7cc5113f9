package main

import (
	"github.com/alecthomas/kong"
)

var cli struct {
	Secret string `required:"" env:"AUTH_JWT_SECRET" help:"HMAC secret shared with the API."`

	Issue   IssueCmd   `cmd:"" help:"Issue a signed API token."`
	Inspect InspectCmd `cmd:"" help:"Verify a token and print its claims."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tokengen"),
		kong.Description("Mint and inspect bearer tokens for the personnel directory API."),
		kong.ShortUsageOnError())

	err := ctx.Run(&context{secret: cli.Secret})
	ctx.FatalIfErrorf(err)
}

type context struct {
	secret string
}
