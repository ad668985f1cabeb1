// Command outcomed serves the example APIs and prints their outcome contracts.
package main

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Serve     ServeCmd     `cmd:"" default:"1" help:"Serve the tic-tac-toe and pet shop APIs."`
	OpenAPI   OpenAPICmd   `cmd:"" name:"openapi" help:"Print the OpenAPI document of the served APIs."`
	Contracts ContractsCmd `cmd:"" help:"List every operation and its outcome contracts."`
	Version   VersionCmd   `cmd:"" help:"Print version information."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("outcomed"),
		kong.Description("Contract-checked HTTP APIs. Configuration is read from OUTCOME_* environment variables."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
