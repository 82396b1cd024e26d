package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/lookthrough/issuers"
)

type issuersCmd struct{}

func (*issuersCmd) Name() string     { return "issuers" }
func (*issuersCmd) Synopsis() string { return "list the known issuers and their parser status" }
func (*issuersCmd) Usage() string {
	return `plt issuers

  Lists every issuer key the tool recognizes in portfolio files, and whether
  a disclosure parser is implemented for it yet.
`
}

func (*issuersCmd) SetFlags(*flag.FlagSet) {}

func (*issuersCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	registry := issuers.Default()
	for _, name := range registry.Names() {
		status := "ok"
		if capability, _ := registry.Lookup(name); capability.Parse == nil {
			status = "parser not implemented"
		}
		fmt.Printf("%-14s %s\n", name, status)
	}
	return subcommands.ExitSuccess
}
