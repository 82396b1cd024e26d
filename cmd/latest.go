package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/lookthrough/date"
	"github.com/etnz/lookthrough/snapshot"
)

type latestCmd struct {
	dbdir string
	on    string
}

func (*latestCmd) Name() string { return "latest" }
func (*latestCmd) Synopsis() string {
	return "print the snapshot file the pipeline would use for a ticker"
}
func (*latestCmd) Usage() string {
	return `plt latest [-db <dir>] [-d <date>] <ticker>

  Resolves the authoritative disclosure snapshot for a ticker: the most
  recent one by default, or the one downloaded on a given day with -d.
  Exits with a failure status when no snapshot is available.
`
}

func (p *latestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.dbdir, "db", DefaultDBDir(), "Snapshot store directory written by the downloader.")
	f.StringVar(&p.on, "d", "", "Resolve for this day (e.g. 2025-08-31) instead of the most recent one.")
}

func (p *latestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one ticker argument")
		return subcommands.ExitUsageError
	}
	ticker := f.Arg(0)
	store := snapshot.NewStore(p.dbdir)

	var name string
	var ok bool
	if p.on != "" {
		on, err := date.Parse(p.on)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		name, ok = store.ResolveOn(ticker, on)
	} else {
		name, ok = store.ResolveLatest(ticker)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "no snapshot for %q in %s\n", ticker, store.Root())
		return subcommands.ExitFailure
	}
	fmt.Println(name)
	return subcommands.ExitSuccess
}
