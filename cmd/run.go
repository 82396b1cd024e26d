package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/lookthrough"
	"github.com/etnz/lookthrough/grouping"
	"github.com/etnz/lookthrough/issuers"
	"github.com/etnz/lookthrough/snapshot"
	"github.com/etnz/lookthrough/table"
)

type runCmd struct {
	dbdir               string
	ignoreMissingIssuer bool
	ignoreOptions       bool
	ignoreShorts        bool
	threshold           float64
	tail                float64
	fullTable           string
	aggTable            string
	debugOutput         string
}

func (*runCmd) Name() string { return "run" }
func (*runCmd) Synopsis() string {
	return "reconcile a portfolio against downloaded fund disclosures"
}
func (*runCmd) Usage() string {
	return `plt run [flags] <portfolio.csv>

  Decomposes every fund position of the portfolio into its underlying
  holdings using the latest downloaded disclosures, aggregates the dollar
  exposure per underlying security, and prints the largest consolidated
  holdings with a totals cross-check.

  The portfolio file is a CSV export with the header
  "ticker,issuer,account,quantity,price".
`
}

func (p *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.dbdir, "db", DefaultDBDir(), "Snapshot store directory written by the downloader.")
	f.BoolVar(&p.ignoreMissingIssuer, "i", false, "Skip positions whose issuer implementation is missing instead of aborting.")
	f.BoolVar(&p.ignoreOptions, "o", false, "Ignore option positions.")
	f.BoolVar(&p.ignoreShorts, "l", false, "Ignore short positions.")
	f.Float64Var(&p.threshold, "t", 0, "Remove detail rows whose group aggregate is under this dollar amount.")
	f.Float64Var(&p.tail, "head", 0.90, "Cumulative fraction of total exposure covered by the printed head view.")
	f.StringVar(&p.fullTable, "F", "", "Path to write the detail (annotated, filtered) table to, as CSV.")
	f.StringVar(&p.aggTable, "A", "", "Path to write the aggregated table to, as CSV.")
	f.StringVar(&p.debugOutput, "D", "", "Path to write a grouping debug trace to.")
}

func (p *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one portfolio file argument")
		return subcommands.ExitUsageError
	}

	positions, err := lookthrough.ReadPortfolio(f.Arg(0), p.ignoreOptions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var debug io.Writer
	if p.debugOutput != "" {
		df, err := os.Create(p.debugOutput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create debug output: %v\n", err)
			return subcommands.ExitFailure
		}
		defer df.Close()
		debug = df
	}

	pipeline := lookthrough.Pipeline{
		Store:    snapshot.NewStore(p.dbdir),
		Registry: issuers.Default(),
		Group:    grouping.Group,
		Debug:    debug,
		Opts: lookthrough.Options{
			IgnoreMissingIssuer: p.ignoreMissingIssuer,
			IgnoreShorts:        p.ignoreShorts,
			Threshold:           p.threshold,
		},
	}

	result, err := pipeline.Run(positions)
	if err != nil {
		if errors.Is(err, lookthrough.ErrMissingIssuer) {
			fmt.Fprintf(os.Stderr, "Error: %v (use -i to skip such positions)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	if p.aggTable != "" {
		if err := writeCSVFile(p.aggTable, result.Agg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if p.fullTable != "" {
		if err := writeCSVFile(p.fullTable, result.Annotated); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	fmt.Println(result.Head(p.tail))
	fmt.Printf("Total exposure:    %s\n", result.Total())
	fmt.Printf("Reported exposure: %s\n", result.FilteredTotal())
	return subcommands.ExitSuccess
}

func writeCSVFile(name string, t *table.Table) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", name, err)
	}
	defer f.Close()
	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("cannot write %q: %w", name, err)
	}
	return f.Close()
}
