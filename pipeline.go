package lookthrough

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/etnz/lookthrough/snapshot"
	"github.com/etnz/lookthrough/table"
)

// ParseFunc parses a downloaded disclosure file into a raw holdings table
// with asstype, fraction and identifier columns.
type ParseFunc func(name string) (*table.Table, error)

// Capability describes what is known about an issuer: a registered issuer
// may not have a working parser yet, in which case Parse is nil.
type Capability struct {
	Parse ParseFunc
}

// Registry looks up the capability registered for an issuer key.
type Registry interface {
	Lookup(issuer string) (Capability, bool)
}

// Grouper resolves canonical rows referencing the same underlying security.
//
// It returns an aggregated table with columns symbol, name and amount, one
// row per resolved entity in descending amount order, and an annotated copy
// of the input where every row carries a "group" column indexing its row in
// the aggregated table. When debug is non-nil it receives a trace of the
// resolution.
type Grouper func(rows *table.Table, debug io.Writer) (agg, annotated *table.Table, err error)

// Options tune the pipeline run.
type Options struct {
	// IgnoreMissingIssuer demotes an unregistered issuer from a fatal error
	// to a logged skip of that position.
	IgnoreMissingIssuer bool
	// IgnoreShorts skips positions with a negative quantity.
	IgnoreShorts bool
	// Threshold removes annotated rows whose group aggregate is not above
	// this dollar amount. Zero keeps everything.
	Threshold float64
}

// Pipeline reconciles declared positions against downloaded disclosures.
type Pipeline struct {
	Store    *snapshot.Store
	Registry Registry
	Group    Grouper
	Debug    io.Writer // optional grouping trace
	Opts     Options
}

// OutputColumns is the schema of the combined table: the canonical columns
// with fraction replaced by the converted dollar amount.
var OutputColumns = append(slices.DeleteFunc(slices.Clone(Columns), func(c string) bool { return c == "fraction" }), "amount")

// ErrMissingIssuer is wrapped by the fatal error returned when an issuer is
// not registered and missing issuers are not ignored.
var ErrMissingIssuer = fmt.Errorf("missing issuer")

// Run processes every declared position and returns the consolidated
// look-through result.
//
// Positions are processed in a stable (issuer, ticker) order so output and
// logs are deterministic. Absent data for one position (no snapshot yet, no
// parser yet) is logged and skipped: it must not block look-through of the
// rest of the portfolio. Malformed disclosure data aborts the whole run:
// it must never silently enter aggregate totals.
func (p *Pipeline) Run(positions []Position) (*Result, error) {
	positions = slices.Clone(positions)
	slices.SortStableFunc(positions, func(a, b Position) int {
		if c := strings.Compare(a.Issuer, b.Issuer); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})

	var tables []*table.Table
	for _, pos := range positions {
		holdings, err := p.resolve(pos)
		if err != nil {
			return nil, err
		}
		if holdings == nil {
			continue // skipped, already logged
		}
		tables = append(tables, p.convert(pos, holdings))
	}

	full := table.New(OutputColumns)
	if len(tables) > 0 {
		full = table.Concat(tables...)
	}

	agg, annotated, err := p.Group(full, p.Debug)
	if err != nil {
		return nil, fmt.Errorf("grouping holdings: %w", err)
	}

	filtered := annotated
	if p.Opts.Threshold > 0 {
		amounts := agg.Floats("amount")
		filtered = annotated.Filter(func(r table.Row) bool {
			return amounts[r.Get("group").(int)] > p.Opts.Threshold
		})
	}

	return &Result{Full: full, Agg: agg, Annotated: filtered}, nil
}

// resolve turns one position into its normalized holdings table, or nil
// when the position is skipped.
func (p *Pipeline) resolve(pos Position) (*table.Table, error) {
	if pos.Quantity < 0 && p.Opts.IgnoreShorts {
		return nil, nil
	}

	// A position with no issuer is a directly-held single security: 100%
	// direct equity exposure under its own ticker, no look-through needed.
	if pos.Issuer == "" {
		return table.New([]string{"fraction", "asstype", "ticker"},
			[]any{1.0, Equity, pos.Ticker}), nil
	}

	capability, ok := p.Registry.Lookup(pos.Issuer)
	if !ok {
		if p.Opts.IgnoreMissingIssuer {
			log.Error().Str("issuer", pos.Issuer).Str("ticker", pos.Ticker).Msg("missing issuer")
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrMissingIssuer, pos.Issuer)
	}

	filename, ok := p.Store.ResolveLatest(pos.Ticker)
	if !ok {
		// The disclosure has simply not been downloaded yet.
		log.Error().Str("ticker", pos.Ticker).Msg("missing snapshot file")
		return nil, nil
	}

	if capability.Parse == nil {
		log.Error().Str("issuer", pos.Issuer).Str("ticker", pos.Ticker).Msg("parser not implemented")
		return nil, nil
	}

	log.Info().Str("file", filename).Str("issuer", pos.Issuer).Msg("parsing snapshot")
	holdings, err := capability.Parse(filename)
	if err != nil {
		return nil, fmt.Errorf("parsing %q for %s: %w", filename, pos.Ticker, err)
	}
	if err := CheckHoldings(holdings); err != nil {
		return nil, fmt.Errorf("disclosure for %s: %w", pos.Ticker, err)
	}
	return NormalizeFractions(holdings), nil
}

// convert backfills identifiers, attaches the parent position columns,
// projects to the canonical order and converts fractions to dollar amounts.
func (p *Pipeline) convert(pos Position, holdings *table.Table) *table.Table {
	holdings = FillMissingIdentifiers(holdings)
	holdings = holdings.Create("etf", func(table.Row) any { return pos.Ticker })
	holdings = holdings.Create("account", func(table.Row) any { return pos.Account })
	holdings = holdings.Select(Columns...)

	value := pos.Value()
	return holdings.
		Create("amount", func(r table.Row) any { return r.Float("fraction") * value }).
		Delete("fraction")
}
