package lookthrough

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/etnz/lookthrough/table"
)

// Asset classes a disclosure row may declare.
const (
	Equity      = "Equity"
	FixedIncome = "FixedIncome"
	ShortTerm   = "ShortTerm"
)

// AssetClasses is the set of valid asstype values.
var AssetClasses = []string{Equity, FixedIncome, ShortTerm}

// IDColumns are the identifier columns a disclosure may carry, in canonical
// order. A row must carry at least one non-empty identifier to be
// resolvable against other rows.
var IDColumns = []string{"name", "ticker", "sedol", "isin", "cusip"}

// Columns is the canonical column order of the combined holdings table,
// before dollar conversion replaces fraction with amount.
var Columns = append([]string{"etf", "account", "fraction", "asstype"}, IDColumns...)

// SchemaError reports a disclosure table violating the holdings schema.
// It names the offending column and, when relevant, the offending value.
type SchemaError struct {
	Column string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid holdings: %s (column %q, value %q)", e.Reason, e.Column, e.Value)
	}
	if e.Column != "" {
		return fmt.Sprintf("invalid holdings: %s (column %q)", e.Reason, e.Column)
	}
	return fmt.Sprintf("invalid holdings: %s", e.Reason)
}

// CheckHoldings checks that a raw disclosure table respects the holdings
// schema. It is a pure check: the table is never modified.
//
// The rules, in the order they are checked:
//   - no columns beyond asstype, fraction and the identifier columns,
//   - asstype and fraction both present,
//   - at least one identifier column present,
//   - every asstype value in AssetClasses,
//   - no identifier value equal to the "-" sentinel, which is reserved to
//     mean "unknown" upstream and must never enter aggregation.
func CheckHoldings(holdings *table.Table) error {
	allowed := append([]string{"asstype", "fraction"}, IDColumns...)
	for _, c := range holdings.Columns() {
		if !slices.Contains(allowed, c) {
			return &SchemaError{Column: c, Reason: "extra column"}
		}
	}
	for _, c := range []string{"asstype", "fraction"} {
		if !holdings.Has(c) {
			return &SchemaError{Column: c, Reason: "required column missing"}
		}
	}
	if !slices.ContainsFunc(IDColumns, holdings.Has) {
		return &SchemaError{Reason: fmt.Sprintf("no identifier columns found in %v", holdings.Columns())}
	}
	for _, v := range holdings.Strings("asstype") {
		if !slices.Contains(AssetClasses, v) {
			return &SchemaError{Column: "asstype", Value: v, Reason: "unknown asset class"}
		}
	}
	for _, c := range IDColumns {
		if !holdings.Has(c) {
			continue
		}
		if slices.Contains(holdings.Strings(c), "-") {
			return &SchemaError{Column: c, Value: "-", Reason: "reserved sentinel in identifier column"}
		}
	}
	return nil
}

// NormalizeFractions rescales the fraction column so it sums to exactly 1.
//
// Disclosed weights rarely sum to exactly 100% (rounding, omitted residual
// cash lines); a sum outside (0.98, 1.02) is logged as suspicious but the
// table is rescaled and processed either way.
func NormalizeFractions(holdings *table.Table) *table.Table {
	total := holdings.Sum("fraction")
	if !(0.98 < total && total < 1.02) {
		log.Warn().Float64("total", total).Msg("total weight seems invalid")
	}
	if total == 0 {
		return holdings
	}
	scale := 1 / total
	return holdings.Map("fraction", func(v any) any { return v.(float64) * scale })
}

// FillMissingIdentifiers adds every absent identifier column with empty
// values, so all disclosure tables share the same shape downstream.
// Existing columns are never touched, which makes it idempotent.
func FillMissingIdentifiers(holdings *table.Table) *table.Table {
	for _, c := range IDColumns {
		if !holdings.Has(c) {
			holdings = holdings.Create(c, func(table.Row) any { return "" })
		}
	}
	return holdings
}
