package lookthrough

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/lookthrough/table"
)

func rawHoldings() *table.Table {
	return table.New([]string{"asstype", "fraction", "ticker"},
		[]any{Equity, 0.6, "AAPL"},
		[]any{FixedIncome, 0.4, "BND"},
	)
}

func TestCheckHoldings(t *testing.T) {
	if err := CheckHoldings(rawHoldings()); err != nil {
		t.Errorf("CheckHoldings() on a valid table = %v", err)
	}
}

func TestCheckHoldingsFailures(t *testing.T) {
	cases := []struct {
		name string
		tbl  *table.Table
	}{
		{"extra column", table.New([]string{"asstype", "fraction", "ticker", "weird"},
			[]any{Equity, 1.0, "AAPL", "x"})},
		{"missing fraction", table.New([]string{"asstype", "ticker"},
			[]any{Equity, "AAPL"})},
		{"missing asstype", table.New([]string{"fraction", "ticker"},
			[]any{1.0, "AAPL"})},
		{"no identifier column", table.New([]string{"asstype", "fraction"},
			[]any{Equity, 1.0})},
		{"unknown asset class", table.New([]string{"asstype", "fraction", "ticker"},
			[]any{"Crypto", 1.0, "AAPL"})},
		{"sentinel in identifier", table.New([]string{"asstype", "fraction", "cusip"},
			[]any{Equity, 1.0, "-"})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckHoldings(c.tbl)
			if err == nil {
				t.Fatal("CheckHoldings() = nil, want a schema error")
			}
			var serr *SchemaError
			if !errors.As(err, &serr) {
				t.Errorf("CheckHoldings() = %v, want a *SchemaError", err)
			}
		})
	}
}

func TestCheckHoldingsNamesTheOffender(t *testing.T) {
	tbl := table.New([]string{"asstype", "fraction", "cusip"},
		[]any{Equity, 0.5, "037833100"},
		[]any{Equity, 0.5, "-"},
	)
	err := CheckHoldings(tbl)
	if err == nil {
		t.Fatal("CheckHoldings() = nil, want a schema error")
	}
	serr, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("CheckHoldings() = %T, want *SchemaError", err)
	}
	if serr.Column != "cusip" || serr.Value != "-" {
		t.Errorf("SchemaError = %+v, want column cusip, value -", serr)
	}
}

func TestCheckHoldingsIsPure(t *testing.T) {
	tbl := rawHoldings()
	before := tbl.String()
	_ = CheckHoldings(tbl)
	if tbl.String() != before {
		t.Error("CheckHoldings() mutated its input")
	}
}

func TestNormalizeFractions(t *testing.T) {
	// Disclosed weights summing to 0.9: outside tolerance, rescaled anyway.
	tbl := table.New([]string{"asstype", "fraction", "ticker"},
		[]any{Equity, 0.3, "A"},
		[]any{Equity, 0.3, "B"},
		[]any{Equity, 0.3, "C"},
	)
	got := NormalizeFractions(tbl)
	if sum := got.Sum("fraction"); math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Sum(fraction) = %v, want 1.0", sum)
	}
	for i, f := range got.Floats("fraction") {
		if math.Abs(f-1.0/3.0) > 1e-12 {
			t.Errorf("fraction[%d] = %v, want 1/3", i, f)
		}
	}
}

func TestNormalizeFractionsWithinTolerance(t *testing.T) {
	tbl := table.New([]string{"asstype", "fraction", "ticker"},
		[]any{Equity, 0.7, "A"},
		[]any{Equity, 0.31, "B"},
	)
	got := NormalizeFractions(tbl)
	if sum := got.Sum("fraction"); math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Sum(fraction) = %v, want 1.0", sum)
	}
}

func TestFillMissingIdentifiersIdempotent(t *testing.T) {
	once := FillMissingIdentifiers(rawHoldings())
	for _, c := range IDColumns {
		if !once.Has(c) {
			t.Errorf("FillMissingIdentifiers() did not add %q", c)
		}
	}
	// existing identifier values are untouched
	if got := once.Strings("ticker"); got[0] != "AAPL" {
		t.Errorf("ticker[0] = %q, want AAPL", got[0])
	}
	twice := FillMissingIdentifiers(once)
	if once.String() != twice.String() {
		t.Errorf("FillMissingIdentifiers() is not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}
