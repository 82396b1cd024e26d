package grouping

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/lookthrough/table"
)

// columns is the canonical row shape the pipeline hands over.
var columns = []string{"etf", "account", "asstype", "name", "ticker", "sedol", "isin", "cusip", "amount"}

func row(etf, name, ticker, sedol, isin, cusip string, amount float64) []any {
	return []any{etf, "acct", "Equity", name, ticker, sedol, isin, cusip, amount}
}

func TestGroupTransitiveMerge(t *testing.T) {
	// A shares a cusip with B, B shares an isin with C: all three are one
	// entity even though A and C share no identifier.
	rows := table.New(columns,
		row("F1", "Apple Inc.", "AAPL", "", "", "037833100", 100),
		row("F2", "", "", "", "US0378331005", "037833100", 50),
		row("F3", "APPLE", "", "", "US0378331005", "", 25),
		row("F1", "Microsoft", "MSFT", "", "", "", 10),
	)
	agg, annotated, err := Group(rows, nil)
	require.NoError(t, err)

	require.Equal(t, 2, agg.Len())
	assert.Equal(t, []string{"AAPL", "MSFT"}, agg.Strings("symbol"))
	assert.InDeltaSlice(t, []float64{175, 10}, agg.Floats("amount"), 1e-9)

	require.Equal(t, 4, annotated.Len())
	groups := make([]int, 0, 4)
	for r := range annotated.Rows() {
		groups = append(groups, r.Get("group").(int))
	}
	assert.Equal(t, []int{0, 0, 0, 1}, groups)
}

func TestGroupDescendingAmounts(t *testing.T) {
	rows := table.New(columns,
		row("F1", "", "SMALL", "", "", "", 10),
		row("F1", "", "BIG", "", "", "", 500),
		row("F1", "", "MID", "", "", "", 50),
	)
	agg, _, err := Group(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"BIG", "MID", "SMALL"}, agg.Strings("symbol"))
}

func TestGroupSymbolFallsBackToName(t *testing.T) {
	rows := table.New(columns,
		row("F1", "US Treasury Note 2.5%", "", "", "US91282CJK81", "", 100),
		row("F2", "US Treasury Note 2.5%", "", "", "US91282CJK81", "", 100),
	)
	agg, _, err := Group(rows, nil)
	require.NoError(t, err)
	require.Equal(t, 1, agg.Len())
	assert.Equal(t, "US Treasury Note 2.5%", agg.Strings("symbol")[0])
}

func TestGroupNoCrossColumnCollision(t *testing.T) {
	// The same string in different identifier columns must not merge rows.
	rows := table.New(columns,
		row("F1", "A", "", "2046251", "", "", 1),
		row("F2", "B", "", "", "", "2046251", 1),
	)
	agg, _, err := Group(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Len())
}

func TestGroupEmptyInput(t *testing.T) {
	agg, annotated, err := Group(table.New(columns), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.Len())
	assert.Equal(t, 0, annotated.Len())
	assert.True(t, annotated.Has("group"))
}

func TestGroupDebugTrace(t *testing.T) {
	rows := table.New(columns,
		row("F1", "Apple Inc.", "AAPL", "", "", "037833100", 100),
	)
	var buf bytes.Buffer
	_, _, err := Group(rows, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `symbol="AAPL"`)
	assert.Contains(t, buf.String(), "cusip=037833100")
}
