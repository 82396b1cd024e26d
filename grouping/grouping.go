// Package grouping resolves canonical holdings rows that reference the same
// underlying security.
//
// Two rows belong together when they share any non-empty identifier value
// (ticker, sedol, isin, cusip or name), and membership is transitive: if A
// shares an identifier with B and B with C, all three form one group even
// when A and C share none. This is a plain union-find over identifier
// values.
package grouping

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/lookthrough/table"
)

// idColumns are the identifier columns considered for resolution.
var idColumns = []string{"ticker", "sedol", "isin", "cusip", "name"}

// Group computes the aggregated and annotated tables for canonical rows.
//
// The aggregated table has columns symbol, name and amount, one row per
// resolved entity in descending amount order. The annotated table is the
// input with a "group" column added, indexing each row's entity in the
// aggregated table. When debug is non-nil it receives a human-readable
// trace of every group and its members.
func Group(rows *table.Table, debug io.Writer) (agg, annotated *table.Table, err error) {
	n := rows.Len()
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) { parent[find(i)] = find(j) }

	// Union rows sharing any identifier value. Values are namespaced by
	// column: a CUSIP and a SEDOL that happen to collide must not merge.
	firstSeen := make(map[string]int)
	i := 0
	for r := range rows.Rows() {
		for _, c := range idColumns {
			v := r.String(c)
			if v == "" {
				continue
			}
			key := c + "=" + v
			if j, ok := firstSeen[key]; ok {
				union(i, j)
			} else {
				firstSeen[key] = i
			}
		}
		i++
	}

	// Collect members per root, in first-appearance order for determinism.
	var members [][]int
	groupOf := make([]int, n)
	rootGroup := make(map[int]int)
	for i := range n {
		root := find(i)
		g, ok := rootGroup[root]
		if !ok {
			g = len(members)
			rootGroup[root] = g
			members = append(members, nil)
		}
		members[g] = append(members[g], i)
		groupOf[i] = g
	}

	amounts := rows.Floats("amount")
	type entity struct {
		symbol, name string
		amount       float64
		members      []int
	}
	entities := make([]entity, len(members))
	for g, member := range members {
		var amount float64
		var tickers, names []string
		for _, i := range member {
			amount += amounts[i]
		}
		tickers = values(rows, "ticker", member)
		names = values(rows, "name", member)
		symbol := mostCommon(tickers)
		if symbol == "" {
			symbol = mostCommon(names)
		}
		entities[g] = entity{symbol: symbol, name: mostCommon(names), amount: amount, members: member}
	}

	// Descending amount; stable so equal amounts keep appearance order.
	order := make([]int, len(entities))
	for g := range order {
		order[g] = g
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case entities[a].amount > entities[b].amount:
			return -1
		case entities[a].amount < entities[b].amount:
			return 1
		}
		return 0
	})
	rank := make([]int, len(entities))
	for pos, g := range order {
		rank[g] = pos
	}

	aggRows := make([][]any, len(order))
	for pos, g := range order {
		e := entities[g]
		aggRows[pos] = []any{e.symbol, e.name, e.amount}
		if debug != nil {
			if err := writeTrace(debug, pos, e.symbol, e.amount, rows, e.members); err != nil {
				return nil, nil, err
			}
		}
	}
	agg = table.New([]string{"symbol", "name", "amount"}, aggRows...)

	// Create iterates rows in order, so a counter recovers the row index.
	i = 0
	annotated = rows.Create("group", func(table.Row) any {
		g := rank[groupOf[i]]
		i++
		return g
	})
	return agg, annotated, nil
}

// values collects the non-empty values of a column over a set of rows.
func values(rows *table.Table, column string, members []int) []string {
	all := rows.Strings(column)
	var out []string
	for _, i := range members {
		if all[i] != "" {
			out = append(out, all[i])
		}
	}
	return out
}

// mostCommon returns the most frequent value, breaking ties by string
// order so the choice is deterministic. Empty input gives "".
func mostCommon(vs []string) string {
	counts := make(map[string]int, len(vs))
	for _, v := range vs {
		counts[v]++
	}
	var best string
	var bestCount int
	for v, c := range counts {
		if c > bestCount || (c == bestCount && (best == "" || strings.Compare(v, best) < 0)) {
			best, bestCount = v, c
		}
	}
	return best
}

// writeTrace writes one group and its member rows to the debug output.
func writeTrace(w io.Writer, pos int, symbol string, amount float64, rows *table.Table, members []int) error {
	if _, err := fmt.Fprintf(w, "group %d symbol=%q amount=%.2f members=%d\n", pos, symbol, amount, len(members)); err != nil {
		return fmt.Errorf("writing grouping debug output: %w", err)
	}
	etfs := rows.Strings("etf")
	byColumn := make(map[string][]string, len(idColumns))
	for _, c := range idColumns {
		byColumn[c] = rows.Strings(c)
	}
	for _, i := range members {
		ids := make([]string, 0, len(idColumns))
		for _, c := range idColumns {
			if v := byColumn[c][i]; v != "" {
				ids = append(ids, c+"="+v)
			}
		}
		if _, err := fmt.Fprintf(w, "  row %d etf=%s %s\n", i, etfs[i], strings.Join(ids, " ")); err != nil {
			return fmt.Errorf("writing grouping debug output: %w", err)
		}
	}
	return nil
}
