package issuers

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/etnz/lookthrough"
	"github.com/etnz/lookthrough/table"
)

// spdrClasses maps SPDR asset class wording to the canonical classes.
var spdrClasses = map[string]string{
	"Equity":       lookthrough.Equity,
	"Fixed Income": lookthrough.FixedIncome,
	"Cash":         lookthrough.ShortTerm,
}

// ParseSPDR parses an SPDR fund holdings page saved as HTML.
//
// Holdings are the rows of the table with class "holdings": name, ticker,
// CUSIP and weight cells in that order.
func ParseSPDR(name string) (*table.Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open spdr holdings: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse spdr holdings %q: %w", name, err)
	}

	var rows [][]any
	var parseErr error
	doc.Find("table.holdings tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) < 5 {
			parseErr = fmt.Errorf("spdr holdings row %d has %d cells, want 5", i, len(cells))
			return false
		}
		fraction, err := parsePercent(cells[4])
		if err != nil {
			parseErr = fmt.Errorf("spdr holdings row %d: %w", i, err)
			return false
		}
		class := cells[3]
		if mapped, ok := spdrClasses[class]; ok {
			class = mapped
		}
		rows = append(rows, []any{class, fraction, cells[0], cells[1], cells[2]})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no holdings table found in %q", name)
	}
	return table.New([]string{"asstype", "fraction", "name", "ticker", "cusip"}, rows...), nil
}
