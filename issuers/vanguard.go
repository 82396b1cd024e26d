package issuers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/lookthrough"
	"github.com/etnz/lookthrough/table"
)

// vanguardClasses maps Vanguard's asset class wording to the canonical
// classes. Unknown wordings are passed through untouched so the pipeline's
// schema check reports them.
var vanguardClasses = map[string]string{
	"Equity":              lookthrough.Equity,
	"Fixed income":        lookthrough.FixedIncome,
	"Fixed Income":        lookthrough.FixedIncome,
	"Short-term reserves": lookthrough.ShortTerm,
}

// ParseVanguard parses a Vanguard fund holdings CSV download.
//
// The file carries one row per holding with the columns "Asset Class",
// "Holding Name", "Ticker", "SEDOL" and "% of Funds".
func ParseVanguard(name string) (*table.Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open vanguard holdings: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read vanguard header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, c := range header {
		index[strings.TrimSpace(c)] = i
	}
	for _, c := range []string{"Asset Class", "Holding Name", "Ticker", "SEDOL", "% of Funds"} {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q in vanguard header %v", c, header)
		}
	}

	var rows [][]any
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vanguard line %d: %w", line, err)
		}
		fraction, err := parsePercent(record[index["% of Funds"]])
		if err != nil {
			return nil, fmt.Errorf("vanguard line %d: %w", line, err)
		}
		class := strings.TrimSpace(record[index["Asset Class"]])
		if mapped, ok := vanguardClasses[class]; ok {
			class = mapped
		}
		rows = append(rows, []any{
			class,
			fraction,
			strings.TrimSpace(record[index["Holding Name"]]),
			strings.TrimSpace(record[index["Ticker"]]),
			strings.TrimSpace(record[index["SEDOL"]]),
		})
	}
	return table.New([]string{"asstype", "fraction", "name", "ticker", "sedol"}, rows...), nil
}
