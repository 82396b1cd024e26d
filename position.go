package lookthrough

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Position is one declared holding of the portfolio, as exported by the
// brokerage tooling. It is immutable input to the pipeline.
type Position struct {
	Issuer   string // issuer key, empty for a directly-held security
	Ticker   string
	Account  string
	Quantity float64 // signed, negative means short
	Price    float64
}

// Value returns the declared dollar value of the position.
func (p Position) Value() float64 { return p.Quantity * p.Price }

// Validate checks that the position carries every field the pipeline needs.
// The issuer may be empty (direct holding); everything else is required.
func (p Position) Validate() error {
	if p.Ticker == "" {
		return fmt.Errorf("position has no ticker")
	}
	if p.Account == "" {
		return fmt.Errorf("position %s has no account", p.Ticker)
	}
	if p.Price < 0 {
		return fmt.Errorf("position %s has a negative price %v", p.Ticker, p.Price)
	}
	return nil
}

// isOption reports whether a ticker denotes an option contract rather than
// a security. Export files encode options as "UNDERLYING EXPIRY..." with a
// space, e.g. "SPY 240119C00480000".
func (p Position) isOption() bool { return strings.Contains(p.Ticker, " ") }

// portfolioColumns is the required header of a portfolio export file.
var portfolioColumns = []string{"ticker", "issuer", "account", "quantity", "price"}

// ReadPortfolio reads declared positions from a portfolio export CSV file.
//
// The file must start with the header "ticker,issuer,account,quantity,price".
// Every position is validated on read; when ignoreOptions is set, option
// positions are silently dropped.
func ReadPortfolio(name string, ignoreOptions bool) ([]Position, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open portfolio file: %w", err)
	}
	defer f.Close()
	positions, err := readPositions(f, ignoreOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot read portfolio file %q: %w", name, err)
	}
	return positions, nil
}

func readPositions(r io.Reader, ignoreOptions bool) ([]Position, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range portfolioColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q in header %v", name, header)
		}
	}

	var positions []Position
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quantity, err := strconv.ParseFloat(record[index["quantity"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q: %w", line, record[index["quantity"]], err)
		}
		price, err := strconv.ParseFloat(record[index["price"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q: %w", line, record[index["price"]], err)
		}
		p := Position{
			Issuer:   strings.TrimSpace(record[index["issuer"]]),
			Ticker:   strings.TrimSpace(record[index["ticker"]]),
			Account:  strings.TrimSpace(record[index["account"]]),
			Quantity: quantity,
			Price:    price,
		}
		if ignoreOptions && p.isOption() {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		positions = append(positions, p)
	}
	return positions, nil
}
