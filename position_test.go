package lookthrough

import (
	"strings"
	"testing"
)

const samplePortfolio = `ticker,issuer,account,quantity,price
VTI,Vanguard,ira,100,230.5
XYZ,,taxable,10,42
SPY 240119C00480000,,taxable,1,3.5
`

func TestReadPositions(t *testing.T) {
	positions, err := readPositions(strings.NewReader(samplePortfolio), false)
	if err != nil {
		t.Fatalf("readPositions() error = %v", err)
	}
	if len(positions) != 3 {
		t.Fatalf("len(positions) = %d, want 3", len(positions))
	}
	want := Position{Issuer: "Vanguard", Ticker: "VTI", Account: "ira", Quantity: 100, Price: 230.5}
	if positions[0] != want {
		t.Errorf("positions[0] = %+v, want %+v", positions[0], want)
	}
	if got := positions[0].Value(); got != 23050 {
		t.Errorf("Value() = %v, want 23050", got)
	}
}

func TestReadPositionsIgnoreOptions(t *testing.T) {
	positions, err := readPositions(strings.NewReader(samplePortfolio), true)
	if err != nil {
		t.Fatalf("readPositions() error = %v", err)
	}
	for _, p := range positions {
		if strings.Contains(p.Ticker, " ") {
			t.Errorf("option position %q was not ignored", p.Ticker)
		}
	}
	if len(positions) != 2 {
		t.Errorf("len(positions) = %d, want 2", len(positions))
	}
}

func TestReadPositionsMissingColumn(t *testing.T) {
	_, err := readPositions(strings.NewReader("ticker,issuer,account,quantity\nVTI,,a,1\n"), false)
	if err == nil || !strings.Contains(err.Error(), "price") {
		t.Errorf("readPositions() error = %v, want missing column price", err)
	}
}

func TestReadPositionsInvalidNumber(t *testing.T) {
	_, err := readPositions(strings.NewReader("ticker,issuer,account,quantity,price\nVTI,,a,ten,1\n"), false)
	if err == nil {
		t.Error("readPositions() accepted an unparseable quantity")
	}
}

func TestPositionValidate(t *testing.T) {
	cases := []struct {
		name string
		p    Position
		ok   bool
	}{
		{"valid direct", Position{Ticker: "XYZ", Account: "a", Quantity: 1, Price: 1}, true},
		{"valid short", Position{Ticker: "XYZ", Account: "a", Quantity: -5, Price: 1}, true},
		{"no ticker", Position{Account: "a", Quantity: 1, Price: 1}, false},
		{"no account", Position{Ticker: "XYZ", Quantity: 1, Price: 1}, false},
		{"negative price", Position{Ticker: "XYZ", Account: "a", Quantity: 1, Price: -1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.p.Validate(); (err == nil) != c.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, c.ok)
			}
		})
	}
}
