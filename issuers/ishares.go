package issuers

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/etnz/lookthrough"
	"github.com/etnz/lookthrough/table"
)

// isharesClasses maps iShares asset class wording to the canonical classes.
var isharesClasses = map[string]string{
	"Equity":                  lookthrough.Equity,
	"Fixed Income":            lookthrough.FixedIncome,
	"Money Market":            lookthrough.ShortTerm,
	"Cash and/or Derivatives": lookthrough.ShortTerm,
}

// ParseIShares parses an iShares fund holdings JSON download.
//
// The document carries the holdings under "$.holdings", one object per
// holding with name, assetClass, cusip, isin and weight (a percentage,
// sometimes serialized as a string).
func ParseIShares(name string) (*table.Table, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read ishares holdings: %w", err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("cannot parse ishares holdings %q: %w", name, err)
	}

	jval, err := jsonpath.Get("$.holdings", jobj)
	if err != nil {
		return nil, fmt.Errorf("no holdings in ishares document %q: %w", name, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("holdings in %q is not a list", name)
	}

	var rows [][]any
	for i, j := range jlist {
		h, ok := j.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ishares holding %d is not an object", i)
		}
		weight, err := jnumber(h["weight"])
		if err != nil {
			return nil, fmt.Errorf("ishares holding %d: weight: %w", i, err)
		}
		class := jstring(h["assetClass"])
		if mapped, ok := isharesClasses[class]; ok {
			class = mapped
		}
		rows = append(rows, []any{
			class,
			weight / 100,
			jstring(h["name"]),
			jstring(h["cusip"]),
			jstring(h["isin"]),
		})
	}
	return table.New([]string{"asstype", "fraction", "name", "cusip", "isin"}, rows...), nil
}

// jstring reads a JSON value as a string, tolerating absent values.
func jstring(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// jnumber reads a JSON value as a float64. This weird format sometimes
// serializes numbers as strings, with comma thousand separators.
func jnumber(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
