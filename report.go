package lookthrough

import (
	"github.com/etnz/lookthrough/table"
)

// Result is the outcome of a pipeline run.
type Result struct {
	// Full holds every canonical row, all positions concatenated in
	// processing order, unfiltered.
	Full *table.Table
	// Agg holds one row per resolved underlying entity (symbol, name,
	// amount), in descending amount order. Never threshold-filtered.
	Agg *table.Table
	// Annotated holds the canonical rows tagged with their group index,
	// threshold-filtered when a threshold was configured.
	Annotated *table.Table
}

// Total returns the dollar total of the full combined table.
func (r *Result) Total() Money { return USD(r.Full.Sum("amount")) }

// FilteredTotal returns the dollar total of the (possibly filtered)
// annotated table. It matches Total up to the amount lost to filtering,
// which makes the pair a cheap consistency cross-check.
func (r *Result) FilteredTotal() Money { return USD(r.Annotated.Sum("amount")) }

// Head returns the largest aggregated holdings covering the given
// cumulative fraction of total exposure, in descending amount order.
func (r *Result) Head(tail float64) *table.Table {
	amounts := r.Agg.Floats("amount")
	var total float64
	for _, a := range amounts {
		total += a
	}
	var cum float64
	var size int
	for _, a := range amounts {
		cum += a
		if cum >= total*tail {
			break
		}
		size++
	}
	if size < len(amounts) {
		size++ // include the row that crosses the tail boundary
	}
	return r.Agg.Head(size)
}
