package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Shortage reasons.
const (
	// ShortageNotTracked marks an ingredient the planning source could not
	// map to any catalog item.
	ShortageNotTracked = "not_tracked"
	// ShortageOutOfStock marks an item with no stock entry at all.
	ShortageOutOfStock = "out_of_stock"
	// ShortageInsufficient marks an item with some stock but less than
	// required. Nothing is deducted in this case; the line reports both
	// quantities.
	ShortageInsufficient = "insufficient"
)

// UsageLine reports one fully deducted item.
type UsageLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// String renders the line for reports, e.g. "Rice: 3.5 kg".
func (l UsageLine) String() string {
	s := fmt.Sprintf("%s: %s", displayName(l.Name), formatQty(l.Quantity))
	if l.Unit != "" {
		s += " " + l.Unit
	}
	return s
}

// ShortageLine reports one planned need that could not be fully met.
type ShortageLine struct {
	Name      string  `json:"name"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Unit      string  `json:"unit,omitempty"`
	Reason    string  `json:"reason"`
}

// String renders the line for reports, e.g. "Milk: need 0.5, have 0.2".
func (l ShortageLine) String() string {
	name := displayName(l.Name)
	switch l.Reason {
	case ShortageNotTracked:
		return fmt.Sprintf("%s: not in pantry", name)
	case ShortageOutOfStock:
		return fmt.Sprintf("%s: need %s, none in stock", name, formatQty(l.Required))
	default:
		return fmt.Sprintf("%s: need %s, have %s", name, formatQty(l.Required), formatQty(l.Available))
	}
}

// ReconciliationResult is the outcome of reconciling a plan against stock.
// Shortages are normal outcomes, not errors. Ordering within each list is
// first-encounter order; no ordering holds across the two lists.
type ReconciliationResult struct {
	Used  []UsageLine    `json:"used"`
	Short []ShortageLine `json:"short"`
}

// FullyFulfilled reports whether every planned need was met.
func (r *ReconciliationResult) FullyFulfilled() bool {
	return len(r.Short) == 0
}

// Report renders the result as human-readable text, used lines first.
func (r *ReconciliationResult) Report() string {
	var b strings.Builder
	for _, l := range r.Used {
		b.WriteString("used  " + l.String() + "\n")
	}
	for _, l := range r.Short {
		b.WriteString("short " + l.String() + "\n")
	}
	if b.Len() == 0 {
		return "nothing to reconcile\n"
	}
	return b.String()
}

// formatQty renders a quantity without trailing zeros ("3.5", "2").
func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func displayName(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
