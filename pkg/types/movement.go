package types

import "time"

// Movement kinds. PURCHASE adds stock; CONSUME and WASTE subtract it.
const (
	KindPurchase = "PURCHASE"
	KindConsume  = "CONSUME"
	KindWaste    = "WASTE"
)

// validKinds is the set of recognized movement kinds.
var validKinds = map[string]bool{
	KindPurchase: true,
	KindConsume:  true,
	KindWaste:    true,
}

// ValidKind reports whether kind is a recognized movement kind.
func ValidKind(kind string) bool {
	return validKinds[kind]
}

// Movement source attributions. Every movement records which surface
// produced it, so the log distinguishes operator input from automated
// deductions.
const (
	SourceManual   = "manual"
	SourcePlanner  = "meal-planner"
	SourceBillScan = "bill-scan"
)

// Movement is one append-only stock change. Movements are never mutated or
// deleted; they are the source of truth for price history and demand
// analysis.
type Movement struct {
	MovementID string    `json:"movement_id"` // UUID v7, generated on append.
	ItemID     int64     `json:"item_id"`
	Kind       string    `json:"kind"`
	Quantity   float64   `json:"quantity"`
	UnitPrice  float64   `json:"unit_price,omitempty"`
	Vendor     string    `json:"vendor,omitempty"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks the movement before it is appended.
// Returns a sentinel error on failure.
func (m *Movement) Validate() error {
	if m.ItemID <= 0 {
		return ErrInvalidID
	}
	if !ValidKind(m.Kind) {
		return ErrInvalidKind
	}
	if m.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// MovementFilter narrows ListMovements. Zero values mean "no constraint".
type MovementFilter struct {
	ItemID int64
	Kind   string
	Limit  int
}
