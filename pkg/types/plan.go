package types

// SentinelItemID is the wire value a planning source uses for an ingredient
// it could not map to any catalog item.
const SentinelItemID int64 = -1

// ItemRef is a tagged reference to a catalog item. A planning source either
// resolved an ingredient to a catalog row (KnownItem) or could not
// (UnknownItem). The zero value is an unknown reference.
type ItemRef struct {
	id    int64
	known bool
}

// KnownItem returns a reference resolved to the given catalog item ID.
func KnownItem(id int64) ItemRef {
	return ItemRef{id: id, known: true}
}

// UnknownItem returns the reference for an ingredient outside the catalog.
func UnknownItem() ItemRef {
	return ItemRef{}
}

// DecodeItemRef maps a wire item_id to a tagged reference. SentinelItemID
// and any other non-positive value decode to an unknown reference, so a
// malformed ID can never reach a stock lookup.
func DecodeItemRef(id int64) ItemRef {
	if id <= 0 {
		return UnknownItem()
	}
	return KnownItem(id)
}

// Known reports whether the reference resolves to a catalog item.
func (r ItemRef) Known() bool {
	return r.known
}

// ID returns the catalog item ID and whether the reference is known.
func (r ItemRef) ID() (int64, bool) {
	return r.id, r.known
}

// PlannedIngredient is one ingredient usage requested by a planning source.
// It is transient: planned ingredients are never persisted, only reconciled
// against stock. DisplayName and Unit pass through to reports unvalidated.
type PlannedIngredient struct {
	Ref         ItemRef
	Quantity    float64
	Unit        string
	DisplayName string
}

// Validate rejects negative quantities. Zero quantities are valid input;
// the engine ignores them.
func (p *PlannedIngredient) Validate() error {
	if p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
