package slot

// Holder is the single-occupancy store embedded by appliances.
//
// INVARIANT: at most one live occupant. A destroyed occupant reads as empty,
// so a stale reference never blocks the slot.
type Holder struct {
	anchor  Vec3
	current Pickable
}

// NewHolder creates an empty holder seating items at anchor.
func NewHolder(anchor Vec3) Holder {
	return Holder{anchor: anchor}
}

// Anchor is the placement for the held item.
func (h *Holder) Anchor() Vec3 {
	return h.anchor
}

// Current returns the live occupant or nil.
func (h *Holder) Current() Pickable {
	if h.current != nil && h.current.Destroyed() {
		h.current = nil
	}
	return h.current
}

// Occupied reports whether a live occupant is present.
func (h *Holder) Occupied() bool {
	return h.Current() != nil
}

// Accept takes ownership of p if the holder is empty. The item is seated at
// the anchor. Returns false for nil or destroyed candidates.
func (h *Holder) Accept(p Pickable) bool {
	if !Alive(p) || h.Occupied() {
		return false
	}
	h.current = p
	p.Place(h.anchor)
	return true
}

// Release clears occupancy and returns the former occupant (nil if empty).
func (h *Holder) Release() Pickable {
	out := h.Current()
	h.current = nil
	if out != nil {
		out.HighlightOff()
	}
	return out
}

// Clear destroys any occupant and empties the holder.
func (h *Holder) Clear() {
	if cur := h.Current(); cur != nil {
		cur.Destroy()
	}
	h.current = nil
}

// DropOrDelegate is the composable drop rule: an empty holder accepts p,
// an occupied one forwards p to its occupant.
func (h *Holder) DropOrDelegate(p Pickable) bool {
	if cur := h.Current(); cur != nil {
		return cur.TryDropIntoSlot(p)
	}
	return h.Accept(p)
}

// PickOrDelegate forwards the pickup to the occupant. When the occupant
// hands itself back the holder is vacated.
func (h *Holder) PickOrDelegate(held Pickable) Pickable {
	cur := h.Current()
	if cur == nil {
		return nil
	}
	out := cur.TryPickUpFromSlot(held)
	if out == nil {
		return nil
	}
	if out == cur {
		h.Release()
	}
	return out
}
