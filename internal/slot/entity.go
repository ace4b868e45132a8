package slot

import "time"

// Duration aliases time.Duration so appliance signatures read naturally.
type Duration = time.Duration

// Entity carries the identity, placement and highlight state shared by
// every interactable. Embed it and override the protocol methods.
//
// Highlights are counted: every selector that picks the entity adds one and
// removes it on deselect, so the entity stays highlighted while any actor
// still targets it.
type Entity struct {
	id         string
	pos        Vec3
	highlights int
	destroyed  bool
}

// NewEntity creates an entity at pos.
func NewEntity(id string, pos Vec3) Entity {
	return Entity{id: id, pos: pos}
}

func (e *Entity) ID() string           { return e.id }
func (e *Entity) Position() Vec3       { return e.pos }
func (e *Entity) SetPosition(pos Vec3) { e.pos = pos }
func (e *Entity) HighlightOn()         { e.highlights++ }
func (e *Entity) Highlighted() bool    { return e.highlights > 0 }
func (e *Entity) Destroyed() bool      { return e.destroyed }

// HighlightOff drops one selector's highlight.
func (e *Entity) HighlightOff() {
	if e.highlights > 0 {
		e.highlights--
	}
}

// ClearHighlight drops every highlight at once (reset, pickup, destroy).
func (e *Entity) ClearHighlight() { e.highlights = 0 }

// Destroy marks the entity gone. Idempotent.
func (e *Entity) Destroy() {
	e.destroyed = true
	e.highlights = 0
}

// Interact does nothing by default.
func (e *Entity) Interact(string) {}

// Carryable adds floor/hand state to Entity for pickable items.
type Carryable struct {
	Entity
	loose bool
}

// NewCarryable creates a carryable entity. Items start seated (not loose).
func NewCarryable(id string, pos Vec3) Carryable {
	return Carryable{Entity: NewEntity(id, pos)}
}

func (c *Carryable) Pick() {
	c.loose = false
	c.highlights = 0
}

func (c *Carryable) Drop(at Vec3) {
	c.pos = at
	c.loose = true
}

func (c *Carryable) Place(at Vec3) {
	c.pos = at
	c.loose = false
}

func (c *Carryable) Loose() bool { return c.loose }
