package testutil

// FixedSessionGenerator returns the same session ID every time.
//
// Journals and golden traces embed the session ID, so tests pin it to get
// byte-identical output across runs.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id. An empty id yields
// "test-session".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "test-session"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
//
// Implements engine.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
