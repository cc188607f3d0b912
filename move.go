package transitionx

import "math"

// ActionKind identifies a scheme-defined action such as SHIFT or LEFT.
// Kinds are dense: a scheme with n kind names uses kinds 0..n-1.
type ActionKind int

// LabelID is an interned label string.
type LabelID uint64

// Move is one (kind, label) entry of an ActionTable. ID is its position in
// the table and the only handle other components use.
type Move struct {
	ID    int
	Kind  ActionKind
	Label LabelID
}

// InvalidCost is stored in Cost.Value for invalid moves. It is a diagnostic
// marker only; check Cost.Valid instead of comparing against it.
var InvalidCost = math.Inf(1)

// Cost is the cost of one move against a gold structure. Value is only
// meaningful when Valid is true.
type Cost struct {
	Valid bool
	Value float64
}

// GoldConsistent reports whether the move is valid and costs nothing.
func (c Cost) GoldConsistent() bool {
	return c.Valid && c.Value <= 0
}
