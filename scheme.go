package transitionx

// State is the mutable parse state a scheme operates on. The core only asks
// whether it is final; everything else is private to the scheme.
type State interface {
	IsFinal() bool
}

// Scheme is a concrete transition scheme over states S and gold structures G.
//
// IsValid must be free of side effects. Apply is only ever called with a move
// for which IsValid returned true. Cost is only called for valid moves; a
// value <= 0 marks the move as consistent with the gold structure.
type Scheme[S State, G any] interface {
	// KindNames names every action kind; kind k is KindNames()[k].
	// Names must be unique, non-empty and must not contain ':'.
	KindNames() []string
	IsValid(m Move, s S) bool
	Apply(m Move, s S)
	Cost(m Move, s S, gold G) float64
}

// StateInitializer is implemented by schemes that prepare a state before the
// first move.
type StateInitializer[S State] interface {
	InitializeState(s S)
}

// StateFinalizer is implemented by schemes that post-process a final state.
type StateFinalizer[S State] interface {
	FinalizeState(s S)
}
