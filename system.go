package transitionx

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/comalice/transitionx/internal/logging"
	"github.com/comalice/transitionx/stringstore"
)

// System binds a Scheme to its ActionTable and string table. It provides the
// named-move API, the validity/cost evaluator, the oracle and serialization.
//
// The scheme is fixed at construction; nothing downstream inspects its type.
type System[S State, G any] struct {
	scheme    Scheme[S, G]
	table     *ActionTable
	strings   Interner
	kinds     []string
	kindIndex map[string]ActionKind
	initHook  func(S)
	finalHook func(S)
	logger    *slog.Logger
}

// NewSystem creates a System for scheme with an empty action table.
func NewSystem[S State, G any](scheme Scheme[S, G], opts ...Option) (*System[S, G], error) {
	if scheme == nil {
		return nil, errors.New("nil scheme")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if o.strings == nil {
		o.strings = stringstore.New()
	}

	names := scheme.KindNames()
	if len(names) == 0 {
		return nil, errors.New("scheme defines no action kinds")
	}
	index := make(map[string]ActionKind, len(names))
	for i, name := range names {
		if name == "" || strings.Contains(name, ":") {
			return nil, fmt.Errorf("invalid kind name %q", name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate kind name %q", name)
		}
		index[name] = ActionKind(i)
	}

	s := &System[S, G]{
		scheme:    scheme,
		table:     NewActionTable(o.strings),
		strings:   o.strings,
		kinds:     append([]string(nil), names...),
		kindIndex: index,
		initHook:  func(S) {},
		finalHook: func(S) {},
		logger:    o.logger,
	}
	if h, ok := scheme.(StateInitializer[S]); ok {
		s.initHook = h.InitializeState
	}
	if h, ok := scheme.(StateFinalizer[S]); ok {
		s.finalHook = h.FinalizeState
	}
	return s, nil
}

// Table returns the action table.
func (s *System[S, G]) Table() *ActionTable {
	return s.table
}

// Scheme returns the scheme the system was built with.
func (s *System[S, G]) Scheme() Scheme[S, G] {
	return s.scheme
}

// Strings returns the string table labels are interned into.
func (s *System[S, G]) Strings() Interner {
	return s.strings
}

// KindNames returns the scheme's kind names.
func (s *System[S, G]) KindNames() []string {
	return append([]string(nil), s.kinds...)
}

// Kind resolves a kind name.
func (s *System[S, G]) Kind(name string) (ActionKind, bool) {
	k, ok := s.kindIndex[name]
	return k, ok
}

func (s *System[S, G]) checkKind(kind ActionKind) error {
	if kind < 0 || int(kind) >= len(s.kinds) {
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	return nil
}

// Initialize rebuilds the action table from label frequencies.
// See ActionTable.Initialize for the ordering rules.
func (s *System[S, G]) Initialize(labelsByKind map[ActionKind]map[string]int, minFreq int) error {
	for kind := range labelsByKind {
		if err := s.checkKind(kind); err != nil {
			return err
		}
	}
	s.table.Initialize(labelsByKind, minFreq)
	s.logger.Debug("action table initialized",
		"moves", s.table.Len(),
		"kinds", len(labelsByKind),
		"min_freq", minFreq,
	)
	return nil
}

// AddAction registers (kind, label) if it is new. Must not be called while
// oracle or beam runs are using the table.
func (s *System[S, G]) AddAction(kind ActionKind, label string) (bool, error) {
	if err := s.checkKind(kind); err != nil {
		return false, err
	}
	added := s.table.AddAction(kind, label)
	if added {
		s.logger.Debug("move added", "move", s.DescribeMove(s.table.Len()-1), "id", s.table.Len()-1)
	}
	return added, nil
}

// DescribeMove renders a move as "KIND:label", or "KIND" when the label is
// empty.
func (s *System[S, G]) DescribeMove(id int) string {
	m := s.table.Move(id)
	label := s.table.LabelText(m)
	if label == "" {
		return s.kinds[m.Kind]
	}
	return s.kinds[m.Kind] + ":" + label
}

// Lookup resolves a name produced by DescribeMove.
func (s *System[S, G]) Lookup(name string) (Move, error) {
	kindName, label, _ := strings.Cut(name, ":")
	kind, ok := s.kindIndex[kindName]
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, name)
	}
	// Lookup must not grow the string table.
	id, ok := s.strings.Lookup(label)
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, name)
	}
	m, ok := s.table.Find(kind, LabelID(id))
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, name)
	}
	return m, nil
}

// IsValidNamed reports whether the named move is valid in state.
func (s *System[S, G]) IsValidNamed(state S, name string) (bool, error) {
	m, err := s.Lookup(name)
	if err != nil {
		return false, err
	}
	return s.scheme.IsValid(m, state), nil
}

// ApplyNamed checks the named move and applies it to state.
func (s *System[S, G]) ApplyNamed(state S, name string) error {
	m, err := s.Lookup(name)
	if err != nil {
		return err
	}
	if !s.scheme.IsValid(m, state) {
		return fmt.Errorf("%w: %s", ErrInvalidMove, name)
	}
	s.scheme.Apply(m, state)
	return nil
}

// Apply checks move id and applies it to state.
func (s *System[S, G]) Apply(state S, id int) error {
	if id < 0 || id >= s.table.Len() {
		return fmt.Errorf("%w: id %d", ErrUnknownMove, id)
	}
	m := s.table.Move(id)
	if !s.scheme.IsValid(m, state) {
		return fmt.Errorf("%w: %s", ErrInvalidMove, s.DescribeMove(id))
	}
	s.scheme.Apply(m, state)
	return nil
}

// InitializeState runs the scheme's initialization hook, if any.
func (s *System[S, G]) InitializeState(state S) {
	s.initHook(state)
}

// FinalizeState runs the scheme's finalization hook, if any.
func (s *System[S, G]) FinalizeState(state S) {
	s.finalHook(state)
}
