package transitionx

import (
	"sort"
)

// Interner is the string table the action table resolves labels through.
// stringstore.Store is the default implementation.
type Interner interface {
	Add(text string) uint64
	// Lookup returns the ID of text without interning it.
	Lookup(text string) (uint64, bool)
	Resolve(id uint64) (string, bool)
	Dump() []string
	Load(texts []string) error
}

type moveKey struct {
	kind  ActionKind
	label LabelID
}

// ActionTable is the ordered registry of moves. Move IDs are assigned once
// and never change while the table lives; the per-kind label frequencies are
// kept so that Initialize can rebuild the same IDs after a reload.
//
// Build the table during setup. Afterwards it may be shared read-only by any
// number of oracle or beam runs; AddAction must not run concurrently with
// them.
type ActionTable struct {
	strings Interner
	moves   []Move
	index   map[moveKey]int
	labels  map[ActionKind]map[string]int
}

// NewActionTable creates an empty table resolving labels through strings.
func NewActionTable(strings Interner) *ActionTable {
	return &ActionTable{
		strings: strings,
		index:   make(map[moveKey]int),
		labels:  make(map[ActionKind]map[string]int),
	}
}

type labelFreq struct {
	kind  ActionKind
	label string
	freq  int
}

// Initialize discards the current moves and rebuilds the table from
// labelsByKind.
//
// Kinds are visited in ascending order. Within a kind, labels with a
// non-negative frequency get IDs ordered by frequency descending, then label
// ascending. Labels with a negative frequency are placeholders: they are
// collected across all kinds and appended last, ordered by frequency
// descending. Non-negative labels below minFreq are dropped, from the moves
// and from the retained frequencies.
//
// The same input always yields the same IDs.
func (t *ActionTable) Initialize(labelsByKind map[ActionKind]map[string]int, minFreq int) {
	kinds := make([]ActionKind, 0, len(labelsByKind))
	for k := range labelsByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	t.moves = t.moves[:0]
	t.index = make(map[moveKey]int)
	t.labels = make(map[ActionKind]map[string]int, len(kinds))

	var deferred []labelFreq
	for _, kind := range kinds {
		entries := make([]labelFreq, 0, len(labelsByKind[kind]))
		for label, freq := range labelsByKind[kind] {
			if freq >= 0 && freq < minFreq {
				continue
			}
			entries = append(entries, labelFreq{kind: kind, label: label, freq: freq})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].freq != entries[j].freq {
				return entries[i].freq > entries[j].freq
			}
			return entries[i].label < entries[j].label
		})

		kept := make(map[string]int, len(entries))
		for _, e := range entries {
			kept[e.label] = e.freq
			if e.freq < 0 {
				deferred = append(deferred, e)
				continue
			}
			t.push(e.kind, LabelID(t.strings.Add(e.label)))
		}
		t.labels[kind] = kept
	}

	sort.SliceStable(deferred, func(i, j int) bool { return deferred[i].freq > deferred[j].freq })
	for _, e := range deferred {
		t.push(e.kind, LabelID(t.strings.Add(e.label)))
	}
}

// AddAction registers (kind, label) and reports whether it was new.
// A new move gets the next ID and a synthetic frequency below every existing
// frequency of any kind, so a rebuild from Labels places it after all
// observed labels and after every move added before it.
func (t *ActionTable) AddAction(kind ActionKind, label string) bool {
	id := LabelID(t.strings.Add(label))
	if _, exists := t.index[moveKey{kind, id}]; exists {
		return false
	}

	freqs, ok := t.labels[kind]
	if !ok {
		freqs = make(map[string]int)
		t.labels[kind] = freqs
	}
	low := 0
	for _, byLabel := range t.labels {
		for _, f := range byLabel {
			low = min(low, f)
		}
	}
	freqs[label] = low - 1

	t.push(kind, id)
	return true
}

// append grows geometrically, so IDs stay dense and amortized O(1).
func (t *ActionTable) push(kind ActionKind, label LabelID) {
	m := Move{ID: len(t.moves), Kind: kind, Label: label}
	t.moves = append(t.moves, m)
	t.index[moveKey{kind, label}] = m.ID
}

// Len returns the number of registered moves.
func (t *ActionTable) Len() int {
	return len(t.moves)
}

// Move returns the move with the given ID. It panics if id is out of range.
func (t *ActionTable) Move(id int) Move {
	return t.moves[id]
}

// Moves returns a copy of all moves in ID order.
func (t *ActionTable) Moves() []Move {
	out := make([]Move, len(t.moves))
	copy(out, t.moves)
	return out
}

// Find returns the move registered for (kind, label).
func (t *ActionTable) Find(kind ActionKind, label LabelID) (Move, bool) {
	id, ok := t.index[moveKey{kind, label}]
	if !ok {
		return Move{}, false
	}
	return t.moves[id], true
}

// LabelText resolves the label of m.
func (t *ActionTable) LabelText(m Move) string {
	text, _ := t.strings.Resolve(uint64(m.Label))
	return text
}

// Frequency returns the recorded frequency of the move with the given ID.
func (t *ActionTable) Frequency(id int) int {
	m := t.moves[id]
	return t.labels[m.Kind][t.LabelText(m)]
}

// Labels returns a deep copy of the per-kind label frequencies.
func (t *ActionTable) Labels() map[ActionKind]map[string]int {
	out := make(map[ActionKind]map[string]int, len(t.labels))
	for kind, freqs := range t.labels {
		c := make(map[string]int, len(freqs))
		for label, f := range freqs {
			c[label] = f
		}
		out[kind] = c
	}
	return out
}
