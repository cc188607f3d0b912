// Package builder collects label frequencies for ActionTable initialization.
package builder

import (
	"github.com/comalice/transitionx"
)

// Kind is the action kind counted by a Counter.
type Kind = transitionx.ActionKind

// Counter accumulates (kind, label) observations.
type Counter struct {
	counts map[Kind]map[string]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[Kind]map[string]int)}
}

func (c *Counter) kind(k Kind) map[string]int {
	m, ok := c.counts[k]
	if !ok {
		m = make(map[string]int)
		c.counts[k] = m
	}
	return m
}

// Add records one observation of label under kind.
func (c *Counter) Add(k Kind, label string) *Counter {
	return c.AddN(k, label, 1)
}

// AddN records n observations.
func (c *Counter) AddN(k Kind, label string, n int) *Counter {
	m := c.kind(k)
	if m[label] < 0 {
		// an observed label stops being a placeholder
		m[label] = 0
	}
	m[label] += n
	return c
}

// Placeholder registers a label that must exist without having been
// observed. freq must be negative; placeholders get IDs after every observed
// label. A label already observed is left alone.
func (c *Counter) Placeholder(k Kind, label string, freq int) *Counter {
	if freq >= 0 {
		freq = -1
	}
	m := c.kind(k)
	if _, seen := m[label]; !seen {
		m[label] = freq
	}
	return c
}

// Merge adds every count of other into c.
func (c *Counter) Merge(other map[Kind]map[string]int) *Counter {
	for k, labels := range other {
		for label, n := range labels {
			if n < 0 {
				c.Placeholder(k, label, n)
				continue
			}
			c.AddN(k, label, n)
		}
	}
	return c
}

// Build returns a fresh frequency map. Observed labels seen fewer than
// minFreq times are left out; placeholders are always kept.
func (c *Counter) Build(minFreq int) map[Kind]map[string]int {
	out := make(map[Kind]map[string]int, len(c.counts))
	for k, labels := range c.counts {
		m := make(map[string]int, len(labels))
		for label, n := range labels {
			if n >= 0 && n < minFreq {
				continue
			}
			m[label] = n
		}
		out[k] = m
	}
	return out
}
