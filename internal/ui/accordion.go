// Package ui holds the state machines behind the interactive block layouts.
// Renderers emit the initial state; the browser advances it with the same rules.
package ui

// NoneOpen is the OpenIndex of a fully collapsed accordion.
const NoneOpen = -1

// Accordion is a single-open disclosure group.
type Accordion struct {
	OpenIndex int
	count     int
}

// NewAccordion builds a group of n entries, opening the first when expandFirst is set.
func NewAccordion(n int, expandFirst bool) *Accordion {
	if n < 0 {
		n = 0
	}
	a := &Accordion{OpenIndex: NoneOpen, count: n}
	if expandFirst && n > 0 {
		a.OpenIndex = 0
	}
	return a
}

// Toggle closes i when it is open, otherwise opens i and closes any other entry.
// Out-of-range indexes are ignored.
func (a *Accordion) Toggle(i int) {
	if i < 0 || i >= a.count {
		return
	}
	if a.OpenIndex == i {
		a.OpenIndex = NoneOpen
		return
	}
	a.OpenIndex = i
}

func (a *Accordion) IsOpen(i int) bool {
	return a.OpenIndex != NoneOpen && a.OpenIndex == i
}

func (a *Accordion) Len() int {
	return a.count
}
