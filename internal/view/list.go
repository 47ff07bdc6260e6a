package view

import "github.com/claude/mapty/internal/present"

// List is an in-memory workout list. Entries are inserted right after the
// form, so the visual order is newest first while the store keeps oldest
// first. The divergence is deliberate; clients that want store order read
// the workouts endpoint instead.
type List struct {
	entries []present.Entry
}

// NewList creates an empty list.
func NewList() *List {
	return &List{}
}

func (l *List) InsertAfterForm(e present.Entry) {
	l.entries = append([]present.Entry{e}, l.entries...)
}

func (l *List) Remove(id string) {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *List) Clear() {
	l.entries = nil
}

// Entries returns the entries in visual order.
func (l *List) Entries() []present.Entry {
	return append([]present.Entry{}, l.entries...)
}
