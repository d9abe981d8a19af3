// Package diary holds the bounded log of user-visible event lines produced
// while a level is played.
package diary

import "fmt"

// DefaultCapacity is the number of entries retained when no capacity is given.
const DefaultCapacity = 10

// Diary is a bounded ring of messages; appending past capacity drops the
// oldest entry. The zero value is not usable; call New.
type Diary struct {
	capacity int
	entries  []string
}

// New creates a Diary keeping the most recent capacity entries.
//
// Precondition: capacity > 0.
func New(capacity int) *Diary {
	if capacity <= 0 {
		panic("diary: capacity must be > 0")
	}
	return &Diary{capacity: capacity}
}

// Add appends msg, trimming to the most recent entries.
//
// Postcondition: Len() <= capacity; the last entry is msg.
func (d *Diary) Add(msg string) {
	d.entries = append(d.entries, msg)
	if over := len(d.entries) - d.capacity; over > 0 {
		d.entries = append(d.entries[:0], d.entries[over:]...)
	}
}

// Addf appends a formatted message.
func (d *Diary) Addf(format string, args ...any) {
	d.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy of the retained messages, oldest first.
func (d *Diary) Entries() []string {
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of retained messages.
func (d *Diary) Len() int { return len(d.entries) }

// Capacity returns the maximum number of retained messages.
func (d *Diary) Capacity() int { return d.capacity }

// Last returns the newest message, or "" if empty.
func (d *Diary) Last() string {
	if len(d.entries) == 0 {
		return ""
	}
	return d.entries[len(d.entries)-1]
}

// Clear drops every entry.
func (d *Diary) Clear() { d.entries = d.entries[:0] }
