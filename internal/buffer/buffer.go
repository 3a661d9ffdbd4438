package buffer

import "bytes"

// Accumulator is an append-only byte queue. Data is fed to its tail and consumed from its head,
// either up to a delimiter or as a whole. Bytes are never reordered.
//
// Slices returned by Pop and Flush share the memory with the accumulator and are valid only
// until the next call to Feed.
type Accumulator struct {
	memory []byte
	begin  int
}

func New(initialSize int) *Accumulator {
	return &Accumulator{
		memory: make([]byte, 0, initialSize),
	}
}

// Feed appends data to the tail. Already consumed space at the head is reclaimed first, if it
// makes up at least a half of the capacity.
func (a *Accumulator) Feed(data []byte) {
	if a.begin > 0 && a.begin >= cap(a.memory)/2 {
		n := copy(a.memory, a.memory[a.begin:])
		a.memory = a.memory[:n]
		a.begin = 0
	}

	a.memory = append(a.memory, data...)
}

// Pop returns everything before the first occurrence of the delimiter and discards both the
// returned prefix and the delimiter. If the delimiter isn't presented, ok is false and the
// accumulator is left intact.
func (a *Accumulator) Pop(delimiter []byte) (prefix []byte, ok bool) {
	pending := a.memory[a.begin:]
	idx := bytes.Index(pending, delimiter)
	if idx == -1 {
		return nil, false
	}

	a.begin += idx + len(delimiter)

	return pending[:idx], true
}

// Flush returns all the held data, leaving the accumulator empty.
func (a *Accumulator) Flush() []byte {
	pending := a.memory[a.begin:]
	a.memory = a.memory[:0]
	a.begin = 0

	return pending
}

// Len returns the number of bytes not consumed yet.
func (a *Accumulator) Len() int {
	return len(a.memory) - a.begin
}

// Clear drops all the held data. Allocated space is kept.
func (a *Accumulator) Clear() {
	a.memory = a.memory[:0]
	a.begin = 0
}
