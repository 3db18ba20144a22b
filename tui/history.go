// Package tui runs the game inside a Bubble Tea terminal UI.
package tui

// History remembers submitted lines for recall with the arrow keys. It
// also keeps the half-typed draft so stepping past the newest entry
// gives it back.
type History struct {
	ring  []string
	start int
	size  int
	pos   int // -1 when not navigating
	draft string
}

// NewHistory creates a history holding at most max lines.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), pos: -1}
}

// Len is the number of remembered lines.
func (h *History) Len() int { return h.size }

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push remembers a line. Blank lines and repeats of the newest line are
// skipped. The cursor is reset.
func (h *History) Push(line string) {
	h.pos = -1
	h.draft = ""
	if line == "" || (h.size > 0 && h.at(h.size-1) == line) {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = line
		h.size++
		return
	}
	h.ring[h.start] = line
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps to an older line. The first step saves current as the draft.
func (h *History) Prev(current string) (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.pos == -1:
		h.draft = current
		h.pos = h.size - 1
	case h.pos > 0:
		h.pos--
	}
	return h.at(h.pos), true
}

// Next steps to a newer line. Past the newest it returns the draft and
// false.
func (h *History) Next() (string, bool) {
	if h.pos == -1 {
		return "", false
	}
	h.pos++
	if h.pos >= h.size {
		h.pos = -1
		return h.draft, false
	}
	return h.at(h.pos), true
}
