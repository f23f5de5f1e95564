package terminal

// History is the list of submitted command lines plus a recall cursor.
// The cursor is -1 when nothing is being recalled.
type History struct {
	items []string
	index int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{index: -1}
}

// Push appends a submitted line and resets the cursor.
func (h *History) Push(line string) {
	h.items = append(h.items, line)
	h.index = -1
}

// Up steps towards older entries, stopping at the oldest. It reports false
// when the history is empty.
func (h *History) Up() (string, bool) {
	if len(h.items) == 0 {
		return "", false
	}
	if h.index == -1 {
		h.index = len(h.items) - 1
	} else {
		h.index = max(0, h.index-1)
	}
	return h.items[h.index], true
}

// Down steps towards newer entries. Stepping past the newest resets the
// cursor and yields an empty line. It reports false when nothing is being
// recalled, in which case the input should be left alone.
func (h *History) Down() (string, bool) {
	if len(h.items) == 0 || h.index == -1 {
		return "", false
	}
	h.index++
	if h.index >= len(h.items) {
		h.index = -1
		return "", true
	}
	return h.items[h.index], true
}

// Index returns the recall cursor.
func (h *History) Index() int { return h.index }

// Len returns the number of submitted lines.
func (h *History) Len() int { return len(h.items) }

// Items returns a copy of the submitted lines, oldest first.
func (h *History) Items() []string {
	out := make([]string, len(h.items))
	copy(out, h.items)
	return out
}
