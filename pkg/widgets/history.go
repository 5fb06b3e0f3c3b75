package widgets

import "slices"

// Change is a single text edit: the bytes Old at Start were replaced by New.
type Change struct {
	Start int
	Old   string
	New   string
}

// Inverse returns the change that undoes c.
func (c Change) Inverse() Change {
	return Change{Start: c.Start, Old: c.New, New: c.Old}
}

// Apply applies c to text. It reports false when text does not contain Old
// at Start, which happens when the text was replaced from outside.
func (c Change) Apply(text string) (string, bool) {
	end := c.Start + len(c.Old)
	if c.Start < 0 || end > len(text) || text[c.Start:end] != c.Old {
		return text, false
	}
	return text[:c.Start] + c.New + text[end:], true
}

// merge folds next into c when both belong to one typing or deletion run.
func (c Change) merge(next Change) (Change, bool) {
	switch {
	case next.Old == "" && c.New != "" && next.Start == c.Start+len(c.New):
		// Typing continues after the previous insertion.
		return Change{Start: c.Start, Old: c.Old, New: c.New + next.New}, true
	case c.New == "" && next.New == "" && next.Start+len(next.Old) == c.Start:
		// Backspace run.
		return Change{Start: next.Start, Old: next.Old + c.Old}, true
	case c.New == "" && next.New == "" && next.Start == c.Start:
		// Forward delete run.
		return Change{Start: c.Start, Old: c.Old + next.Old}, true
	case c.New == "" && next.Old == "" && next.Start == c.Start:
		// Typing over a deletion turns it into a replacement.
		return Change{Start: c.Start, Old: c.Old, New: next.New}, true
	}
	return c, false
}

// DefaultHistorySize is the number of undo steps kept when no size is set.
const DefaultHistorySize = 100

// History is a bounded undo/redo stack of text changes. Consecutive edits
// of the same kind are merged into one step until PreventMerge is called.
type History struct {
	undo         []Change
	redo         []Change
	max          int
	preventMerge bool
}

// NewHistory creates a history holding at most size steps.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{max: size}
}

// Push records c and clears the redo stack.
func (h *History) Push(c Change) {
	h.redo = h.redo[:0]
	if n := len(h.undo); n > 0 && !h.preventMerge {
		if merged, ok := h.undo[n-1].merge(c); ok {
			h.undo[n-1] = merged
			return
		}
	}
	h.preventMerge = false
	h.undo = append(h.undo, c)
	if len(h.undo) > h.max {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.max:]...)
	}
}

// checkpoint returns a function that resets h to its current steps.
func (h *History) checkpoint() func() {
	saved := History{
		undo:         slices.Clone(h.undo),
		redo:         slices.Clone(h.redo),
		max:          h.max,
		preventMerge: h.preventMerge,
	}
	return func() { *h = saved }
}

// PreventMerge starts a new step with the next Push.
func (h *History) PreventMerge() {
	h.preventMerge = true
}

// Undo pops the last step and returns the change that reverts it.
func (h *History) Undo() (Change, bool) {
	n := len(h.undo)
	if n == 0 {
		return Change{}, false
	}
	c := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, c)
	h.preventMerge = true
	return c.Inverse(), true
}

// Redo pops the last undone step and returns the change that reapplies it.
func (h *History) Redo() (Change, bool) {
	n := len(h.redo)
	if n == 0 {
		return Change{}, false
	}
	c := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, c)
	h.preventMerge = true
	return c, true
}

// CanUndo reports whether there is a step to undo.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether there is a step to redo.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops all steps.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.preventMerge = false
}
