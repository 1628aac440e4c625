package services

import (
	"sync"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

// SelectionTracker holds the row checkboxes of the roster table.
type SelectionTracker struct {
	mu      sync.RWMutex
	order   []string
	checked map[string]bool
}

func NewSelectionTracker() *SelectionTracker {
	return &SelectionTracker{checked: make(map[string]bool)}
}

// Sync makes the tracked rows equal ids, in that order. Rows that are still
// present keep their checkbox; new rows start unchecked.
func (t *SelectionTracker) Sync(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		next[id] = t.checked[id]
	}
	t.order = append(t.order[:0:0], ids...)
	t.checked = next
}

// Remove drops a row, checked or not.
func (t *SelectionTracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.checked[id]; !ok {
		return
	}
	delete(t.checked, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *SelectionTracker) SetAll(checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.checked {
		t.checked[id] = checked
	}
}

// SetMany sets the given rows. Unknown ids are ignored.
func (t *SelectionTracker) SetMany(ids []string, checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		if _, ok := t.checked[id]; ok {
			t.checked[id] = checked
		}
	}
}

// Toggle sets one row. It returns false when the row is not tracked.
func (t *SelectionTracker) Toggle(id string, checked bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.checked[id]; !ok {
		return false
	}
	t.checked[id] = checked
	return true
}

func (t *SelectionTracker) IsChecked(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.checked[id]
}

// Selected returns the checked ids in row order.
func (t *SelectionTracker) Selected() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	selected := make([]string, 0, len(t.order))
	for _, id := range t.order {
		if t.checked[id] {
			selected = append(selected, id)
		}
	}
	return selected
}

// Aggregate is the select-all checkbox: all when every row is checked, none
// when no row is (including an empty table), some otherwise.
func (t *SelectionTracker) Aggregate() models.SelectionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aggregateLocked()
}

func (t *SelectionTracker) aggregateLocked() models.SelectionState {
	n := 0
	for _, v := range t.checked {
		if v {
			n++
		}
	}
	switch {
	case n == 0:
		return models.SelectionNone
	case n == len(t.checked):
		return models.SelectionAll
	default:
		return models.SelectionSome
	}
}

// Snapshot returns the selection as a response in one consistent read.
func (t *SelectionTracker) Snapshot() *models.SelectionResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()
	selected := make([]string, 0, len(t.order))
	for _, id := range t.order {
		if t.checked[id] {
			selected = append(selected, id)
		}
	}
	return &models.SelectionResponse{
		Selected:       selected,
		SelectedCount:  len(selected),
		TotalCount:     len(t.order),
		SelectionState: t.aggregateLocked(),
	}
}
