package services

import (
	"gestionale_veicoli_go/models"
	"log"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// CaseBoard owns the ordered case list shown to an operator, together with
// the current selection. Foreground reloads replace the list wholesale;
// silent background refreshes merge by id so the rows the operator is
// scrolling through keep their positions.
type CaseBoard struct {
	mu       sync.Mutex
	cases    []models.Case
	selected string
	checked  map[string]bool
}

// Board is the process-wide case board backing the HTTP handlers
var Board = NewCaseBoard()

// NewCaseBoard creates an empty board
func NewCaseBoard() *CaseBoard {
	return &CaseBoard{checked: make(map[string]bool)}
}

// BoardSnapshot is the board state handed to the presentation layer
type BoardSnapshot struct {
	Cases      []models.Case `json:"cases"`
	SelectedID *string       `json:"selected_id"`
	CheckedIDs []string      `json:"checked_ids"`
}

// Reload performs a foreground refresh: fetch, apply display ordering,
// replace the list wholesale and fix up the selection. Errors propagate to
// the caller for user-visible display.
func (b *CaseBoard) Reload(db *gorm.DB) error {
	fetched, err := FetchCases(db)
	if err != nil {
		return err
	}
	SortCases(fetched)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cases = fetched
	b.healState()
	return nil
}

// RefreshSilent performs a background refresh: fetch and merge into the
// current order without disturbing it. Errors are logged and swallowed so a
// transient failure never disrupts the operator's current view.
func (b *CaseBoard) RefreshSilent(db *gorm.DB) {
	fetched, err := FetchCases(db)
	if err != nil {
		log.Printf("Error refreshing case board: %v", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cases = mergeCaseLists(b.cases, fetched)
	b.healState()
}

// healState drops stale ids from selection and checks, then falls back to
// the first row when nothing (or something vanished) is selected.
// Callers must hold b.mu.
func (b *CaseBoard) healState() {
	present := make(map[string]bool, len(b.cases))
	for _, item := range b.cases {
		present[item.ID] = true
	}

	for id := range b.checked {
		if !present[id] {
			delete(b.checked, id)
		}
	}

	if b.selected != "" && !present[b.selected] {
		b.selected = ""
	}
	if b.selected == "" && len(b.cases) > 0 {
		b.selected = b.cases[0].ID
	}
}

// Select sets the selected case; unknown ids clear the selection back to
// the first row.
func (b *CaseBoard) Select(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = id
	b.healState()
}

// ToggleChecked flips the multi-select checkmark on a case
func (b *CaseBoard) ToggleChecked(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checked[id] {
		delete(b.checked, id)
	} else {
		b.checked[id] = true
	}
}

// Snapshot returns a copy of the board state
func (b *CaseBoard) Snapshot() BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := BoardSnapshot{
		Cases:      make([]models.Case, len(b.cases)),
		CheckedIDs: make([]string, 0, len(b.checked)),
	}
	copy(snapshot.Cases, b.cases)
	for _, item := range b.cases {
		if b.checked[item.ID] {
			snapshot.CheckedIDs = append(snapshot.CheckedIDs, item.ID)
		}
	}
	if b.selected != "" {
		selected := b.selected
		snapshot.SelectedID = &selected
	}
	return snapshot
}

// Reset clears the board (used between tests and on logout)
func (b *CaseBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cases = nil
	b.selected = ""
	b.checked = make(map[string]bool)
}

// SortCases applies the display ordering in place: ascending by the numeric
// value of the internal number's digits, ties broken by the raw internal
// number string; cases without an internal number sort after all numbered
// ones, newest first among themselves. The sort is stable, so sorting an
// already-sorted list leaves it unchanged.
func SortCases(cases []models.Case) {
	sort.SliceStable(cases, func(i, j int) bool {
		a, b := &cases[i], &cases[j]
		aNumbered := a.InternalNumber != nil
		bNumbered := b.InternalNumber != nil

		if aNumbered && bNumbered {
			av := internalNumberValue(*a.InternalNumber)
			bv := internalNumberValue(*b.InternalNumber)
			if av != bv {
				return av < bv
			}
			return strings.Compare(*a.InternalNumber, *b.InternalNumber) < 0
		}
		if aNumbered != bNumbered {
			return aNumbered
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// internalNumberValue extracts the numeric value of an internal number's
// digit characters; an internal number without digits counts as 0.
func internalNumberValue(raw string) int64 {
	var value int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		value = value*10 + int64(r-'0')
		if value < 0 {
			// Overflowed: clamp, ordering beyond this point is by raw string
			return int64(^uint64(0) >> 1)
		}
	}
	return value
}

// mergeCaseLists folds a fresh fetch into the previously displayed order:
// surviving rows are replaced in place, rows deleted upstream are dropped,
// and rows the previous list never saw are appended in fetch order.
func mergeCaseLists(prev, fresh []models.Case) []models.Case {
	byID := make(map[string]models.Case, len(fresh))
	for _, item := range fresh {
		byID[item.ID] = item
	}

	merged := make([]models.Case, 0, len(fresh))
	for _, item := range prev {
		if updated, ok := byID[item.ID]; ok {
			merged = append(merged, updated)
			delete(byID, item.ID)
		}
	}
	for _, item := range fresh {
		if _, remaining := byID[item.ID]; remaining {
			merged = append(merged, item)
		}
	}
	return merged
}
