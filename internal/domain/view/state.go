// Package view is the applicant table view-state engine: a free-text filter,
// one sort column, a page window and a row-selection set over a loaded
// record set. Every read goes through Derive, which is pure.
package view

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Direction of the active sort column.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	dir, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = dir
	return nil
}

// ParseDirection accepts "asc" or "desc" in any case; empty means Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Sort is the single active sort column.
type Sort struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// State is the transient table state for one mounted view.
type State struct {
	FilterText string
	Sort       *Sort
	PageIndex  int
	PageSize   int
	Selected   map[int64]bool
}

// Config bounds a view's page sizes.
type Config struct {
	PageSizes       []int
	DefaultPageSize int
}

// DefaultPageSizes is the page size set offered when none is configured.
var DefaultPageSizes = []int{10, 20, 50}

func (c Config) normalized() Config {
	if len(c.PageSizes) == 0 {
		c.PageSizes = DefaultPageSizes
	}
	if !slices.Contains(c.PageSizes, c.DefaultPageSize) {
		c.DefaultPageSize = c.PageSizes[0]
	}
	return c
}

// NewState returns the empty state a view starts with on mount.
func NewState(cfg Config) State {
	cfg = cfg.normalized()
	return State{
		PageSize: cfg.DefaultPageSize,
		Selected: map[int64]bool{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	if s.Sort != nil {
		srt := *s.Sort
		out.Sort = &srt
	}
	out.Selected = maps.Clone(s.Selected)
	if out.Selected == nil {
		out.Selected = map[int64]bool{}
	}
	return out
}

// SetFilter replaces the filter text and returns to the first page.
// Selection is left untouched.
func (s *State) SetFilter(text string) {
	s.FilterText = text
	s.PageIndex = 0
}

// ToggleSort makes key the active column. The active column flips
// direction; a new column starts ascending.
func (s *State) ToggleSort(key SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	if s.Sort != nil && s.Sort.Key == key {
		if s.Sort.Direction == Asc {
			s.Sort.Direction = Desc
		} else {
			s.Sort.Direction = Asc
		}
		return nil
	}
	s.Sort = &Sort{Key: key, Direction: Asc}
	return nil
}

// SetSort sets the active column and direction explicitly.
func (s *State) SetSort(key SortKey, dir Direction) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	s.Sort = &Sort{Key: key, Direction: dir}
	return nil
}

// ClearSort drops the active column; rows keep load order.
func (s *State) ClearSort() {
	s.Sort = nil
}

// SetPageSize switches to an allowed page size and resets to the first page.
func (s *State) SetPageSize(cfg Config, size int) error {
	cfg = cfg.normalized()
	if !slices.Contains(cfg.PageSizes, size) {
		return fmt.Errorf("%w: %d not in %v", ErrInvalidPageSize, size, cfg.PageSizes)
	}
	s.PageSize = size
	s.PageIndex = 0
	return nil
}

// SetPage requests a zero-based page index. The upper bound is applied by
// the next derivation.
func (s *State) SetPage(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, index)
	}
	s.PageIndex = index
	return nil
}

// ClearSelection deselects everything, visible or not.
func (s *State) ClearSelection() {
	s.Selected = map[int64]bool{}
}

// SelectedSet returns the ids currently marked selected, ascending.
func (s State) SelectedSet() []int64 {
	ids := make([]int64, 0, len(s.Selected))
	for id, on := range s.Selected {
		if on {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
