package view

import (
	"fmt"

	"github.com/okian/hireview/internal/domain/model"
)

// View binds a committed record set to its State. Every mutation
// re-derives and stores the clamped page index. A View is not safe for
// concurrent use.
type View struct {
	cfg     Config
	records []model.ApplicantRecord
	state   State
}

// New creates an empty view: no rows, no filter, no sort, first page.
func New(cfg Config) *View {
	cfg = cfg.normalized()
	return &View{cfg: cfg, state: NewState(cfg)}
}

// Config returns the page size bounds in effect.
func (v *View) Config() Config { return v.cfg }

// State returns a copy of the current state.
func (v *View) State() State { return v.state.Clone() }

// Records returns the committed record set. Callers must not modify it.
func (v *View) Records() []model.ApplicantRecord { return v.records }

// Page derives the current page and commits the clamped index.
func (v *View) Page() Page {
	p := Derive(v.records, v.state)
	v.state.PageIndex = p.PageIndex
	return p
}

// Refresh commits a new record set. Selected ids that are not in the
// filtered set of the new records are evicted.
func (v *View) Refresh(records []model.ApplicantRecord) Page {
	v.records = records
	visible := make(map[int64]bool, len(records))
	for _, r := range Filter(records, v.state.FilterText) {
		visible[r.ApplicationID] = true
	}
	for id := range v.state.Selected {
		if !visible[id] {
			delete(v.state.Selected, id)
		}
	}
	return v.Page()
}

// SetFilter changes the filter text. Selection survives; see Refresh.
func (v *View) SetFilter(text string) Page {
	v.state.SetFilter(text)
	return v.Page()
}

// ToggleSort flips or switches the sort column.
func (v *View) ToggleSort(key SortKey) (Page, error) {
	if err := v.state.ToggleSort(key); err != nil {
		return Page{}, err
	}
	return v.Page(), nil
}

// SetSort sets column and direction.
func (v *View) SetSort(key SortKey, dir Direction) (Page, error) {
	if err := v.state.SetSort(key, dir); err != nil {
		return Page{}, err
	}
	return v.Page(), nil
}

// ClearSort removes sorting.
func (v *View) ClearSort() Page {
	v.state.ClearSort()
	return v.Page()
}

// SetPageSize switches page size and returns to the first page.
func (v *View) SetPageSize(size int) (Page, error) {
	if err := v.state.SetPageSize(v.cfg, size); err != nil {
		return Page{}, err
	}
	return v.Page(), nil
}

// SetPage jumps to a page; indexes past the end land on the last page.
func (v *View) SetPage(index int) (Page, error) {
	if err := v.state.SetPage(index); err != nil {
		return Page{}, err
	}
	return v.Page(), nil
}

// NextPage advances one page. It reports false on the last page.
func (v *View) NextPage() (Page, bool) {
	p := v.Page()
	if !p.CanNext {
		return p, false
	}
	v.state.PageIndex++
	return v.Page(), true
}

// PrevPage goes back one page. It reports false on the first page.
func (v *View) PrevPage() (Page, bool) {
	p := v.Page()
	if !p.CanPrev {
		return p, false
	}
	v.state.PageIndex--
	return v.Page(), true
}

// ToggleRow flips selection of one row. Only rows that pass the filter
// can be toggled.
func (v *View) ToggleRow(id int64) (Page, error) {
	found := false
	for _, r := range Filter(v.records, v.state.FilterText) {
		if r.ApplicationID == id {
			found = true
			break
		}
	}
	if !found {
		return Page{}, fmt.Errorf("%w: %d", ErrRowNotVisible, id)
	}
	if v.state.Selected[id] {
		delete(v.state.Selected, id)
	} else {
		v.state.Selected[id] = true
	}
	return v.Page(), nil
}

// ToggleAll selects every filtered row, or deselects them all when they are
// already all selected. Rows hidden by the filter are not touched.
func (v *View) ToggleAll() Page {
	p := Derive(v.records, v.state)
	on := !p.AllSelected
	for _, r := range Filter(v.records, v.state.FilterText) {
		if on {
			v.state.Selected[r.ApplicationID] = true
		} else {
			delete(v.state.Selected, r.ApplicationID)
		}
	}
	return v.Page()
}

// ClearSelection deselects all rows.
func (v *View) ClearSelection() Page {
	v.state.ClearSelection()
	return v.Page()
}

// Selection is the filtered ∩ selected set in display order, the set handed
// to bulk actions.
func (v *View) Selection() []int64 {
	return v.Page().SelectedIDs
}

// Filtered returns the filtered rows in sort order, copied.
func (v *View) Filtered() []model.ApplicantRecord {
	rows := Rows(v.records, v.state)
	out := make([]model.ApplicantRecord, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}
