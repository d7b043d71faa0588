package view

import (
	"github.com/okian/hireview/internal/domain/model"
)

// Page is everything a table needs to render one derivation.
type Page struct {
	Rows          []model.ApplicantRecord `json:"rows"`
	PageIndex     int                     `json:"page_index"`
	PageSize      int                     `json:"page_size"`
	PageCount     int                     `json:"page_count"`
	TotalCount    int                     `json:"total_count"`
	FilteredCount int                     `json:"filtered_count"`
	CanPrev       bool                    `json:"can_prev"`
	CanNext       bool                    `json:"can_next"`
	FilterText    string                  `json:"filter_text"`
	Sort          *Sort                   `json:"sort,omitempty"`

	// SelectedIDs is the selection restricted to filtered rows, in display
	// order. Stale ids hidden by the filter are not listed.
	SelectedIDs  []int64 `json:"selected_ids"`
	AllSelected  bool    `json:"all_selected"`
	SomeSelected bool    `json:"some_selected"`
}

// PageCount is max(1, ceil(filtered/size)).
func PageCount(filtered, size int) int {
	if size <= 0 || filtered <= 0 {
		return 1
	}
	return (filtered + size - 1) / size
}

// ClampIndex bounds index to [0, pageCount-1].
func ClampIndex(index, pageCount int) int {
	if index < 0 {
		return 0
	}
	if index > pageCount-1 {
		return pageCount - 1
	}
	return index
}

// Rows returns the filtered records in sort order. Records are not copied.
func Rows(records []model.ApplicantRecord, s State) []*model.ApplicantRecord {
	rows := Filter(records, s.FilterText)
	sortRows(rows, s.Sort)
	return rows
}

// Derive computes the visible page for records under s. It does not mutate
// either argument; the returned PageIndex is the clamped one.
func Derive(records []model.ApplicantRecord, s State) Page {
	rows := Rows(records, s)

	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSizes[0]
	}
	count := PageCount(len(rows), size)
	index := ClampIndex(s.PageIndex, count)

	start := min(index*size, len(rows))
	end := min(start+size, len(rows))
	visible := make([]model.ApplicantRecord, 0, end-start)
	for _, r := range rows[start:end] {
		visible = append(visible, *r)
	}

	selected := make([]int64, 0)
	for _, r := range rows {
		if s.Selected[r.ApplicationID] {
			selected = append(selected, r.ApplicationID)
		}
	}

	p := Page{
		Rows:          visible,
		PageIndex:     index,
		PageSize:      size,
		PageCount:     count,
		TotalCount:    len(records),
		FilteredCount: len(rows),
		CanPrev:       index > 0,
		CanNext:       index < count-1,
		FilterText:    s.FilterText,
		SelectedIDs:   selected,
		AllSelected:   len(rows) > 0 && len(selected) == len(rows),
		SomeSelected:  len(selected) > 0 && len(selected) < len(rows),
	}
	if s.Sort != nil {
		srt := *s.Sort
		p.Sort = &srt
	}
	return p
}
