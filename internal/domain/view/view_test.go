package view_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

func applicant(id int64, first, last, email string, score model.Opt[float64]) model.ApplicantRecord {
	return model.ApplicantRecord{
		ApplicationID:      id,
		FirstName:          model.Some(first),
		LastName:           model.Some(last),
		Email:              model.Some(email),
		ResumeOverallScore: score,
	}
}

func numbered(n int) []model.ApplicantRecord {
	out := make([]model.ApplicantRecord, n)
	for i := range out {
		out[i] = applicant(int64(i+1), fmt.Sprintf("user%02d", i+1), "Test", fmt.Sprintf("u%d@example.com", i+1), model.Some(0.5))
	}
	return out
}

func randomRecords(r *rand.Rand, n int) []model.ApplicantRecord {
	names := []string{"Ann", "ann", "Bo", "ÄNNE", "Carl", "Dee", "Éva", ""}
	out := make([]model.ApplicantRecord, n)
	for i := range out {
		score := model.None[float64](model.Null)
		if r.IntN(4) > 0 {
			score = model.Some(float64(r.IntN(101)) / 100)
		}
		out[i] = applicant(int64(i+1), names[r.IntN(len(names))], names[r.IntN(len(names))],
			fmt.Sprintf("%s@x.io", names[r.IntN(len(names))]), score)
		if r.IntN(3) == 0 {
			out[i].Location = model.None[string](model.Sentinel)
		} else {
			out[i].Location = model.Some(names[r.IntN(len(names))])
		}
	}
	return out
}

func TestFilter(t *testing.T) {
	Convey("Given the Ann Lee and Bo Ng records", t, func() {
		records := []model.ApplicantRecord{
			applicant(1, "Ann", "Lee", "ann@example.com", model.Some(0.9)),
			applicant(2, "Bo", "Ng", "bo@example.com", model.None[float64](model.Null)),
		}

		Convey("When filtering by \"ann\"", func() {
			rows := view.Filter(records, "ann")

			Convey("Then only Ann Lee remains", func() {
				So(rows, ShouldHaveLength, 1)
				So(rows[0].FullName(), ShouldEqual, "Ann Lee")
			})
		})

		Convey("When filtering by upper-case email text", func() {
			So(view.Filter(records, "BO@EXAMPLE"), ShouldHaveLength, 1)
		})

		Convey("When the filter is empty", func() {
			So(view.Filter(records, ""), ShouldHaveLength, 2)
		})

		Convey("When the filter spans first and last name", func() {
			So(view.Filter(records, "n l"), ShouldHaveLength, 1)
		})
	})

	Convey("Given random record sets", t, func() {
		r := rand.New(rand.NewPCG(1, 2))
		for range 50 {
			records := randomRecords(r, 40)
			text := []string{"ann", "Ä", "x.io", "bo ", "zzz"}[r.IntN(5)]
			kept := map[int64]bool{}
			for _, row := range view.Filter(records, text) {
				kept[row.ApplicationID] = true
			}

			for i := range records {
				hay := strings.ToLower(view.Haystack(&records[i]))
				want := strings.Contains(hay, strings.ToLower(text))
				So(kept[records[i].ApplicationID], ShouldEqual, want)
			}
		}
	})
}

func TestSort(t *testing.T) {
	Convey("Given records with present and missing scores", t, func() {
		records := []model.ApplicantRecord{
			applicant(1, "b", "x", "", model.Some(0.5)),
			applicant(2, "a", "x", "", model.None[float64](model.Null)),
			applicant(3, "B", "x", "", model.Some(0.9)),
			applicant(4, "c", "x", "", model.Some(0.1)),
		}
		ids := func(rows []*model.ApplicantRecord) []int64 {
			out := make([]int64, len(rows))
			for i, r := range rows {
				out[i] = r.ApplicationID
			}
			return out
		}

		Convey("When sorting a numeric column ascending", func() {
			s := view.NewState(view.Config{})
			So(s.SetSort(view.KeyResumeOverallScore, view.Asc), ShouldBeNil)

			Convey("Then missing sorts first", func() {
				So(ids(view.Rows(records, s)), ShouldResemble, []int64{2, 4, 1, 3})
			})
		})

		Convey("When sorting a numeric column descending", func() {
			s := view.NewState(view.Config{})
			So(s.SetSort(view.KeyResumeOverallScore, view.Desc), ShouldBeNil)

			Convey("Then missing sorts last", func() {
				So(ids(view.Rows(records, s)), ShouldResemble, []int64{3, 1, 4, 2})
			})
		})

		Convey("When sorting names", func() {
			s := view.NewState(view.Config{})
			So(s.ToggleSort(view.KeyApplicantName), ShouldBeNil)

			Convey("Then comparison is case-sensitive byte order", func() {
				So(ids(view.Rows(records, s)), ShouldResemble, []int64{3, 2, 1, 4})
			})
		})

		Convey("When toggling the same column twice", func() {
			s := view.NewState(view.Config{})
			So(s.ToggleSort(view.KeyJobID), ShouldBeNil)
			So(s.Sort.Direction, ShouldEqual, view.Asc)
			So(s.ToggleSort(view.KeyJobID), ShouldBeNil)

			Convey("Then the direction flips", func() {
				So(s.Sort.Direction, ShouldEqual, view.Desc)
			})

			Convey("And a new column resets to ascending", func() {
				So(s.ToggleSort(view.KeySource), ShouldBeNil)
				So(s.Sort.Key, ShouldEqual, view.KeySource)
				So(s.Sort.Direction, ShouldEqual, view.Asc)
			})
		})

		Convey("When the key is unknown", func() {
			s := view.NewState(view.Config{})
			err := s.ToggleSort("salary")

			Convey("Then ErrUnknownSortKey is returned", func() {
				So(errors.Is(err, view.ErrUnknownSortKey), ShouldBeTrue)
				So(s.Sort, ShouldBeNil)
			})
		})
	})

	Convey("Given random record sets and every sort key", t, func() {
		r := rand.New(rand.NewPCG(3, 4))
		records := randomRecords(r, 60)

		for _, key := range view.SortKeys() {
			for _, dir := range []view.Direction{view.Asc, view.Desc} {
				s := view.NewState(view.Config{})
				So(s.SetSort(key, dir), ShouldBeNil)
				once := view.Rows(records, s)

				Convey(fmt.Sprintf("Then %s %s is ordered and idempotent", key, dir), func() {
					for i := 1; i < len(once); i++ {
						So(s.Sort.Compare(once[i-1], once[i]), ShouldBeLessThanOrEqualTo, 0)
					}
					sorted := make([]model.ApplicantRecord, len(once))
					for i, row := range once {
						sorted[i] = *row
					}
					twice := view.Rows(sorted, s)
					for i := range twice {
						So(twice[i].ApplicationID, ShouldEqual, once[i].ApplicationID)
					}
				})
			}
		}
	})
}

func TestDirection(t *testing.T) {
	Convey("Given direction strings", t, func() {
		d, err := view.ParseDirection("DESC")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, view.Desc)

		d, err = view.ParseDirection("")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, view.Asc)

		_, err = view.ParseDirection("sideways")
		So(errors.Is(err, view.ErrInvalidDirection), ShouldBeTrue)
	})
}

func TestPagination(t *testing.T) {
	Convey("Given 15 records on pages of 10", t, func() {
		v := view.New(view.Config{PageSizes: []int{10, 20, 50}, DefaultPageSize: 10})
		p := v.Refresh(numbered(15))

		Convey("Then there are two pages", func() {
			So(p.PageCount, ShouldEqual, 2)
			So(p.Rows, ShouldHaveLength, 10)
			So(p.CanNext, ShouldBeTrue)
			So(p.CanPrev, ShouldBeFalse)
		})

		Convey("When moving to the second page", func() {
			p, ok := v.NextPage()
			So(ok, ShouldBeTrue)
			So(p.PageIndex, ShouldEqual, 1)
			So(p.Rows, ShouldHaveLength, 5)

			Convey("Then next is refused on the last page", func() {
				_, ok := v.NextPage()
				So(ok, ShouldBeFalse)
			})

			Convey("And the page size changes to 20", func() {
				p, err := v.SetPageSize(20)
				So(err, ShouldBeNil)

				Convey("Then one page remains and the index clamps to 0", func() {
					So(p.PageCount, ShouldEqual, 1)
					So(p.PageIndex, ShouldEqual, 0)
					So(p.Rows, ShouldHaveLength, 15)
				})
			})

			Convey("And the filter changes", func() {
				p := v.SetFilter("user1")

				Convey("Then the view returns to the first page", func() {
					So(p.PageIndex, ShouldEqual, 0)
					So(p.FilteredCount, ShouldEqual, 6)
				})
			})

			Convey("And previous is taken twice", func() {
				_, ok := v.PrevPage()
				So(ok, ShouldBeTrue)
				_, ok = v.PrevPage()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When jumping past the end", func() {
			p, err := v.SetPage(9)
			So(err, ShouldBeNil)

			Convey("Then the index clamps to the last page", func() {
				So(p.PageIndex, ShouldEqual, 1)
				So(v.State().PageIndex, ShouldEqual, 1)
			})
		})

		Convey("When asking for a negative page", func() {
			_, err := v.SetPage(-1)
			So(errors.Is(err, view.ErrInvalidPage), ShouldBeTrue)
		})

		Convey("When asking for a page size outside the set", func() {
			_, err := v.SetPageSize(30)
			So(errors.Is(err, view.ErrInvalidPageSize), ShouldBeTrue)
			So(v.State().PageSize, ShouldEqual, 10)
		})
	})

	Convey("Given the five-size variant", t, func() {
		v := view.New(view.Config{PageSizes: []int{10, 20, 30, 40, 50}, DefaultPageSize: 30})
		So(v.State().PageSize, ShouldEqual, 30)
		_, err := v.SetPageSize(40)
		So(err, ShouldBeNil)
	})

	Convey("Given an empty record set", t, func() {
		p := view.Derive(nil, view.NewState(view.Config{}))

		Convey("Then there is still one page", func() {
			So(p.PageCount, ShouldEqual, 1)
			So(p.PageIndex, ShouldEqual, 0)
			So(p.Rows, ShouldBeEmpty)
			So(p.AllSelected, ShouldBeFalse)
		})
	})

	Convey("Given arbitrary counts, sizes and indexes", t, func() {
		r := rand.New(rand.NewPCG(5, 6))
		for range 200 {
			n := r.IntN(120)
			s := view.NewState(view.Config{})
			s.PageSize = []int{10, 20, 50}[r.IntN(3)]
			s.PageIndex = r.IntN(20)
			p := view.Derive(numbered(n), s)

			want := max(1, (n+s.PageSize-1)/s.PageSize)
			So(p.PageCount, ShouldEqual, want)
			So(p.PageIndex, ShouldBeGreaterThanOrEqualTo, 0)
			So(p.PageIndex, ShouldBeLessThan, p.PageCount)
		}
	})
}

func TestSelection(t *testing.T) {
	Convey("Given a view over six records", t, func() {
		v := view.New(view.Config{})
		v.Refresh([]model.ApplicantRecord{
			applicant(1, "Ann", "Lee", "a@x.io", model.Some(0.9)),
			applicant(2, "Anna", "Moe", "b@x.io", model.Some(0.8)),
			applicant(3, "Bo", "Ng", "c@x.io", model.Some(0.7)),
			applicant(4, "Cy", "Oh", "d@x.io", model.Some(0.6)),
			applicant(5, "Di", "Po", "e@x.io", model.Some(0.5)),
			applicant(6, "Ed", "Qi", "f@x.io", model.Some(0.4)),
		})

		Convey("When toggling one row", func() {
			p, err := v.ToggleRow(3)
			So(err, ShouldBeNil)

			Convey("Then the selection is partial", func() {
				So(p.SelectedIDs, ShouldResemble, []int64{3})
				So(p.SomeSelected, ShouldBeTrue)
				So(p.AllSelected, ShouldBeFalse)
			})

			Convey("And toggling it again deselects it", func() {
				p, err := v.ToggleRow(3)
				So(err, ShouldBeNil)
				So(p.SelectedIDs, ShouldBeEmpty)
				So(p.SomeSelected, ShouldBeFalse)
			})
		})

		Convey("When select-all runs under a filter", func() {
			v.SetFilter("ann")
			p := v.ToggleAll()

			Convey("Then only the filtered rows are selected", func() {
				So(p.SelectedIDs, ShouldResemble, []int64{1, 2})
				So(p.AllSelected, ShouldBeTrue)
				So(p.SomeSelected, ShouldBeFalse)
				So(v.State().SelectedSet(), ShouldResemble, []int64{1, 2})
			})

			Convey("And select-all again clears them", func() {
				p := v.ToggleAll()
				So(p.SelectedIDs, ShouldBeEmpty)
				So(p.AllSelected, ShouldBeFalse)
			})
		})

		Convey("When a selected row is filtered out", func() {
			_, err := v.ToggleRow(3)
			So(err, ShouldBeNil)
			_, err = v.ToggleRow(1)
			So(err, ShouldBeNil)
			p := v.SetFilter("ann")

			Convey("Then the hidden id is kept in state but not handed onward", func() {
				So(v.State().SelectedSet(), ShouldResemble, []int64{1, 3})
				So(p.SelectedIDs, ShouldResemble, []int64{1})
				So(v.Selection(), ShouldResemble, []int64{1})
			})

			Convey("And clearing the filter brings it back", func() {
				p := v.SetFilter("")
				So(p.SelectedIDs, ShouldResemble, []int64{1, 3})
			})

			Convey("And a refresh evicts it", func() {
				v.Refresh(v.Records())
				So(v.State().SelectedSet(), ShouldResemble, []int64{1})
				p := v.SetFilter("")
				So(p.SelectedIDs, ShouldResemble, []int64{1})
			})
		})

		Convey("When toggling a row hidden by the filter", func() {
			v.SetFilter("ann")
			_, err := v.ToggleRow(5)

			Convey("Then ErrRowNotVisible is returned", func() {
				So(errors.Is(err, view.ErrRowNotVisible), ShouldBeTrue)
			})
		})

		Convey("When the selection is cleared", func() {
			v.ToggleAll()
			p := v.ClearSelection()
			So(p.SelectedIDs, ShouldBeEmpty)
			So(v.State().SelectedSet(), ShouldBeEmpty)
		})

		Convey("When a refresh drops a selected record", func() {
			_, err := v.ToggleRow(6)
			So(err, ShouldBeNil)
			p := v.Refresh(v.Records()[:5])

			Convey("Then it leaves the selection", func() {
				So(p.SelectedIDs, ShouldBeEmpty)
				So(v.State().SelectedSet(), ShouldBeEmpty)
			})
		})
	})
}

func TestDeriveIsPure(t *testing.T) {
	Convey("Given a state and records", t, func() {
		records := numbered(25)
		s := view.NewState(view.Config{})
		s.PageIndex = 7
		So(s.SetSort(view.KeyApplicantName, view.Desc), ShouldBeNil)
		s.Selected[1] = true

		p := view.Derive(records, s)

		Convey("Then the inputs are untouched", func() {
			So(s.PageIndex, ShouldEqual, 7)
			So(records[0].ApplicationID, ShouldEqual, 1)
			So(p.PageIndex, ShouldEqual, 2)
			So(p.Rows[len(p.Rows)-1].ApplicationID, ShouldEqual, 1)
		})

		Convey("Then a clone does not share the selection", func() {
			c := s.Clone()
			c.Selected[2] = true
			c.Sort.Direction = view.Asc
			So(s.Selected[2], ShouldBeFalse)
			So(s.Sort.Direction, ShouldEqual, view.Desc)
		})
	})
}
