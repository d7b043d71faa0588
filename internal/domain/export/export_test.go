package export_test

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/hireview/internal/domain/export"
	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/view"
	"github.com/smartystreets/goconvey/convey"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func parse(b []byte) [][]string {
	rows, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	convey.So(err, convey.ShouldBeNil)
	return rows
}

func TestExport(t *testing.T) {
	convey.Convey("Given the Ann Lee and Bo Ng records filtered by \"ann\"", t, func() {
		records := []model.ApplicantRecord{
			{
				ApplicationID:      1,
				FirstName:          model.Some("Ann"),
				LastName:           model.Some("Lee"),
				Email:              model.Some("ann@example.com"),
				ResumeOverallScore: model.Some(0.9),
			},
			{
				ApplicationID:      2,
				FirstName:          model.Some("Bo"),
				LastName:           model.Some("Ng"),
				ResumeOverallScore: model.None[float64](model.Null),
			},
		}
		v := view.New(view.Config{})
		v.Refresh(records)
		v.SetFilter("ann")

		out, err := export.Render(v.Filtered())
		convey.So(err, convey.ShouldBeNil)
		rows := parse(out)

		convey.Convey("Then there is a header and one data row", func() {
			convey.So(rows, convey.ShouldHaveLength, 2)
			convey.So(rows[0], convey.ShouldResemble, export.Header)
		})

		convey.Convey("Then the resume score cell is a whole percentage", func() {
			convey.So(rows[1][10], convey.ShouldEqual, "90%")
			convey.So(rows[1][3], convey.ShouldEqual, "Ann Lee")
		})
	})

	convey.Convey("Given a record with missing and sentinel fields", t, func() {
		r := model.ApplicantRecord{
			ApplicationID:       5,
			JobID:               model.Some[int64](12),
			FirstName:           model.Some("Cy"),
			Phone:               model.None[string](model.Sentinel),
			Location:            model.None[string](model.Blank),
			SkillsMatchingScore: model.Some(0.73),
			ResumeOverallScore:  model.None[float64](model.Null),
			ExperienceYears:     model.Some(3.5),
			Skills:              model.Some("go, sql"),
		}

		convey.Convey("When projected onto the header", func() {
			row := export.Row(&r)

			convey.Convey("Then missing values are empty cells", func() {
				convey.So(row, convey.ShouldHaveLength, len(export.Header))
				convey.So(row[5], convey.ShouldEqual, "")
				convey.So(row[15], convey.ShouldEqual, "")
				convey.So(row[10], convey.ShouldEqual, "")
				convey.So(row[2], convey.ShouldEqual, "")
				convey.So(row[14], convey.ShouldEqual, "")
			})

			convey.Convey("Then present values are formatted", func() {
				convey.So(row[0], convey.ShouldEqual, "5")
				convey.So(row[1], convey.ShouldEqual, "12")
				convey.So(row[3], convey.ShouldEqual, "Cy")
				convey.So(row[8], convey.ShouldEqual, "73%")
				convey.So(row[11], convey.ShouldEqual, "3.5")
			})
		})

		convey.Convey("When written, commas are quoted by the writer", func() {
			out, err := export.Render([]model.ApplicantRecord{r})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(out), convey.ShouldContainSubstring, `"go, sql"`)
			convey.So(parse(out)[1][13], convey.ShouldEqual, "go, sql")
		})
	})

	convey.Convey("Given many filtered rows", t, func() {
		records := make([]model.ApplicantRecord, 37)
		for i := range records {
			records[i] = model.ApplicantRecord{ApplicationID: int64(i + 1), FirstName: model.Some("x")}
		}
		v := view.New(view.Config{})
		v.Refresh(records)

		convey.Convey("Then the export covers every filtered row, not one page", func() {
			n, err := export.Write(&strings.Builder{}, v.Filtered())
			convey.So(err, convey.ShouldBeNil)
			convey.So(n, convey.ShouldEqual, 37)
			convey.So(v.Page().Rows, convey.ShouldHaveLength, 10)
		})
	})

	convey.Convey("Given a writer that fails", t, func() {
		_, err := export.Write(failingWriter{}, []model.ApplicantRecord{{ApplicationID: 1}})

		convey.Convey("Then ErrWrite is returned", func() {
			convey.So(errors.Is(err, export.ErrWrite), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an export time", t, func() {
		at := time.Date(2026, 3, 4, 23, 30, 0, 0, time.FixedZone("X", -2*3600))

		convey.Convey("Then the filename carries the UTC date", func() {
			convey.So(export.Filename(at), convey.ShouldEqual, "applicants-2026-03-05.csv")
		})
	})
}
