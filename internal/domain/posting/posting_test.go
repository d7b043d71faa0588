package posting_test

import (
	"errors"
	"testing"

	"github.com/okian/hireview/internal/domain/posting"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDraft(t *testing.T) {
	Convey("Given the default job form", t, func() {
		d := posting.DefaultDraft()

		Convey("Then it needs a title and an author", func() {
			err := d.Validate()
			So(errors.Is(err, posting.ErrInvalidDraft), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Title is required")
			So(err.Error(), ShouldContainSubstring, "created_by must be an employee id")
		})

		Convey("When it is filled in", func() {
			d.CreatedBy = 1001
			d.Title = "  Backend Engineer "
			d = d.Normalize()

			Convey("Then it validates with trimmed text", func() {
				So(d.Validate(), ShouldBeNil)
				So(d.Title, ShouldEqual, "Backend Engineer")
				So(d.Openings, ShouldEqual, 1)
				So(d.EmploymentType, ShouldEqual, "Full-time")
			})

			Convey("Then unknown enums and bad dates are rejected", func() {
				d.EmploymentType = "Gig"
				d.Status = "paused"
				d.ClosingDate = "next week"
				d.Openings = 0
				err := d.Validate()
				So(err.Error(), ShouldContainSubstring, "employment type must be one of")
				So(err.Error(), ShouldContainSubstring, "status must be one of")
				So(err.Error(), ShouldContainSubstring, "closing date must be YYYY-MM-DD")
				So(err.Error(), ShouldContainSubstring, "openings must be at least 1")
			})
		})
	})
}
