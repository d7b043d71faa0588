package ingest_test

import (
	"errors"
	"testing"

	"github.com/okian/hireview/internal/domain/ingest"
	"github.com/okian/hireview/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Given a backend applicant payload", t, func() {
		payload := []byte(`[
			{"application_id": 1, "job_id": 10, "first_name": "Ann", "last_name": "Lee",
			 "email": "ann@example.com", "skills_matching_score": 0.73, "experience_years": "4.5",
			 "phone": "string", "location": "   ", "application_status": null},
			{"application_id": "2", "first_name": "Bob", "skills_matching_score": "string"},
			{"first_name": "NoId"},
			{"application_id": 1, "first_name": "Dup"},
			{"application_id": 3.5},
			"not an object"
		]`)

		res, err := ingest.Decode(payload)

		Convey("Then it decodes without error", func() {
			So(err, ShouldBeNil)
			So(res.Records, ShouldHaveLength, 2)
		})

		Convey("Then present values are typed", func() {
			r := res.Records[0]
			So(r.ApplicationID, ShouldEqual, 1)
			So(r.JobID.Or(0), ShouldEqual, 10)
			So(r.FullName(), ShouldEqual, "Ann Lee")
			So(r.SkillsMatchingScore.Or(-1), ShouldEqual, 0.73)
			So(r.ExperienceYears.Or(-1), ShouldEqual, 4.5)
		})

		Convey("Then missing-value conventions resolve to reasons", func() {
			r := res.Records[0]
			So(r.Phone.Reason(), ShouldEqual, model.Sentinel)
			So(r.Location.Reason(), ShouldEqual, model.Blank)
			So(r.ApplicationStatus.Reason(), ShouldEqual, model.Null)
			So(r.Status(), ShouldEqual, model.DefaultStatus)
			So(res.Records[1].SkillsMatchingScore.Reason(), ShouldEqual, model.Sentinel)
		})

		Convey("Then numeric string ids are accepted", func() {
			So(res.Records[1].ApplicationID, ShouldEqual, 2)
		})

		Convey("Then bad rows are reported as drops", func() {
			So(res.Dropped, ShouldHaveLength, 4)
			So(res.Dropped[0], ShouldResemble, ingest.Drop{Index: 2, Reason: ingest.DropMissingID})
			So(res.Dropped[1], ShouldResemble, ingest.Drop{Index: 3, ApplicationID: 1, Reason: ingest.DropDuplicateID})
			So(res.Dropped[2].Reason, ShouldEqual, ingest.DropMissingID)
			So(res.Dropped[3].Reason, ShouldEqual, ingest.DropNotObject)
		})
	})

	Convey("Given a payload that is not an array", t, func() {
		res, err := ingest.Decode([]byte(`{"detail": "nope"}`))

		Convey("Then the set is empty and no error is raised", func() {
			So(err, ShouldBeNil)
			So(res.Records, ShouldBeEmpty)
		})
	})

	Convey("Given ids at and past the int64 range", t, func() {
		res, err := ingest.Decode([]byte(`[
			{"application_id": 9223372036854775807},
			{"application_id": 9223372036854775808},
			{"application_id": 1e19},
			{"application_id": "9223372036854775808"}
		]`))

		Convey("Then only the in-range id is kept", func() {
			So(err, ShouldBeNil)
			So(res.Records, ShouldHaveLength, 1)
			So(res.Records[0].ApplicationID, ShouldEqual, int64(9223372036854775807))
		})

		Convey("Then the out-of-range ids are dropped as missing, not wrapped", func() {
			So(res.Dropped, ShouldHaveLength, 3)
			for _, d := range res.Dropped {
				So(d.Reason, ShouldEqual, ingest.DropMissingID)
				So(d.ApplicationID, ShouldEqual, 0)
			}
		})
	})

	Convey("Given malformed JSON", t, func() {
		_, err := ingest.Decode([]byte(`[{"application_id": 1`))

		Convey("Then ErrMalformed is returned", func() {
			So(errors.Is(err, ingest.ErrMalformed), ShouldBeTrue)
		})
	})
}
