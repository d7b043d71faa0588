package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/hireview/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestOpt(t *testing.T) {
	convey.Convey("Given optional values", t, func() {
		convey.Convey("When a value is present", func() {
			o := model.Some(0.0)

			convey.Convey("Then zero is still a value, distinct from null", func() {
				v, ok := o.Get()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, 0)
				convey.So(o.Reason(), convey.ShouldEqual, model.Present)
			})
		})

		convey.Convey("When a value is missing", func() {
			var zero model.Opt[string]
			sentinel := model.None[string](model.Sentinel)

			convey.Convey("Then the zero value reads as null", func() {
				convey.So(zero.Valid(), convey.ShouldBeFalse)
				convey.So(zero.Reason(), convey.ShouldEqual, model.Null)
				convey.So(zero.Or("x"), convey.ShouldEqual, "x")
			})

			convey.Convey("And the reason is kept", func() {
				convey.So(sentinel.Reason(), convey.ShouldEqual, model.Sentinel)
				convey.So(sentinel.Reason().String(), convey.ShouldEqual, "sentinel")
			})

			convey.Convey("And None(Present) degrades to Null", func() {
				convey.So(model.None[int64](model.Present).Reason(), convey.ShouldEqual, model.Null)
			})
		})

		convey.Convey("When round-tripping through JSON", func() {
			type row struct {
				Score model.Opt[float64] `json:"score"`
				Name  model.Opt[string]  `json:"name"`
			}
			out, err := json.Marshal(row{Score: model.Some(0.5), Name: model.None[string](model.Sentinel)})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(out), convey.ShouldEqual, `{"score":0.5,"name":null}`)

			var back row
			convey.So(json.Unmarshal([]byte(`{"score":null,"name":"Ann"}`), &back), convey.ShouldBeNil)
			convey.So(back.Score.Valid(), convey.ShouldBeFalse)
			convey.So(back.Name.Or(""), convey.ShouldEqual, "Ann")
		})
	})
}

func TestDisplayHelpers(t *testing.T) {
	convey.Convey("Given an applicant record", t, func() {
		r := model.ApplicantRecord{
			ApplicationID:       7,
			FirstName:           model.Some("Ann"),
			LastName:            model.Some("Lee"),
			SkillsMatchingScore: model.Some(0.73),
			ResumeOverallScore:  model.None[float64](model.Null),
			Skills:              model.Some("go, sql,, kafka ,"),
		}

		convey.Convey("Then names and skills are derived", func() {
			convey.So(r.FullName(), convey.ShouldEqual, "Ann Lee")
			convey.So(r.SkillList(), convey.ShouldResemble, []string{"go", "sql", "kafka"})
			convey.So(r.Status(), convey.ShouldEqual, model.DefaultStatus)
			convey.So(r.Experience(), convey.ShouldEqual, "0 years")
		})

		convey.Convey("Then scores format as whole percentages", func() {
			convey.So(model.Percent(r.SkillsMatchingScore), convey.ShouldEqual, "73%")
			convey.So(model.Percent(r.ResumeOverallScore), convey.ShouldEqual, "")
			convey.So(model.PercentOrPlaceholder(r.ResumeOverallScore), convey.ShouldEqual, model.Placeholder)
			convey.So(model.Percent(model.Some(0.9)), convey.ShouldEqual, "90%")
			convey.So(model.Percent(model.Some(0.0)), convey.ShouldEqual, "0%")
		})

		convey.Convey("Then missing fields degrade to the placeholder glyph", func() {
			convey.So(model.Text(r.Email), convey.ShouldEqual, "—")
			convey.So(model.Int(r.JobID), convey.ShouldEqual, "—")
			convey.So(model.Number(r.ExpectedCTC), convey.ShouldEqual, "—")
		})

		convey.Convey("Then score bands follow the thresholds", func() {
			convey.So(model.ScoreBand(model.Some(0.85)), convey.ShouldEqual, model.BandExcellent)
			convey.So(model.ScoreBand(model.Some(0.70)), convey.ShouldEqual, model.BandGood)
			convey.So(model.ScoreBand(model.Some(0.60)), convey.ShouldEqual, model.BandFair)
			convey.So(model.ScoreBand(model.Some(0.10)), convey.ShouldEqual, model.BandLow)
			convey.So(model.ScoreBand(r.ResumeOverallScore), convey.ShouldEqual, model.BandNone)
		})
	})
}
