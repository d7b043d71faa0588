package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.exports.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("views"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names should use the namespace and subsystem", func() {
				manager.exports.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_views_exports_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording an export", func() {
			before := testutil.ToFloat64(globalManager.exportRows)
			RecordExport(7)

			Convey("Then the row counter should grow by the row count", func() {
				So(testutil.ToFloat64(globalManager.exportRows)-before, ShouldEqual, 7)
			})
		})

		Convey("When recording fetch outcomes", func() {
			before := testutil.ToFloat64(globalManager.fetches.WithLabelValues("failed"))
			RecordFetch("failed")

			Convey("Then the labelled counter should increment", func() {
				So(testutil.ToFloat64(globalManager.fetches.WithLabelValues("failed"))-before, ShouldEqual, 1)
			})
		})

		Convey("When recording application outcomes", func() {
			before := testutil.ToFloat64(globalManager.applications.WithLabelValues("invalid"))
			RecordApplication("invalid")
			RecordJobCreated()

			Convey("Then the outcome counter should increment", func() {
				So(testutil.ToFloat64(globalManager.applications.WithLabelValues("invalid"))-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.jobsCreated), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateViewsOpen(3)

			Convey("Then the gauge should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.viewsOpen), ShouldEqual, 3)
			})
		})

		Convey("When recording the remaining helpers", func() {
			So(func() {
				RecordViewOpened()
				RecordViewExpired()
				RecordDeriveLatency(0.3)
				RecordRecordsLoaded(42)
				RecordRecordDropped("duplicate_id")
				RecordSchedule("ok")
				RecordScheduleReplay()
				RecordSessionEvent("login")
				RecordBackendRequest("fetch_applicants", "2xx", 12)
				RecordHTTPRequest("views", "GET", "200")
				RecordHTTPRequestDuration("views", "GET", "200", 1.5)
				RecordErrorByEndpoint("views", "GET", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
			}, ShouldNotPanic)
		})

		Convey("When fetching the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
