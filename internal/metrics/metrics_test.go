package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsRecording(t *testing.T) {
	Convey("Given the service registry", t, func() {
		Convey("When a catalog request fails", func() {
			before := testutil.ToFloat64(catalogRequests.WithLabelValues("search", "error"))
			RecordCatalogRequest("search", errors.New("boom"), 40*time.Millisecond)

			Convey("Then the error outcome is counted", func() {
				after := testutil.ToFloat64(catalogRequests.WithLabelValues("search", "error"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When an aggregation pass completes", func() {
			before := testutil.ToFloat64(aggregations.WithLabelValues("trending", "ok"))
			RecordAggregation("trending", "ok", 20)

			Convey("Then the pass is counted", func() {
				So(testutil.ToFloat64(aggregations.WithLabelValues("trending", "ok"))-before, ShouldEqual, 1)
			})
		})

		Convey("When recording recent-store failures and HTTP requests", func() {
			So(func() {
				RecordRecentStoreError("get")
				RecordHTTPRequest("/discover/popular", "GET", 200, time.Millisecond)
			}, ShouldNotPanic)

			Convey("Then the registry gathers without error", func() {
				families, err := Registry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
