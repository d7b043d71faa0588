package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/hireview/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PageSizes, convey.ShouldResemble, []int{10, 20, 50})
			convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 10)
			convey.So(cfg.SessionDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.BackendTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.ViewTTL(), convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs that break cross-field rules", t, func() {
		ctx := context.Background()

		convey.Convey("When the default page size is not offered", func() {
			cfg := config.New(ctx)
			cfg.DefaultPageSize = 25
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a page size is not positive", func() {
			cfg := config.New(ctx)
			cfg.PageSizes = []int{0, 10}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the session driver is unknown", func() {
			cfg := config.New(ctx)
			cfg.SessionDriver = "mysql"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
