package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/hireview/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://localhost:8000")
				convey.So(cfg.PageSizes, convey.ShouldResemble, []int{10, 20, 50})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HIREVIEW_ADDR", ":8080")
			_ = os.Setenv("HIREVIEW_BACKEND_URL", "http://hr.internal:8000")
			_ = os.Setenv("HIREVIEW_BACKEND_TIMEOUT_MS", "2500")
			_ = os.Setenv("HIREVIEW_PAGE_SIZES", "10,20,30,40,50")
			_ = os.Setenv("HIREVIEW_DEFAULT_PAGE_SIZE", "30")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://hr.internal:8000")
				convey.So(cfg.BackendTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.PageSizes, convey.ShouldResemble, []int{10, 20, 30, 40, 50})
				convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
page_sizes: [10, 20, 30, 40, 50]
view_ttl_seconds: 60
session_driver: postgres
session_dsn: "postgres://hr@localhost/hireview?sslmode=disable"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HIREVIEW_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.PageSizes, convey.ShouldResemble, []int{10, 20, 30, 40, 50})
				convey.So(cfg.ViewTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.SessionDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 10) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
backend_url: "http://file:8000"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HIREVIEW_CONFIG", tmpFile)
			_ = os.Setenv("HIREVIEW_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                   // Overridden by env
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://file:8000") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HIREVIEW_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("HIREVIEW_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("HIREVIEW_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the default page size is outside the offered set", func() {
			_ = os.Setenv("HIREVIEW_DEFAULT_PAGE_SIZE", "30")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("HIREVIEW_BACKEND_TIMEOUT_MS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"HIREVIEW_CONFIG",
		"HIREVIEW_ADDR",
		"HIREVIEW_BACKEND_URL",
		"HIREVIEW_BACKEND_TIMEOUT_MS",
		"HIREVIEW_PAGE_SIZES",
		"HIREVIEW_DEFAULT_PAGE_SIZE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "hireview-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
