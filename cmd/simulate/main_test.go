package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the simulate command", t, func() {
		var stdout, stderr bytes.Buffer
		ctx := context.Background()

		convey.Convey("When generating and verifying a noisy table", func() {
			out := filepath.Join(t.TempDir(), "synthetic.csv")
			code := run(ctx, []string{"-spots", "300", "-seed", "7", "-no-signal", "0.05", "-misread", "0.01", "-out", out, "-verify"}, &stdout, &stderr)

			convey.Convey("Then every planted map is recovered", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "recovered 2 of 2 cycles")
			})
		})

		convey.Convey("When the output path is missing", func() {
			convey.So(run(ctx, []string{"-spots", "10"}, &stdout, &stderr), convey.ShouldEqual, exitUsage)
		})

		convey.Convey("When the configuration is out of range", func() {
			out := filepath.Join(t.TempDir(), "synthetic.csv")
			convey.So(run(ctx, []string{"-noise", "0.9", "-out", out}, &stdout, &stderr), convey.ShouldEqual, exitUsage)
		})
	})
}
