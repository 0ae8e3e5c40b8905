package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/basecall/internal/adapters/report"
	"github.com/okian/basecall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() *report.Report {
	dyes := [model.NumDyes]model.Dye{"d1", "d2", "d3", "d4"}
	return &report.Report{
		Path:   "run.csv",
		Digest: "abc",
		Cycles: []*model.CycleResult{
			{
				Name:         "1",
				Map:          model.IdentityMap(dyes),
				Spots:        3,
				Mismatches:   1,
				ErrorPercent: 100.0 / 3,
				Contrast:     5 * math.Sqrt(3) / 2,
				NoSignal:     1,
			},
			{
				Name:         "2",
				Map:          model.PermutedMap(dyes, [model.NumDyes]int{3, 2, 1, 0}),
				Spots:        2,
				Mismatches:   2,
				ErrorPercent: 100,
				Contrast:     math.NaN(),
				NoSignal:     2,
			},
		},
	}
}

func TestWriteText(t *testing.T) {
	Convey("Given a two-cycle report", t, func() {
		var buf bytes.Buffer
		So(report.Write(report.FormatText, &buf, sample()), ShouldBeNil)
		out := buf.String()

		Convey("Then each cycle has its block", func() {
			So(out, ShouldContainSubstring, "For cycle 1:\nDye to base map that minimizes error : {'d1': 'A', 'd2': 'C', 'd3': 'G', 'd4': 'T'}\n")
			So(out, ShouldContainSubstring, "Number of spots for which no signal was received: 1\n")
			So(out, ShouldContainSubstring, "Error in basecalls (including spots where no signal was received): 33.333333333333336%\n")
			So(out, ShouldContainSubstring, "Dye signal contrast with the given biochemistry: 4.33\n\n")
		})

		Convey("Then an undefined contrast is spelled out", func() {
			So(out, ShouldContainSubstring, "For cycle 2:\nDye to base map that minimizes error : {'d1': 'T', 'd2': 'G', 'd3': 'C', 'd4': 'A'}\n")
			So(out, ShouldContainSubstring, "Error in basecalls (including spots where no signal was received): 100.0%\n")
			So(out, ShouldContainSubstring, "contrast with the given biochemistry: undefined\n")
		})
	})
}

func TestWriteJSON(t *testing.T) {
	Convey("Given a two-cycle report", t, func() {
		var buf bytes.Buffer
		So(report.Write(report.FormatJSON, &buf, sample()), ShouldBeNil)

		var got map[string]any
		So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)

		Convey("Then the undefined contrast is null", func() {
			cycles := got["cycles"].([]any)
			So(len(cycles), ShouldEqual, 2)
			So(cycles[0].(map[string]any)["contrast"], ShouldAlmostEqual, 4.330127, 1e-6)
			So(cycles[1].(map[string]any)["contrast"], ShouldBeNil)
			So(cycles[1].(map[string]any)["dye_base_map"].(map[string]any)["d1"], ShouldEqual, "T")
			So(got["input"], ShouldEqual, "run.csv")
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the format registry", t, func() {
		So(report.Formats(), ShouldResemble, []string{"json", "text"})

		Convey("Then unknown formats are refused", func() {
			err := report.Write("xml", &bytes.Buffer{}, sample())
			So(errors.Is(err, report.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestFormatContrast(t *testing.T) {
	Convey("Given contrast values", t, func() {
		So(report.FormatContrast(4.33012701), ShouldEqual, "4.33")
		So(report.FormatContrast(1.23456), ShouldEqual, "1.235")
		So(report.FormatContrast(4), ShouldEqual, "4.0")
		So(report.FormatContrast(math.NaN()), ShouldEqual, "undefined")
	})
}
